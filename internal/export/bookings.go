package export

import (
	"fmt"
	"io"

	"shareit/internal/dto"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	timeLayout   = "02.01.2006 15:04"
)

var bookingHeaders = []string{"ID", "Item ID", "Item", "Booker ID", "Booker", "Start", "End", "Status"}

// statusFill задает заливку строки по статусу бронирования
var statusFill = map[string]string{
	"WAITING":  "#FFEB9C",
	"APPROVED": "#C6EFCE",
	"REJECTED": "#FFC7CE",
}

// WriteBookings renders bookings as an XLSX workbook with a single sheet and writes it to w.
func WriteBookings(w io.Writer, sheet string, bookings []*dto.BookingResponse) error {
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("error deleting default sheet: %w", err)
		}
	}

	if err := writeHeaders(f, sheet); err != nil {
		return err
	}

	styles := make(map[string]int, len(statusFill))
	for status, color := range statusFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("error creating style: %w", err)
		}
		styles[status] = style
	}

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.Item.ID,
			b.Item.Name,
			b.Booker.ID,
			b.Booker.Name,
			b.Start.Format(timeLayout),
			b.End.Format(timeLayout),
			string(b.Status),
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, first, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}
		if style, ok := styles[string(b.Status)]; ok {
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(sheet, first, last, style)
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 10)
	_ = f.SetColWidth(sheet, "C", "C", 25)
	_ = f.SetColWidth(sheet, "D", "D", 10)
	_ = f.SetColWidth(sheet, "E", "E", 20)
	_ = f.SetColWidth(sheet, "F", "G", 18)
	_ = f.SetColWidth(sheet, "H", "H", 12)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeHeaders(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	for i, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

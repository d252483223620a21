package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CreateBookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Clients may send local timestamps without an offset; those are read as UTC.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04"}

func (r *CreateBookingRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemID int64  `json:"itemId"`
		Start  string `json:"start"`
		End    string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := parseTimestamp(raw.Start)
	if err != nil {
		return err
	}
	end, err := parseTimestamp(raw.End)
	if err != nil {
		return err
	}
	r.ItemID, r.Start, r.End = raw.ItemID, start, end
	return nil
}

// parseTimestamp maps an empty value to the zero time.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

type CreateItemRequestRequest struct {
	Description string `json:"description"`
}

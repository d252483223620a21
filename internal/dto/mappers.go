package dto

import "shareit/internal/models"

func ToUserResponse(u *models.User) *UserResponse {
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToItemResponse(it *models.Item) *ItemResponse {
	return &ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}

func ToItemResponses(items []*models.Item) []*ItemResponse {
	out := make([]*ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return out
}

// ToBookingResponse expects b.Item and b.Booker to be loaded; missing ones map to zero summaries.
func ToBookingResponse(b *models.Booking) *BookingResponse {
	if b == nil {
		return nil
	}
	resp := &BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Item:   ItemSummary{ID: b.ItemID},
		Booker: UserSummary{ID: b.BookerID},
		Status: b.Status,
	}
	if b.Item != nil {
		resp.Item.Name = b.Item.Name
	}
	if b.Booker != nil {
		resp.Booker.Name = b.Booker.Name
	}
	return resp
}

func ToBookingResponses(bookings []*models.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingResponse(b))
	}
	return out
}

func ToCommentResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.CreatedAt}
}

func ToCommentResponses(comments []*models.Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentResponse(c))
	}
	return out
}

func ToItemRequestResponse(r *models.ItemRequest, items []*models.Item) *ItemRequestResponse {
	resp := &ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Requester:   UserSummary{ID: r.RequesterID},
		Created:     r.CreatedAt,
		Items:       ToItemResponses(items),
	}
	if r.Requester != nil {
		resp.Requester.Name = r.Requester.Name
	}
	return resp
}

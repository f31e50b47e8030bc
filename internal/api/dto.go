package api

import (
	"errors"
	"net/http"
	"strconv"

	"sharehub/internal/models"
)

// userHeader identifies the acting user on both tiers.
const userHeader = "X-Sharer-User-Id"

var errMissingUserHeader = errors.New(userHeader + " header is required")

func actingUser(r *http.Request) (int64, error) {
	raw := r.Header.Get(userHeader)
	if raw == "" {
		return 0, errMissingUserHeader
	}
	return strconv.ParseInt(raw, 10, 64)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// queryInt reads an optional integer query parameter; absent means nil.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Response shapes are built with explicit constructors so the wire
// contract stays decoupled from the storage models.

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type commentResponse struct {
	ID         int64           `json:"id"`
	Text       string          `json:"text"`
	AuthorName string          `json:"authorName"`
	Created    models.DateTime `json:"created"`
}

func newCommentResponse(c models.Comment) commentResponse {
	return commentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.Created}
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

func newItemResponse(item models.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
	}
}

func newItemResponses(items []models.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = newItemResponse(item)
	}
	return out
}

type itemDetailsResponse struct {
	itemResponse
	LastBooking *models.BookingPreview `json:"lastBooking,omitempty"`
	NextBooking *models.BookingPreview `json:"nextBooking,omitempty"`
	Comments    []commentResponse      `json:"comments"`
}

func newItemDetailsResponse(details models.ItemDetails) itemDetailsResponse {
	comments := make([]commentResponse, len(details.Comments))
	for i, c := range details.Comments {
		comments[i] = newCommentResponse(c)
	}
	return itemDetailsResponse{
		itemResponse: newItemResponse(details.Item),
		LastBooking:  details.LastBooking,
		NextBooking:  details.NextBooking,
		Comments:     comments,
	}
}

type bookingPartyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     int64                `json:"id"`
	Start  models.DateTime      `json:"start"`
	End    models.DateTime      `json:"end"`
	Status models.BookingStatus `json:"status"`
	Booker bookingPartyResponse `json:"booker"`
	Item   bookingPartyResponse `json:"item"`
}

func newBookingResponse(b models.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Booker: bookingPartyResponse{ID: b.BookerID, Name: b.BookerName},
		Item:   bookingPartyResponse{ID: b.ItemID, Name: b.ItemName},
	}
}

func newBookingResponses(bookings []models.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = newBookingResponse(b)
	}
	return out
}

type requestResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Created     models.DateTime `json:"created"`
	Items       []itemResponse  `json:"items"`
}

func newRequestResponse(details models.RequestDetails) requestResponse {
	return requestResponse{
		ID:          details.ID,
		Description: details.Description,
		Created:     details.Created,
		Items:       newItemResponses(details.Items),
	}
}

func newRequestResponses(all []models.RequestDetails) []requestResponse {
	out := make([]requestResponse, len(all))
	for i, d := range all {
		out[i] = newRequestResponse(d)
	}
	return out
}

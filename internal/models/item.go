package models

type Item struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// ItemUpdate carries a partial item update; nil fields stay untouched.
type ItemUpdate struct {
	Name        *string
	Description *string
	Available   *bool
}

// ItemDetails is an item with its comments and, for the owner,
// last/next booking previews.
type ItemDetails struct {
	Item
	LastBooking *BookingPreview `json:"lastBooking,omitempty"`
	NextBooking *BookingPreview `json:"nextBooking,omitempty"`
	Comments    []Comment       `json:"comments"`
}

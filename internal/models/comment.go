package models

// Comment is a review left by a past booker. AuthorName is a snapshot
// of the commenter's name at creation time, not a live reference.
type Comment struct {
	ID         int64    `json:"id"`
	ItemID     int64    `json:"item_id"`
	Text       string   `json:"text"`
	AuthorName string   `json:"authorName"`
	Created    DateTime `json:"created"`
}

package models

type ItemRequest struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	RequesterID int64    `json:"requester_id"`
	Created     DateTime `json:"created"`
}

// RequestDetails is a request with the items listed in response to it.
type RequestDetails struct {
	ItemRequest
	Items []Item `json:"items"`
}

package models

import "fmt"

// BookingStatus is the persistent lifecycle value of a booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// BookingState is the logical filter bucket for booking listings,
// distinct from BookingStatus.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState validates a raw state parameter.
func ParseBookingState(raw string) (BookingState, error) {
	switch BookingState(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(raw), nil
	default:
		return "", fmt.Errorf("unknown state: %s", raw)
	}
}

// BookingRole selects which side of a booking a listing subject is on.
type BookingRole int

const (
	RoleBooker BookingRole = iota
	RoleOwner
)

type Booking struct {
	ID         int64         `json:"id"`
	ItemID     int64         `json:"item_id"`
	ItemName   string        `json:"item_name"`
	OwnerID    int64         `json:"-"`
	BookerID   int64         `json:"booker_id"`
	BookerName string        `json:"booker_name"`
	Start      DateTime      `json:"start"`
	End        DateTime      `json:"end"`
	Status     BookingStatus `json:"status"`
}

// BookingPreview is the short booking projection attached to items
// (most recent past booking, soonest upcoming booking).
type BookingPreview struct {
	ID       int64    `json:"id"`
	BookerID int64    `json:"bookerId"`
	Start    DateTime `json:"bookingDate"`
}

package domain

import "errors"

// Sentinel errors for the marketplace core. Services wrap these with
// fmt.Errorf("...: %w", Err...) context; the HTTP layer maps them to
// status codes with errors.Is.
var (
	// ErrNotFound covers missing users, items, bookings and requests.
	ErrNotFound = errors.New("entity not found")

	// ErrForbidden means the acting user is not a party allowed to
	// perform the operation. The HTTP layer deliberately answers 404
	// to avoid leaking existence.
	ErrForbidden = errors.New("inappropriate user")

	// ErrBadRequest covers malformed or out-of-range input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnsupportedState rejects unrecognized booking listing states.
	ErrUnsupportedState = errors.New("unsupported state")

	// ErrUnavailable rejects bookings on items flagged unavailable.
	ErrUnavailable = errors.New("item unavailable")

	// ErrStatusAlreadySet rejects a second status transition on a
	// booking that already left WAITING.
	ErrStatusAlreadySet = errors.New("booking status already set")

	// ErrEmailTaken rejects a user create/update reusing another
	// user's email.
	ErrEmailTaken = errors.New("email already used")

	// ErrUserInUse blocks deleting a user who still owns items, has
	// bookings or posted requests (restrict policy).
	ErrUserInUse = errors.New("user still referenced by items, bookings or requests")

	// ErrItemInUse blocks deleting an item that still has bookings or
	// comments attached.
	ErrItemInUse = errors.New("item still referenced by bookings or comments")
)

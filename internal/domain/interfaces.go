package domain

import (
	"context"
	"time"

	"sharehub/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	// ListItemsByOwner returns the owner's items ordered by id
	// ascending; limit <= 0 disables pagination.
	ListItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error)
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	SearchItemsByText(ctx context.Context, text string) ([]models.Item, error)
	// ListItemsByRequestIDs groups fulfilling items by originating
	// request id.
	ListItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	// UpdateBookingStatusIfWaiting is the WAITING -> {APPROVED,
	// REJECTED} compare-and-set; zero rows affected yields
	// ErrStatusAlreadySet.
	UpdateBookingStatusIfWaiting(ctx context.Context, id int64, status models.BookingStatus) error
	// ListBookingsByState returns bookings for the subject (booker or
	// owner of the booked item) filtered by state, ordered by start
	// descending; limit <= 0 disables pagination.
	ListBookingsByState(ctx context.Context, subjectID int64, role models.BookingRole, state models.BookingState, now time.Time, limit, offset int) ([]models.Booking, error)
	CountBookingsByState(ctx context.Context, subjectID int64, role models.BookingRole, state models.BookingState, now time.Time) (int, error)
	// FindLastBooking returns the latest booking with start before now
	// (any status), FindNextBooking the earliest with start after now
	// and status not REJECTED. Both return nil when none qualifies.
	FindLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingPreview, error)
	FindNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingPreview, error)
	FindLastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.BookingPreview, error)
	FindNextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.BookingPreview, error)
	// ExistsApprovedStarted reports whether the user has an APPROVED
	// booking on the item with start before now.
	ExistsApprovedStarted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
	CountBookingsByBooker(ctx context.Context, bookerID int64) (int, error)
	CountBookingsByItem(ctx context.Context, itemID int64) (int, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	// ListRequestsByRequester returns the user's own requests, newest
	// first.
	ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	// ListOtherRequests returns requests from everyone except the
	// user, ordered by created ascending; limit <= 0 disables
	// pagination.
	ListOtherRequests(ctx context.Context, requesterID int64, limit, offset int) ([]models.ItemRequest, error)
	CountOtherRequests(ctx context.Context, requesterID int64) (int, error)
	CountRequestsByRequester(ctx context.Context, requesterID int64) (int, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	ListCommentsByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error)
	CountCommentsByItem(ctx context.Context, itemID int64) (int, error)
}

type UserService interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, name, email string) (*models.User, error)
	Update(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type ItemService interface {
	Create(ctx context.Context, item models.Item, ownerID int64) (*models.Item, error)
	Update(ctx context.Context, itemID int64, update models.ItemUpdate, userID int64) (*models.Item, error)
	GetDetails(ctx context.Context, itemID, userID int64) (*models.ItemDetails, error)
	Delete(ctx context.Context, itemID, userID int64) error
	ListOwnerItems(ctx context.Context, ownerID int64, from, size *int) ([]models.ItemDetails, error)
	SearchByText(ctx context.Context, text string) ([]models.Item, error)
	CreateComment(ctx context.Context, itemID, userID int64, text string) (*models.Comment, error)
}

type BookingService interface {
	Get(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	Create(ctx context.Context, itemID int64, start, end *models.DateTime, bookerID int64) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, approve bool, userID int64) (*models.Booking, error)
	List(ctx context.Context, subjectID int64, role models.BookingRole, state string, from, size *int) ([]models.Booking, error)
}

type RequestService interface {
	Create(ctx context.Context, description string, requesterID int64) (*models.ItemRequest, error)
	Get(ctx context.Context, requestID, userID int64) (*models.RequestDetails, error)
	ListOwn(ctx context.Context, userID int64) ([]models.RequestDetails, error)
	ListOthers(ctx context.Context, userID int64, from, size *int) ([]models.RequestDetails, error)
}

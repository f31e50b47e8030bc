package gateway

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"sharehub/internal/models"
)

// Request shapes the gateway checks before anything reaches the core.
// Tag-level validation handles presence and format; temporal rules are
// explicit because validator has no notion of "in the future".

type createUserBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserBody struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type createItemBody struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId"`
}

type createBookingBody struct {
	ItemID int64            `json:"itemId" validate:"required"`
	Start  *models.DateTime `json:"start" validate:"required"`
	End    *models.DateTime `json:"end" validate:"required"`
}

type createRequestBody struct {
	Description string `json:"description" validate:"required"`
}

type createCommentBody struct {
	Text string `json:"text" validate:"required"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// checkBookingDates rejects intervals the core would refuse anyway, so
// obviously bad bookings never cross the wire.
func checkBookingDates(body createBookingBody, now time.Time) error {
	if body.Start == nil || body.End == nil {
		return fmt.Errorf("start and end are required")
	}
	if body.Start.Time.Before(now.Truncate(time.Second)) {
		return fmt.Errorf("start must not be in the past")
	}
	if !body.End.Time.After(body.Start.Time) {
		return fmt.Errorf("end must be after start")
	}
	return nil
}

// checkPagination enforces from >= 0 and size > 0 when present.
func checkPagination(r *http.Request) error {
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return fmt.Errorf("from must be a non-negative integer")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return fmt.Errorf("size must be a positive integer")
		}
	}
	return nil
}

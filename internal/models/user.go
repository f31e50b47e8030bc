package models

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUpdate carries a partial user update; nil fields stay untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

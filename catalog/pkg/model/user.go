package model

// User defines a catalog user.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required,max=32"`
	Email    string `json:"email" validate:"required,email,max=64"`
}

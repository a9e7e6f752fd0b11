package models

import "time"

// User is an account holder. Email is stored lower-cased.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserView is the client-facing shape of a User.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) ToView() UserView {
	return UserView{ID: u.ID, Email: u.Email}
}

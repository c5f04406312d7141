package models

import "time"

// User is an account holder. Password carries the bcrypt hash and is
// never serialized.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Firstname string    `json:"firstname"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

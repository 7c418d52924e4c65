package domain

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // argon2id encoded
	Active       bool
	TOTPEnabled  bool
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

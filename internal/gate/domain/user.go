package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string // normalized: trimmed + lowercased, unique
	PasswordHash string // argon2id encoded
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

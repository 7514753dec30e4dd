package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string // unique, lowercased
	PasswordHash string // argon2 encoded
	IsAdmin      bool
	Cart         map[string]int // productID -> quantity
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the API-safe projection of a user.
type PublicUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}

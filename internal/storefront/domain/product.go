package domain

import "time"

// Product is a catalog entry. Price is in cents so arithmetic stays
// exact.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

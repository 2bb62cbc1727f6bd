package entity

import "time"

// User is the account that owns the invoice data. Faktura Pro is a
// single-tenant product, so there is no role or company hierarchy.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

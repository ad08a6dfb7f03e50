// Package models defines the core data structures for users and car listings.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account allowed to manage listings.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Email is the login identity. Matched exactly, case-sensitive.
	Email string
	// Name is the display name.
	Name string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
	// IsActive reports whether the account may use the API.
	IsActive bool
	// CreatedAt is set by the store on insert.
	CreatedAt time.Time
	// UpdatedAt is set by the store on every write.
	UpdatedAt time.Time
}

// Car is a single listing in the inventory.
//
// The descriptive fields are always present. Everything else is optional
// enrichment and is nil when unknown.
type Car struct {
	ID       int64
	Name     string
	Brand    string
	Model    string
	Make     string
	FuelType string
	Color    string
	// Year is the manufacture year.
	Year int

	Price          *decimal.Decimal
	RegisteredDate *string
	RegisteredYear *int
	Mileage        *int
	WheelDrive     *string
	// RegistrationNumber is unique across listings when not nil.
	RegistrationNumber *string
	Variant            *string
	// Source tags where the listing came from (e.g. "ayvens").
	Source          *string
	ExternalLink    *string
	DisplayImageURL *string
}

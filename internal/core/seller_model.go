package core

import (
	"regexp"
	"strings"
	"time"
)

// Seller is a tenant: an authenticated account that owns stock items, sales, and an
// optional storefront.
type Seller struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	StoreName         string    `json:"store_name"`
	StoreSlug         string    `json:"store_slug"`
	StorefrontEnabled bool      `json:"storefront_enabled"`
	CreatedAt         time.Time `json:"created_at"`
}

var validSlug = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{1,62}$`)

// RegisterSellerInput is the input for creating a seller account.
type RegisterSellerInput struct {
	Email     string
	Password  string
	StoreName string
	StoreSlug string
}

// Normalize trims whitespace and lowercases the email and slug.
func (in *RegisterSellerInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.StoreSlug = strings.ToLower(strings.TrimSpace(in.StoreSlug))
	in.StoreName = strings.TrimSpace(in.StoreName)
}

// Validate checks the input before any write.
func (in RegisterSellerInput) Validate() error {
	if !strings.Contains(in.Email, "@") {
		return invalid("email", "must be a valid email address")
	}
	if len(in.Password) < 8 {
		return invalid("password", "must be at least 8 characters")
	}
	if in.StoreName == "" {
		return invalid("store_name", "is required")
	}
	if !validSlug.MatchString(in.StoreSlug) {
		return invalid("store_slug", "must be 2-63 lowercase letters, digits, or hyphens")
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a storefront account. The BOZ PLUS columns live on the user
// row; Membership() exposes them as the derived membership view.
type User struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Email         string           `json:"email" db:"email"`
	PasswordHash  string           `json:"-" db:"password_hash"`
	FirstName     string           `json:"first_name" db:"first_name"`
	LastName      string           `json:"last_name" db:"last_name"`
	Role          string           `json:"role" db:"role"`
	BozPlusStatus MembershipStatus `json:"boz_plus_status" db:"boz_plus_status"`
	BozPlusExpiry *time.Time       `json:"boz_plus_expiry,omitempty" db:"boz_plus_expiry"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// Membership returns the BOZ PLUS view of the user.
func (u *User) Membership() Membership {
	return Membership{Status: u.BozPlusStatus, ExpiresAt: u.BozPlusExpiry}
}

// RefreshToken is a stored long-lived credential used to mint new access
// tokens. Revoked tokens stay in the table for auditability.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

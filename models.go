package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// VerificationPendingStatus token issued and not yet used
	VerificationPendingStatus = "pending"
	// VerificationVerifiedStatus token consumed
	VerificationVerifiedStatus = "verified"
	// VerificationExpiredStatus token outlived its TTL
	VerificationExpiredStatus = "expired"
	// VerificationSupersededStatus a newer token was issued for the address
	VerificationSupersededStatus = "superseded"
)

// DefaultVerificationTTL is how long a token stays usable
const DefaultVerificationTTL = 24 * time.Hour

// VerificationToken is an issued email confirmation token. The token
// handed to the user is the record ID.
type VerificationToken struct {
	bun.BaseModel `bun:"table:verification_tokens,alias:vt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	RecipientID   uuid.UUID  `bun:"recipient_id,notnull,type:uuid" json:"recipient_id,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	Status        string     `bun:"status,notnull" json:"status,omitempty"`
	VerifiedAt    *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Token returns the value placed in the verification link
func (v *VerificationToken) Token() string {
	if v == nil {
		return ""
	}
	return v.ID.String()
}

// IsPending reports whether the token can still be consumed
func (v *VerificationToken) IsPending() bool {
	return v != nil && v.Status == VerificationPendingStatus
}

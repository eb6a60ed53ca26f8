package domain

import (
	"errors"
	"time"
)

// Error taxonomy. Handlers map these to HTTP statuses in exactly one place
// (internal/api/error_handler.go); nothing below that layer writes a response.
var (
	// ErrValidation marks client input rejected by the core (4xx, never retried).
	ErrValidation = errors.New("invalid input")
	// ErrUnauthorized marks a missing, invalid or expired credential. Which
	// check failed is deliberately not surfaced.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStorage marks a backend failure (5xx, safe for the caller to retry).
	ErrStorage = errors.New("storage failure")
	// ErrSerialization marks a record shape the export step cannot encode.
	// Retrying reproduces the same input, so it is fatal for the request.
	ErrSerialization = errors.New("serialization failure")
	// ErrRateLimited marks a throttled login attempt.
	ErrRateLimited = errors.New("too many attempts")
)

// Registration is one persisted signup. The store assigns ID and CreatedAt;
// both are immutable afterwards. CreatedAt is the sole ordering key: listings
// are newest first.
type Registration struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	FirstName string    `json:"first_name" bson:"firstName"`
	LastName  string    `json:"last_name" bson:"lastName"`
	Phone     string    `json:"phone" bson:"phone"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

package ports

import (
	"context"
	"time"
)

// RegisterInput carries the three signup fields as received from the client.
type RegisterInput struct {
	FirstName string
	LastName  string
	Phone     string
}

// RegistrationItem is the client-facing projection of a stored registration.
// The storage identifier is internal-only and deliberately absent.
type RegistrationItem struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegistrationService is the application-facing contract consumed by the
// HTTP handlers.
type RegistrationService interface {
	// Register validates and persists a signup, returning the assigned id.
	// Blank fields (after trimming) fail with domain.ErrValidation; repeated
	// identical submissions create distinct records.
	Register(ctx context.Context, input RegisterInput) (string, error)
	// List returns every registration projected for clients, newest first.
	List(ctx context.Context) ([]RegistrationItem, error)
	// Export returns the registrations serialized as an xlsx workbook.
	Export(ctx context.Context) ([]byte, error)
}

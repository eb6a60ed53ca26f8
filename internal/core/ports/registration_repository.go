package ports

import (
	"context"

	"github.com/novinsoft/signup-system/internal/core/domain"
)

// RegistrationRepository defines persistence operations for registrations.
// Implementations assign Registration.ID on Create and must return listings
// ordered by createdAt descending. Backend failures are wrapped in
// domain.ErrStorage so callers never see driver-level errors.
type RegistrationRepository interface {
	// Create persists r and fills in r.ID. CreatedAt is set by the caller.
	Create(ctx context.Context, r *domain.Registration) error
	// ListAll returns every registration, newest first, fully materialized.
	// Export needs a stable snapshot, so no cursor leaks out of here.
	ListAll(ctx context.Context) ([]domain.Registration, error)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/novinsoft/signup-system/internal/api/metrics"
	"github.com/novinsoft/signup-system/internal/core/domain"
	"github.com/novinsoft/signup-system/internal/core/ports"
	"github.com/novinsoft/signup-system/internal/export"
)

// RegistrationService implements signup persistence, admin listing and the
// workbook export on top of a storage-agnostic repository.
type RegistrationService struct {
	repo   ports.RegistrationRepository
	logger zerolog.Logger
}

func NewRegistrationService(repo ports.RegistrationRepository, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{repo: repo, logger: logger}
}

// Register validates and persists one signup. Validation is trim-then-check:
// a field that is empty or whitespace-only fails with domain.ErrValidation
// before the repository is touched. Register is intentionally not idempotent;
// there is no natural key, and duplicate submissions create distinct records.
func (s *RegistrationService) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	phone := strings.TrimSpace(input.Phone)

	if first == "" || last == "" || phone == "" {
		metrics.RegistrationErrorsTotal.WithLabelValues("validation").Inc()
		return "", fmt.Errorf("%w: firstName, lastName and phone are required", domain.ErrValidation)
	}

	reg := &domain.Registration{
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		metrics.RegistrationErrorsTotal.WithLabelValues("storage").Inc()
		s.logger.Error().Err(err).Msg("failed to persist registration")
		return "", err
	}

	metrics.RegistrationsCreatedTotal.Inc()
	s.logger.Info().Str("registration_id", reg.ID).Msg("registration created")
	return reg.ID, nil
}

// List returns every registration projected for clients, newest first. The
// ordering comes from the repository contract; the projection preserves it.
func (s *RegistrationService) List(ctx context.Context) ([]ports.RegistrationItem, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list registrations")
		return nil, err
	}

	items := make([]ports.RegistrationItem, 0, len(records))
	for _, r := range records {
		items = append(items, ports.RegistrationItem{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Phone:     r.Phone,
			CreatedAt: r.CreatedAt,
		})
	}
	return items, nil
}

// Export serializes the full listing into an xlsx workbook.
func (s *RegistrationService) Export(ctx context.Context) ([]byte, error) {
	start := time.Now()

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read registrations for export")
		return nil, err
	}

	data, err := export.Workbook(records)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to serialize workbook")
		return nil, err
	}

	metrics.ExportsGeneratedTotal.Inc()
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	s.logger.Info().Int("records", len(records)).Msg("export generated")
	return data, nil
}

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/novinsoft/signup-system/internal/core/domain"
)

// RegistrationRepository persists registrations in the registrations table.
type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a new row and fills in r.ID from the auto-increment key.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (firstName, lastName, phone, createdAt) VALUES (?, ?, ?, ?)`,
		reg.FirstName, reg.LastName, reg.Phone, reg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert registration: %v", domain.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: read insert id: %v", domain.ErrStorage, err)
	}
	reg.ID = strconv.FormatInt(id, 10)
	return nil
}

// ListAll returns every row ordered by createdAt descending. The result is
// fully materialized before returning so the caller holds a stable snapshot
// rather than a live cursor.
func (r *RegistrationRepository) ListAll(ctx context.Context) ([]domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, firstName, lastName, phone, createdAt
		 FROM registrations
		 ORDER BY createdAt DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list registrations: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.Registration
	for rows.Next() {
		var (
			id  int64
			reg domain.Registration
		)
		if err := rows.Scan(&id, &reg.FirstName, &reg.LastName, &reg.Phone, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan registration: %v", domain.ErrStorage, err)
		}
		reg.ID = strconv.FormatInt(id, 10)
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate registrations: %v", domain.ErrStorage, err)
	}
	return out, nil
}

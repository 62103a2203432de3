package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// ServiceRepository is the secondary adapter for the service catalog.
type ServiceRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

// NewServiceRepository creates a new service repository.
func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var svc domain.Service
	err := row.Scan(
		&svc.ID, &svc.OrganizationID, &svc.Name, &svc.Description,
		&svc.Status, &svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create persists a new service.
func (r *ServiceRepository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, organization_id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, organization_id, name, description, status, created_at, updated_at`,
		svc.ID, svc.OrganizationID, svc.Name, svc.Description, svc.Status, svc.CreatedAt, svc.UpdatedAt,
	)
	return scanService(row)
}

// GetByID retrieves a service scoped to the organization.
func (r *ServiceRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, description, status, created_at, updated_at
		FROM services
		WHERE organization_id = $1 AND id = $2`,
		orgID, id,
	)

	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

// ListByOrg returns the organization's services in creation order.
func (r *ServiceRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organization_id, name, description, status, created_at, updated_at
		FROM services
		WHERE organization_id = $1
		ORDER BY created_at ASC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

// Update persists the service's mutable fields, scoped to its organization.
func (r *ServiceRepository) Update(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $3, description = $4, status = $5, updated_at = $6
		WHERE organization_id = $1 AND id = $2
		RETURNING id, organization_id, name, description, status, created_at, updated_at`,
		svc.OrganizationID, svc.ID, svc.Name, svc.Description, svc.Status, svc.UpdatedAt,
	)

	updated, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a service and, through cascading constraints, its
// incidents and maintenance windows.
func (r *ServiceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM services
		WHERE organization_id = $1 AND id = $2`,
		orgID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrServiceNotFound
	}
	return nil
}

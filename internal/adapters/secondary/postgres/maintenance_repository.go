package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// MaintenanceRepository is the secondary adapter for maintenance windows.
// Tenancy is enforced by joining through the owning service, the same way
// incidents are scoped.
type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

var _ ports.MaintenanceRepository = (*MaintenanceRepository)(nil)

// NewMaintenanceRepository creates a new maintenance repository.
func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

const maintenanceColumns = `
	m.id, m.service_id, m.title, m.description, m.status,
	m.scheduled_start, m.scheduled_end, m.created_at, m.updated_at, s.name`

func scanMaintenance(row pgx.Row) (*domain.Maintenance, error) {
	var m domain.Maintenance
	err := row.Scan(
		&m.ID, &m.ServiceID, &m.Title, &m.Description, &m.Status,
		&m.ScheduledStart, &m.ScheduledEnd, &m.CreatedAt, &m.UpdatedAt,
		&m.ServiceName,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persists a new maintenance window.
func (r *MaintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO maintenance (id, service_id, title, description, status, scheduled_start, scheduled_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ServiceID, m.Title, m.Description, m.Status,
		m.ScheduledStart, m.ScheduledEnd, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a maintenance window scoped to the organization.
func (r *MaintenanceRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Maintenance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+maintenanceColumns+`
		FROM maintenance m
		JOIN services s ON s.id = m.service_id
		WHERE s.organization_id = $1 AND m.id = $2`,
		orgID, id,
	)

	m, err := scanMaintenance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaintenanceNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MaintenanceRepository) queryMaintenance(ctx context.Context, query string, args ...any) ([]*domain.Maintenance, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []*domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, m)
	}
	return windows, rows.Err()
}

// ListByOrg returns the organization's maintenance windows ordered by
// scheduled start, soonest first.
func (r *MaintenanceRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Maintenance, error) {
	return r.queryMaintenance(ctx, `
		SELECT `+maintenanceColumns+`
		FROM maintenance m
		JOIN services s ON s.id = m.service_id
		WHERE s.organization_id = $1
		ORDER BY m.scheduled_start ASC`,
		orgID,
	)
}

// ListUpcomingByOrg returns windows that are not completed and have not
// passed their scheduled end.
func (r *MaintenanceRepository) ListUpcomingByOrg(ctx context.Context, orgID uuid.UUID, now time.Time) ([]*domain.Maintenance, error) {
	return r.queryMaintenance(ctx, `
		SELECT `+maintenanceColumns+`
		FROM maintenance m
		JOIN services s ON s.id = m.service_id
		WHERE s.organization_id = $1 AND m.status <> $2 AND m.scheduled_end > $3
		ORDER BY m.scheduled_start ASC`,
		orgID, domain.MaintenanceCompleted, now,
	)
}

// Update persists the window's mutable fields.
func (r *MaintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE maintenance
		SET title = $2, description = $3, status = $4, scheduled_start = $5, scheduled_end = $6, updated_at = $7
		WHERE id = $1`,
		m.ID, m.Title, m.Description, m.Status, m.ScheduledStart, m.ScheduledEnd, m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrMaintenanceNotFound
	}
	return m, nil
}

// Delete removes a maintenance window.
func (r *MaintenanceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM maintenance m
		USING services s
		WHERE s.id = m.service_id AND s.organization_id = $1 AND m.id = $2`,
		orgID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaintenanceNotFound
	}
	return nil
}

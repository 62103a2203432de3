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

// IncidentRepository is the secondary adapter for incident persistence.
// Incidents carry no organization column of their own; tenancy is enforced
// by joining through the owning service on every query.
type IncidentRepository struct {
	pool *pgxpool.Pool
	tm   *TransactionManager
}

var _ ports.IncidentRepository = (*IncidentRepository)(nil)

// NewIncidentRepository creates a new incident repository.
func NewIncidentRepository(pool *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{
		pool: pool,
		tm:   NewTransactionManager(pool),
	}
}

const incidentColumns = `
	i.id, i.service_id, i.title, i.description, i.status,
	i.resolved_at, i.created_at, i.updated_at, s.name`

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var incident domain.Incident
	err := row.Scan(
		&incident.ID, &incident.ServiceID, &incident.Title, &incident.Description,
		&incident.Status, &incident.ResolvedAt, &incident.CreatedAt, &incident.UpdatedAt,
		&incident.ServiceName,
	)
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// Create persists the incident together with its initial update in one
// transaction.
func (r *IncidentRepository) Create(ctx context.Context, incident *domain.Incident, initial *domain.IncidentUpdate) (*domain.Incident, error) {
	err := r.tm.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO incidents (id, service_id, title, description, status, resolved_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			incident.ID, incident.ServiceID, incident.Title, incident.Description,
			incident.Status, incident.ResolvedAt, incident.CreatedAt, incident.UpdatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO incident_updates (id, incident_id, message, status, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			initial.ID, initial.IncidentID, initial.Message, initial.Status, initial.CreatedAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	incident.Updates = []*domain.IncidentUpdate{initial}
	return incident, nil
}

// GetByID retrieves an incident with its full timeline, scoped to the
// organization.
func (r *IncidentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Incident, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+incidentColumns+`
		FROM incidents i
		JOIN services s ON s.id = i.service_id
		WHERE s.organization_id = $1 AND i.id = $2`,
		orgID, id,
	)

	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIncidentNotFound
		}
		return nil, err
	}

	updates, err := r.listUpdates(ctx, incident.ID)
	if err != nil {
		return nil, err
	}
	incident.Updates = updates
	return incident, nil
}

func (r *IncidentRepository) listUpdates(ctx context.Context, incidentID uuid.UUID) ([]*domain.IncidentUpdate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, incident_id, message, status, created_at
		FROM incident_updates
		WHERE incident_id = $1
		ORDER BY created_at ASC`,
		incidentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []*domain.IncidentUpdate
	for rows.Next() {
		var u domain.IncidentUpdate
		if err := rows.Scan(&u.ID, &u.IncidentID, &u.Message, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, &u)
	}
	return updates, rows.Err()
}

func (r *IncidentRepository) queryIncidents(ctx context.Context, query string, args ...any) ([]*domain.Incident, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*domain.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}
	return incidents, rows.Err()
}

// ListByOrg returns the organization's incidents, newest first, optionally
// narrowed to one status.
func (r *IncidentRepository) ListByOrg(ctx context.Context, orgID uuid.UUID, status *domain.IncidentStatus) ([]*domain.Incident, error) {
	if status != nil {
		return r.queryIncidents(ctx, `
			SELECT `+incidentColumns+`
			FROM incidents i
			JOIN services s ON s.id = i.service_id
			WHERE s.organization_id = $1 AND i.status = $2
			ORDER BY i.created_at DESC`,
			orgID, *status,
		)
	}
	return r.queryIncidents(ctx, `
		SELECT `+incidentColumns+`
		FROM incidents i
		JOIN services s ON s.id = i.service_id
		WHERE s.organization_id = $1
		ORDER BY i.created_at DESC`,
		orgID,
	)
}

// Update persists the incident's mutable fields.
func (r *IncidentRepository) Update(ctx context.Context, incident *domain.Incident) (*domain.Incident, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE incidents
		SET title = $2, description = $3, status = $4, resolved_at = $5, updated_at = $6
		WHERE id = $1`,
		incident.ID, incident.Title, incident.Description, incident.Status,
		incident.ResolvedAt, incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrIncidentNotFound
	}
	return incident, nil
}

// AppendUpdate persists a timeline entry and the incident's new status in
// one transaction.
func (r *IncidentRepository) AppendUpdate(ctx context.Context, incident *domain.Incident, update *domain.IncidentUpdate) (*domain.Incident, error) {
	err := r.tm.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE incidents
			SET status = $2, resolved_at = $3, updated_at = $4
			WHERE id = $1`,
			incident.ID, incident.Status, incident.ResolvedAt, incident.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrIncidentNotFound
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO incident_updates (id, incident_id, message, status, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			update.ID, update.IncidentID, update.Message, update.Status, update.CreatedAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	incident.Updates = append(incident.Updates, update)
	return incident, nil
}

// ListActiveByOrg returns every unresolved incident, newest first.
func (r *IncidentRepository) ListActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Incident, error) {
	return r.queryIncidents(ctx, `
		SELECT `+incidentColumns+`
		FROM incidents i
		JOIN services s ON s.id = i.service_id
		WHERE s.organization_id = $1 AND i.status <> $2
		ORDER BY i.created_at DESC`,
		orgID, domain.IncidentResolved,
	)
}

// ListResolvedSince returns incidents resolved after the cutoff, most
// recently resolved first.
func (r *IncidentRepository) ListResolvedSince(ctx context.Context, orgID uuid.UUID, since time.Time, limit int) ([]*domain.Incident, error) {
	return r.queryIncidents(ctx, `
		SELECT `+incidentColumns+`
		FROM incidents i
		JOIN services s ON s.id = i.service_id
		WHERE s.organization_id = $1 AND i.status = $2 AND i.resolved_at >= $3
		ORDER BY i.resolved_at DESC
		LIMIT $4`,
		orgID, domain.IncidentResolved, since, limit,
	)
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/errors"
)

func seedMaintenance(t *testing.T, serviceID uuid.UUID, title string, start, end time.Time) *domain.Maintenance {
	t.Helper()

	m, err := domain.NewMaintenance(serviceID, title, "planned work", start, end)
	require.NoError(t, err)

	created, err := NewMaintenanceRepository(testPool).Create(context.Background(), m)
	require.NoError(t, err)
	return created
}

func TestMaintenanceRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMaintenanceRepository(testPool)

	org := seedOrg(t, "Maintenance Org")
	svc := seedService(t, org.ID, "Database")
	start := time.Now().UTC().Add(24 * time.Hour)
	m := seedMaintenance(t, svc.ID, "Upgrade postgres", start, start.Add(2*time.Hour))

	found, err := repo.GetByID(ctx, org.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Upgrade postgres", found.Title)
	assert.Equal(t, "Database", found.ServiceName)
	assert.Equal(t, domain.MaintenanceScheduled, found.Status)
}

func TestMaintenanceRepository_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	repo := NewMaintenanceRepository(testPool)

	org := seedOrg(t, "Upcoming Org")
	svc := seedService(t, org.ID, "Cache")
	now := time.Now().UTC()

	upcoming := seedMaintenance(t, svc.ID, "Future window", now.Add(time.Hour), now.Add(2*time.Hour))
	past := seedMaintenance(t, svc.ID, "Past window", now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, past.Reschedule(now.Add(-3*time.Hour), now.Add(-time.Hour)))
	_, err := repo.Update(ctx, past)
	require.NoError(t, err)

	done := seedMaintenance(t, svc.ID, "Completed window", now.Add(3*time.Hour), now.Add(4*time.Hour))
	require.NoError(t, done.SetStatus(domain.MaintenanceCompleted))
	_, err = repo.Update(ctx, done)
	require.NoError(t, err)

	got, err := repo.ListUpcomingByOrg(ctx, org.ID, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, upcoming.ID, got[0].ID)
}

func TestMaintenanceRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMaintenanceRepository(testPool)

	org := seedOrg(t, "Window Org")
	other := seedOrg(t, "Window Stranger")
	svc := seedService(t, org.ID, "Queue")
	now := time.Now().UTC()
	m := seedMaintenance(t, svc.ID, "Broker restart", now.Add(time.Hour), now.Add(2*time.Hour))

	require.NoError(t, m.SetStatus(domain.MaintenanceInProgress))
	updated, err := repo.Update(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceInProgress, updated.Status)

	t.Run("delete is org scoped", func(t *testing.T) {
		err := repo.Delete(ctx, other.ID, m.ID)
		assert.ErrorIs(t, err, errors.ErrMaintenanceNotFound)

		require.NoError(t, repo.Delete(ctx, org.ID, m.ID))

		_, err = repo.GetByID(ctx, org.ID, m.ID)
		assert.ErrorIs(t, err, errors.ErrMaintenanceNotFound)
	})
}

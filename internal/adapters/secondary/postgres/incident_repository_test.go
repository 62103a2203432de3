package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/errors"
)

func TestIncidentRepository_CreateWithInitialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewIncidentRepository(testPool)

	org := seedOrg(t, "Incident Org")
	svc := seedService(t, org.ID, "Payments")
	incident := seedIncident(t, svc.ID, "Checkout down")

	found, err := repo.GetByID(ctx, org.ID, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkout down", found.Title)
	assert.Equal(t, "Payments", found.ServiceName)
	require.Len(t, found.Updates, 1)
	assert.Equal(t, domain.IncidentInvestigating, found.Updates[0].Status)
}

func TestIncidentRepository_AppendUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewIncidentRepository(testPool)

	org := seedOrg(t, "Timeline Org")
	svc := seedService(t, org.ID, "Search")
	incident := seedIncident(t, svc.ID, "Slow queries")

	require.NoError(t, incident.SetStatus(domain.IncidentMonitoring))
	update, err := domain.NewIncidentUpdate(incident.ID, "Mitigation applied", domain.IncidentMonitoring)
	require.NoError(t, err)

	_, err = repo.AppendUpdate(ctx, incident, update)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, org.ID, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentMonitoring, found.Status)
	require.Len(t, found.Updates, 2)
	assert.Equal(t, "Mitigation applied", found.Updates[1].Message)
}

func TestIncidentRepository_ListByOrg(t *testing.T) {
	ctx := context.Background()
	repo := NewIncidentRepository(testPool)

	org := seedOrg(t, "Filter Org")
	svc := seedService(t, org.ID, "Web")
	open := seedIncident(t, svc.ID, "Open incident")
	resolved := seedIncident(t, svc.ID, "Closed incident")

	require.NoError(t, resolved.SetStatus(domain.IncidentResolved))
	_, err := repo.Update(ctx, resolved)
	require.NoError(t, err)

	t.Run("unfiltered returns everything newest first", func(t *testing.T) {
		all, err := repo.ListByOrg(ctx, org.ID, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("status filter narrows the list", func(t *testing.T) {
		status := domain.IncidentResolved
		got, err := repo.ListByOrg(ctx, org.ID, &status)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, resolved.ID, got[0].ID)
	})

	t.Run("active listing excludes resolved", func(t *testing.T) {
		active, err := repo.ListActiveByOrg(ctx, org.ID)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, open.ID, active[0].ID)
	})

	t.Run("resolved since cutoff", func(t *testing.T) {
		recent, err := repo.ListResolvedSince(ctx, org.ID, time.Now().Add(-time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, resolved.ID, recent[0].ID)

		none, err := repo.ListResolvedSince(ctx, org.ID, time.Now().Add(time.Hour), 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestIncidentRepository_OrgScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewIncidentRepository(testPool)

	org := seedOrg(t, "Incident Owner")
	other := seedOrg(t, "Incident Stranger")
	svc := seedService(t, org.ID, "Internal")
	incident := seedIncident(t, svc.ID, "Private incident")

	_, err := repo.GetByID(ctx, other.ID, incident.ID)
	assert.ErrorIs(t, err, errors.ErrIncidentNotFound)

	list, err := repo.ListByOrg(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

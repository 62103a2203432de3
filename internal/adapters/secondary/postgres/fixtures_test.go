package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/calliko/statuspage-backend/internal/core/domain"
)

// seedOrg creates an organization with a unique slug for a test.
func seedOrg(t *testing.T, name string) *domain.Organization {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	org, err := domain.NewOrganization(name)
	require.NoError(t, err)
	// Unique suffix so tests can reuse display names.
	org.Slug = org.Slug + "-" + uuid.New().String()[:8]

	created, err := NewOrganizationRepository(testPool).Create(context.Background(), org)
	require.NoError(t, err)
	return created
}

// seedUser creates a user with a unique email.
func seedUser(t *testing.T, name string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.New(),
		FullName:     name,
		Email:        uuid.New().String()[:8] + "@example.com",
		PasswordHash: "hashed",
		CreatedAt:    time.Now().UTC(),
	}
	created, err := NewUserRepository(testPool).Create(context.Background(), user)
	require.NoError(t, err)
	return created
}

// seedTeam creates a team in the organization.
func seedTeam(t *testing.T, orgID uuid.UUID, name string) *domain.Team {
	t.Helper()

	team := &domain.Team{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := NewTeamRepository(testPool).CreateTeam(context.Background(), team)
	require.NoError(t, err)
	return created
}

// seedMember adds the user to the team with the given role.
func seedMember(t *testing.T, userID, teamID uuid.UUID, role domain.MemberRole) *domain.TeamMember {
	t.Helper()

	member := &domain.TeamMember{
		ID:        uuid.New(),
		UserID:    userID,
		TeamID:    teamID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	created, err := NewTeamRepository(testPool).AddMember(context.Background(), member)
	require.NoError(t, err)
	return created
}

// seedService creates a service in the organization's catalog.
func seedService(t *testing.T, orgID uuid.UUID, name string) *domain.Service {
	t.Helper()

	svc, err := domain.NewService(orgID, name, "seeded for test")
	require.NoError(t, err)

	created, err := NewServiceRepository(testPool).Create(context.Background(), svc)
	require.NoError(t, err)
	return created
}

// seedIncident creates an incident with its initial timeline entry.
func seedIncident(t *testing.T, serviceID uuid.UUID, title string) *domain.Incident {
	t.Helper()

	incident, err := domain.NewIncident(serviceID, title, "something broke", domain.IncidentInvestigating)
	require.NoError(t, err)
	initial, err := domain.NewIncidentUpdate(incident.ID, "something broke", incident.Status)
	require.NoError(t, err)

	created, err := NewIncidentRepository(testPool).Create(context.Background(), incident, initial)
	require.NoError(t, err)
	return created
}

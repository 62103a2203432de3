package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
)

// OrganizationRepository persists tenants and resolves public slugs.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) (*domain.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Membership is a user's team membership joined with the owning organization.
type Membership struct {
	Member       *domain.TeamMember
	Organization *domain.Organization
}

// TeamRepository persists teams, memberships, and invites.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetTeamByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	GetDefaultTeam(ctx context.Context, orgID uuid.UUID) (*domain.Team, error)
	AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error)
	// GetMembership returns the user's membership within the organization,
	// or errors.ErrNotOrgMember when the user does not belong to it.
	GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*domain.TeamMember, error)
	// GetUserMembership returns the user's earliest membership together with
	// the owning organization. Used at login, where only the user is known.
	GetUserMembership(ctx context.Context, userID uuid.UUID) (*Membership, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]*domain.OrgMember, error)
	// GetMemberByID returns the membership row, scoped to the organization
	// so one tenant cannot address another tenant's members.
	GetMemberByID(ctx context.Context, orgID, memberID uuid.UUID) (*domain.TeamMember, error)
	UpdateMemberRole(ctx context.Context, orgID, memberID uuid.UUID, role domain.MemberRole) (*domain.OrgMember, error)
	RemoveMember(ctx context.Context, memberID uuid.UUID) error

	CreateInvite(ctx context.Context, invite *domain.Invite) (*domain.Invite, error)
	ListInvites(ctx context.Context, orgID uuid.UUID) ([]*domain.Invite, error)
	GetInviteByToken(ctx context.Context, token string) (*domain.Invite, error)
	DeleteInvite(ctx context.Context, id uuid.UUID) error
	// RevokeInvite deletes an invite scoped to the organization, returning
	// errors.ErrInviteNotFound when no such invite exists in the tenant.
	RevokeInvite(ctx context.Context, orgID, inviteID uuid.UUID) error
}

// ServiceRepository persists the service catalog. All lookups are scoped by
// organization so a tenant can never read or mutate another tenant's rows.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Service, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// IncidentRepository persists incidents and their update timelines.
type IncidentRepository interface {
	// Create persists the incident together with its initial update in one
	// transaction.
	Create(ctx context.Context, incident *domain.Incident, initial *domain.IncidentUpdate) (*domain.Incident, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Incident, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, status *domain.IncidentStatus) ([]*domain.Incident, error)
	Update(ctx context.Context, incident *domain.Incident) (*domain.Incident, error)
	// AppendUpdate persists a timeline entry and the incident's new status
	// in one transaction.
	AppendUpdate(ctx context.Context, incident *domain.Incident, update *domain.IncidentUpdate) (*domain.Incident, error)

	ListActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Incident, error)
	ListResolvedSince(ctx context.Context, orgID uuid.UUID, since time.Time, limit int) ([]*domain.Incident, error)
}

// MaintenanceRepository persists maintenance windows.
type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Maintenance, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Maintenance, error)
	// ListUpcomingByOrg returns windows that are not completed and whose
	// scheduled end is in the future, ordered by scheduled start.
	ListUpcomingByOrg(ctx context.Context, orgID uuid.UUID, now time.Time) ([]*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
)

// SignupParams defines the input for registering a new user and tenant.
type SignupParams struct {
	FullName         string
	Email            string
	Password         string
	OrganizationName string
}

// AcceptInviteParams defines the input for joining via an invite token.
type AcceptInviteParams struct {
	Token    string
	FullName string
	Password string
}

// AuthResult is returned by signup, login, and invite acceptance.
type AuthResult struct {
	User         *domain.User
	Organization *domain.Organization
	Role         domain.MemberRole
}

// Profile is the authenticated user's view of themselves.
type Profile struct {
	User         *domain.User
	Organization *domain.Organization
	Role         domain.MemberRole
}

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Signup(ctx context.Context, params SignupParams) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	AcceptInvite(ctx context.Context, params AcceptInviteParams) (*AuthResult, error)
	Profile(ctx context.Context, userID, orgID uuid.UUID) (*Profile, error)
}

// Actor identifies who is performing an org-scoped operation.
type Actor struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   domain.MemberRole
}

// IsAdmin reports whether the actor may mutate org resources.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// CreateServiceParams defines the input for adding a service to the catalog.
type CreateServiceParams struct {
	Name        string
	Description string
}

// UpdateServiceParams defines a partial update; nil fields are untouched.
type UpdateServiceParams struct {
	ServiceID   uuid.UUID
	Name        *string
	Description *string
	Status      *domain.ServiceStatus
}

// ServiceManager defines the core operations on the service catalog.
type ServiceManager interface {
	ListServices(ctx context.Context, actor Actor) ([]*domain.Service, error)
	CreateService(ctx context.Context, actor Actor, params CreateServiceParams) (*domain.Service, error)
	UpdateService(ctx context.Context, actor Actor, params UpdateServiceParams) (*domain.Service, error)
	DeleteService(ctx context.Context, actor Actor, serviceID uuid.UUID) error
}

// CreateIncidentParams defines the input for declaring an incident.
type CreateIncidentParams struct {
	ServiceID   uuid.UUID
	Title       string
	Description string
	Status      domain.IncidentStatus // optional; defaults to investigating
}

// UpdateIncidentParams defines a partial incident update.
type UpdateIncidentParams struct {
	IncidentID  uuid.UUID
	Title       *string
	Description *string
	Status      *domain.IncidentStatus
}

// AddIncidentUpdateParams defines the input for a timeline entry.
type AddIncidentUpdateParams struct {
	IncidentID uuid.UUID
	Message    string
	Status     domain.IncidentStatus // optional; defaults to the incident's current status
}

// IncidentService defines the core operations on incidents.
type IncidentService interface {
	ListIncidents(ctx context.Context, actor Actor, status *domain.IncidentStatus) ([]*domain.Incident, error)
	GetIncident(ctx context.Context, actor Actor, incidentID uuid.UUID) (*domain.Incident, error)
	CreateIncident(ctx context.Context, actor Actor, params CreateIncidentParams) (*domain.Incident, error)
	UpdateIncident(ctx context.Context, actor Actor, params UpdateIncidentParams) (*domain.Incident, error)
	AddIncidentUpdate(ctx context.Context, actor Actor, params AddIncidentUpdateParams) (*domain.Incident, error)
	ResolveIncident(ctx context.Context, actor Actor, incidentID uuid.UUID, message string) (*domain.Incident, error)
}

// CreateMaintenanceParams defines the input for scheduling maintenance.
type CreateMaintenanceParams struct {
	ServiceID      uuid.UUID
	Title          string
	Description    string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

// UpdateMaintenanceParams defines a partial maintenance update.
type UpdateMaintenanceParams struct {
	MaintenanceID  uuid.UUID
	Title          *string
	Description    *string
	Status         *domain.MaintenanceStatus
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
}

// MaintenanceService defines the core operations on maintenance windows.
type MaintenanceService interface {
	ListMaintenance(ctx context.Context, actor Actor) ([]*domain.Maintenance, error)
	CreateMaintenance(ctx context.Context, actor Actor, params CreateMaintenanceParams) (*domain.Maintenance, error)
	UpdateMaintenance(ctx context.Context, actor Actor, params UpdateMaintenanceParams) (*domain.Maintenance, error)
	DeleteMaintenance(ctx context.Context, actor Actor, maintenanceID uuid.UUID) error
}

// PublicStatusService serves the unauthenticated status page, keyed by slug.
type PublicStatusService interface {
	Status(ctx context.Context, slug string) (*domain.PublicStatusView, error)
	Incidents(ctx context.Context, slug string) (*domain.PublicIncidentsView, error)
	Maintenance(ctx context.Context, slug string) ([]*domain.Maintenance, error)
}

// CreateInviteParams defines the input for inviting a member.
type CreateInviteParams struct {
	Email string
	Role  domain.MemberRole
}

// QuickAddParams defines the input for directly provisioning a member,
// skipping the invite email round-trip.
type QuickAddParams struct {
	Email    string
	FullName string
	Role     domain.MemberRole
}

// QuickAddResult carries the new membership together with the identity it
// was provisioned for, so the caller can mint credentials for the account.
type QuickAddResult struct {
	Member       *domain.OrgMember
	User         *domain.User
	Organization *domain.Organization
}

// TeamService defines the core operations on org membership.
type TeamService interface {
	ListMembers(ctx context.Context, actor Actor) ([]*domain.OrgMember, error)
	UpdateMemberRole(ctx context.Context, actor Actor, memberID uuid.UUID, role domain.MemberRole) (*domain.OrgMember, error)
	RemoveMember(ctx context.Context, actor Actor, memberID uuid.UUID) error
	QuickAddMember(ctx context.Context, actor Actor, params QuickAddParams) (*QuickAddResult, error)
	ListInvites(ctx context.Context, actor Actor) ([]*domain.Invite, error)
	CreateInvite(ctx context.Context, actor Actor, params CreateInviteParams) (*domain.Invite, error)
	RevokeInvite(ctx context.Context, actor Actor, inviteID uuid.UUID) error
}

// NotificationParams defines the input for sending a notification.
type NotificationParams struct {
	RecipientEmail string
	RecipientName  string
	Subject        string
	Message        string
}

// Notifier defines the port for sending asynchronous notifications.
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

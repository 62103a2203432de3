package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
)

// MaxOrgNameLength is the longest accepted organization name.
const MaxOrgNameLength = 255

// MaxSlugLength bounds public slugs so status-page URLs stay short.
const MaxSlugLength = 50

// Organization is the tenant: the isolation boundary for every service,
// incident, maintenance window, and real-time event in the platform.
type Organization struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// NewOrganization creates a valid organization with a slug derived from the name.
func NewOrganization(name string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrOrgNameRequired
	}
	if len(name) > MaxOrgNameLength {
		return nil, apperrors.NewBadRequestError(apperrors.ErrOrgNameRequired, "organization name too long")
	}

	return &Organization{
		ID:        uuid.New(),
		Name:      name,
		Slug:      Slugify(name),
		CreatedAt: time.Now().UTC(),
	}, nil
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_]+`)
)

// Slugify turns a display name into a URL-safe public slug.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLength {
		s = strings.Trim(s[:MaxSlugLength], "-")
	}
	return s
}

// MemberRole is a user's role within an organization's team.
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// ValidRole reports whether the role is one of the known member roles.
func ValidRole(role MemberRole) bool {
	return role == RoleAdmin || role == RoleMember
}

// Team groups members within an organization. Every organization gets a
// "Default" team at signup.
type Team struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	CreatedAt      time.Time
}

// TeamMember links a user to a team with a role.
type TeamMember struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TeamID    uuid.UUID
	Role      MemberRole
	CreatedAt time.Time
}

// OrgMember is the member listing view: a team membership joined with the
// user's identity. MemberID is the membership row itself, which role
// changes and removals are keyed by.
type OrgMember struct {
	MemberID uuid.UUID
	UserID   uuid.UUID
	FullName string
	Email    string
	TeamID   uuid.UUID
	TeamName string
	Role     MemberRole
	JoinedAt time.Time
}

// Invite is a pending invitation to join a team.
type Invite struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	Email     string
	Role      MemberRole
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

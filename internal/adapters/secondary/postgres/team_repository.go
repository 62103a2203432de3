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

// TeamRepository is the secondary adapter for teams, memberships, and invites.
type TeamRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TeamRepository = (*TeamRepository)(nil)

// NewTeamRepository creates a new team repository.
func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(&team.ID, &team.OrganizationID, &team.Name, &team.CreatedAt); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateTeam persists a new team.
func (r *TeamRepository) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO teams (id, organization_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, organization_id, name, created_at`,
		team.ID, team.OrganizationID, team.Name, team.CreatedAt,
	)
	return scanTeam(row)
}

// GetTeamByID retrieves a team by its ID.
func (r *TeamRepository) GetTeamByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, created_at
		FROM teams
		WHERE id = $1`,
		id,
	)

	team, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

// GetDefaultTeam returns the organization's oldest team, which is the one
// created at signup.
func (r *TeamRepository) GetDefaultTeam(ctx context.Context, orgID uuid.UUID) (*domain.Team, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, created_at
		FROM teams
		WHERE organization_id = $1
		ORDER BY created_at ASC
		LIMIT 1`,
		orgID,
	)

	team, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

// AddMember persists a team membership.
func (r *TeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO team_members (id, user_id, team_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, team_id, role, created_at`,
		member.ID, member.UserID, member.TeamID, member.Role, member.CreatedAt,
	)

	var created domain.TeamMember
	if err := row.Scan(&created.ID, &created.UserID, &created.TeamID, &created.Role, &created.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return &created, nil
}

// GetMembership returns the user's membership within the organization.
func (r *TeamRepository) GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*domain.TeamMember, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT tm.id, tm.user_id, tm.team_id, tm.role, tm.created_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1 AND t.organization_id = $2
		ORDER BY tm.created_at ASC
		LIMIT 1`,
		userID, orgID,
	)

	var member domain.TeamMember
	if err := row.Scan(&member.ID, &member.UserID, &member.TeamID, &member.Role, &member.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotOrgMember
		}
		return nil, err
	}
	return &member, nil
}

// GetUserMembership returns the user's earliest membership joined with the
// owning organization.
func (r *TeamRepository) GetUserMembership(ctx context.Context, userID uuid.UUID) (*ports.Membership, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT tm.id, tm.user_id, tm.team_id, tm.role, tm.created_at,
		       o.id, o.name, o.slug, o.created_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		JOIN organizations o ON o.id = t.organization_id
		WHERE tm.user_id = $1
		ORDER BY tm.created_at ASC
		LIMIT 1`,
		userID,
	)

	var member domain.TeamMember
	var org domain.Organization
	err := row.Scan(
		&member.ID, &member.UserID, &member.TeamID, &member.Role, &member.CreatedAt,
		&org.ID, &org.Name, &org.Slug, &org.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotOrgMember
		}
		return nil, err
	}
	return &ports.Membership{Member: &member, Organization: &org}, nil
}

// ListMembers returns every membership in the organization joined with the
// member's identity.
func (r *TeamRepository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]*domain.OrgMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tm.id, u.id, u.full_name, u.email, t.id, t.name, tm.role, tm.created_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		JOIN users u ON u.id = tm.user_id
		WHERE t.organization_id = $1
		ORDER BY tm.created_at ASC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.OrgMember
	for rows.Next() {
		var m domain.OrgMember
		if err := rows.Scan(&m.MemberID, &m.UserID, &m.FullName, &m.Email, &m.TeamID, &m.TeamName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// GetMemberByID returns a membership row scoped to the organization.
func (r *TeamRepository) GetMemberByID(ctx context.Context, orgID, memberID uuid.UUID) (*domain.TeamMember, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT tm.id, tm.user_id, tm.team_id, tm.role, tm.created_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.id = $1 AND t.organization_id = $2`,
		memberID, orgID,
	)

	var member domain.TeamMember
	if err := row.Scan(&member.ID, &member.UserID, &member.TeamID, &member.Role, &member.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// UpdateMemberRole changes a membership's role and returns the member
// listing view of the updated row.
func (r *TeamRepository) UpdateMemberRole(ctx context.Context, orgID, memberID uuid.UUID, role domain.MemberRole) (*domain.OrgMember, error) {
	row := r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE team_members tm
			SET role = $3
			FROM teams t
			WHERE tm.id = $1 AND tm.team_id = t.id AND t.organization_id = $2
			RETURNING tm.id, tm.user_id, tm.team_id, tm.role, tm.created_at
		)
		SELECT up.id, u.id, u.full_name, u.email, t.id, t.name, up.role, up.created_at
		FROM updated up
		JOIN users u ON u.id = up.user_id
		JOIN teams t ON t.id = up.team_id`,
		memberID, orgID, role,
	)

	var m domain.OrgMember
	if err := row.Scan(&m.MemberID, &m.UserID, &m.FullName, &m.Email, &m.TeamID, &m.TeamName, &m.Role, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// RemoveMember deletes a membership row. Callers scope the ID through
// GetMemberByID first.
func (r *TeamRepository) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, memberID)
	return err
}

func scanInvite(row pgx.Row) (*domain.Invite, error) {
	var invite domain.Invite
	err := row.Scan(&invite.ID, &invite.TeamID, &invite.Email, &invite.Role, &invite.Token, &invite.CreatedAt, &invite.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// CreateInvite persists a pending invite.
func (r *TeamRepository) CreateInvite(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO invites (id, team_id, email, role, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, team_id, email, role, token, created_at, expires_at`,
		invite.ID, invite.TeamID, invite.Email, invite.Role, invite.Token, invite.CreatedAt, invite.ExpiresAt,
	)

	created, err := scanInvite(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// ListInvites returns the organization's pending invites.
func (r *TeamRepository) ListInvites(ctx context.Context, orgID uuid.UUID) ([]*domain.Invite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.team_id, i.email, i.role, i.token, i.created_at, i.expires_at
		FROM invites i
		JOIN teams t ON t.id = i.team_id
		WHERE t.organization_id = $1
		ORDER BY i.created_at DESC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*domain.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

// GetInviteByToken retrieves an invite by its opaque token.
func (r *TeamRepository) GetInviteByToken(ctx context.Context, token string) (*domain.Invite, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, team_id, email, role, token, created_at, expires_at
		FROM invites
		WHERE token = $1`,
		token,
	)

	invite, err := scanInvite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, err
	}
	return invite, nil
}

// DeleteInvite removes an invite. Deleting an absent invite is not an error.
func (r *TeamRepository) DeleteInvite(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	return err
}

// RevokeInvite removes an invite scoped to the organization.
func (r *TeamRepository) RevokeInvite(ctx context.Context, orgID, inviteID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM invites i
		USING teams t
		WHERE i.id = $1 AND i.team_id = t.id AND t.organization_id = $2`,
		inviteID, orgID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInviteNotFound
	}
	return nil
}

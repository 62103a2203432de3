package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// TeamService implements business logic for org membership and invites.
type TeamService struct {
	teamRepo ports.TeamRepository
	orgRepo  ports.OrganizationRepository
	userRepo ports.UserRepository
	notifier ports.Notifier

	// inviteBaseURL is the frontend URL the invite link points at
	inviteBaseURL string

	wg sync.WaitGroup
}

var _ ports.TeamService = (*TeamService)(nil)

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo ports.TeamRepository,
	orgRepo ports.OrganizationRepository,
	userRepo ports.UserRepository,
	notifier ports.Notifier,
	inviteBaseURL string,
) *TeamService {
	return &TeamService{
		teamRepo:      teamRepo,
		orgRepo:       orgRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		inviteBaseURL: inviteBaseURL,
	}
}

// ListMembers returns every member of the organization across its teams.
func (s *TeamService) ListMembers(ctx context.Context, actor ports.Actor) ([]*domain.OrgMember, error) {
	return s.teamRepo.ListMembers(ctx, actor.OrgID)
}

// UpdateMemberRole changes a member's role within the organization.
func (s *TeamService) UpdateMemberRole(ctx context.Context, actor ports.Actor, memberID uuid.UUID, role domain.MemberRole) (*domain.OrgMember, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}
	return s.teamRepo.UpdateMemberRole(ctx, actor.OrgID, memberID, role)
}

// RemoveMember removes a membership from the organization. An admin cannot
// remove their own membership; the org must keep at least one admin able to
// act.
func (s *TeamService) RemoveMember(ctx context.Context, actor ports.Actor, memberID uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	member, err := s.teamRepo.GetMemberByID(ctx, actor.OrgID, memberID)
	if err != nil {
		return err
	}
	if member.UserID == actor.UserID {
		return apperrors.ErrCannotRemoveSelf
	}

	return s.teamRepo.RemoveMember(ctx, memberID)
}

// QuickAddMember provisions a member directly, skipping the invite email
// round-trip. A missing account is created with a random placeholder
// password; the credentials are handed over out of band.
func (s *TeamService) QuickAddMember(ctx context.Context, actor ports.Actor, params ports.QuickAddParams) (*ports.QuickAddResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	role := params.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	team, err := s.teamRepo.GetDefaultTeam(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, params.Email)
	switch {
	case err == nil:
		if _, err := s.teamRepo.GetMembership(ctx, user.ID, actor.OrgID); err == nil {
			return nil, apperrors.ErrAlreadyMember
		} else if !errors.Is(err, apperrors.ErrNotOrgMember) {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrUserNotFound):
		password, err := newPlaceholderPassword()
		if err != nil {
			return nil, err
		}
		created, err := domain.NewUser(domain.UserRegistrationParams{
			FullName: params.FullName,
			Email:    params.Email,
			Password: password,
		})
		if err != nil {
			return nil, err
		}
		user, err = s.userRepo.Create(ctx, created)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	now := time.Now().UTC()
	member, err := s.teamRepo.AddMember(ctx, &domain.TeamMember{
		ID:        uuid.New(),
		UserID:    user.ID,
		TeamID:    team.ID,
		Role:      role,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}

	return &ports.QuickAddResult{
		Member: &domain.OrgMember{
			MemberID: member.ID,
			UserID:   user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			TeamID:   team.ID,
			TeamName: team.Name,
			Role:     member.Role,
			JoinedAt: member.CreatedAt,
		},
		User:         user,
		Organization: org,
	}, nil
}

// newPlaceholderPassword builds a random password that satisfies the
// registration policy. The account owner never learns it; they receive a
// session token from the admin instead.
func newPlaceholderPassword() (string, error) {
	token, err := NewInviteToken()
	if err != nil {
		return "", err
	}
	return "Qk1-" + token[:24], nil
}

// ListInvites returns the organization's pending invites.
func (s *TeamService) ListInvites(ctx context.Context, actor ports.Actor) ([]*domain.Invite, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.teamRepo.ListInvites(ctx, actor.OrgID)
}

// CreateInvite issues a single-use invite to join the organization's
// default team and emails the link to the recipient.
func (s *TeamService) CreateInvite(ctx context.Context, actor ports.Actor, params ports.CreateInviteParams) (*domain.Invite, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, apperrors.ErrEmailInvalid
	}
	if !domain.ValidRole(params.Role) {
		return nil, apperrors.ErrInvalidRole
	}

	team, err := s.teamRepo.GetDefaultTeam(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}

	token, err := NewInviteToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invite := &domain.Invite{
		ID:        uuid.New(),
		TeamID:    team.ID,
		Email:     params.Email,
		Role:      params.Role,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(inviteTTL),
	}

	created, err := s.teamRepo.CreateInvite(ctx, invite)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}

	s.notifyInvite(created, org)

	return created, nil
}

// RevokeInvite withdraws a pending invite so its token can no longer be
// redeemed.
func (s *TeamService) RevokeInvite(ctx context.Context, actor ports.Actor, inviteID uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return s.teamRepo.RevokeInvite(ctx, actor.OrgID, inviteID)
}

// notifyInvite emails the invite link in the background so a slow mail
// relay never holds the HTTP request.
func (s *TeamService) notifyInvite(invite *domain.Invite, org *domain.Organization) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		ctx := context.Background()

		s.notifier.Notify(ctx, ports.NotificationParams{
			RecipientEmail: invite.Email,
			Subject:        fmt.Sprintf("You've been invited to %s", org.Name),
			Message: fmt.Sprintf(
				"You've been invited to join %s as %s. Accept the invite at %s/accept-invite?token=%s",
				org.Name, invite.Role, s.inviteBaseURL, invite.Token,
			),
		})
	}()
}

// Shutdown waits for in-flight notifications to finish.
func (s *TeamService) Shutdown() {
	s.wg.Wait()
}

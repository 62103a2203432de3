package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// inviteTTL is how long an invite token stays redeemable.
const inviteTTL = 7 * 24 * time.Hour

// AuthService implements authentication business logic
type AuthService struct {
	userRepo ports.UserRepository
	orgRepo  ports.OrganizationRepository
	teamRepo ports.TeamRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo ports.UserRepository,
	orgRepo ports.OrganizationRepository,
	teamRepo ports.TeamRepository,
) ports.AuthService {
	return &AuthService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		teamRepo: teamRepo,
	}
}

// Signup creates a new user together with their organization, its default
// team, and an admin membership.
func (s *AuthService) Signup(ctx context.Context, params ports.SignupParams) (*ports.AuthResult, error) {
	regParams := domain.UserRegistrationParams{
		FullName: params.FullName,
		Email:    params.Email,
		Password: params.Password,
	}
	if err := regParams.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err // An actual DB error occurred
	}

	org, err := domain.NewOrganization(params.OrganizationName)
	if err != nil {
		return nil, err
	}

	createdOrg, err := s.orgRepo.Create(ctx, org)
	if errors.Is(err, apperrors.ErrSlugTaken) {
		// Disambiguate the slug and retry once
		org.Slug = fmt.Sprintf("%s-%s", org.Slug, org.ID.String()[:8])
		createdOrg, err = s.orgRepo.Create(ctx, org)
	}
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(regParams)
	if err != nil {
		return nil, err
	}
	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	team := &domain.Team{
		ID:             uuid.New(),
		OrganizationID: createdOrg.ID,
		Name:           "Default",
		CreatedAt:      time.Now().UTC(),
	}
	createdTeam, err := s.teamRepo.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	member := &domain.TeamMember{
		ID:        uuid.New(),
		UserID:    createdUser.ID,
		TeamID:    createdTeam.ID,
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		User:         createdUser,
		Organization: createdOrg,
		Role:         domain.RoleAdmin,
	}, nil
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	membership, err := s.teamRepo.GetUserMembership(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		User:         user,
		Organization: membership.Organization,
		Role:         membership.Member.Role,
	}, nil
}

// AcceptInvite redeems an invite token, creating the account and the team
// membership in the inviting organization. The invite is single-use.
func (s *AuthService) AcceptInvite(ctx context.Context, params ports.AcceptInviteParams) (*ports.AuthResult, error) {
	invite, err := s.teamRepo.GetInviteByToken(ctx, params.Token)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(invite.ExpiresAt) {
		return nil, apperrors.ErrInviteExpired
	}

	regParams := domain.UserRegistrationParams{
		FullName: params.FullName,
		Email:    invite.Email,
		Password: params.Password,
	}

	_, err = s.userRepo.GetByEmail(ctx, invite.Email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user, err := domain.NewUser(regParams)
	if err != nil {
		return nil, err
	}
	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	member := &domain.TeamMember{
		ID:        uuid.New(),
		UserID:    createdUser.ID,
		TeamID:    invite.TeamID,
		Role:      invite.Role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	if err := s.teamRepo.DeleteInvite(ctx, invite.ID); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetTeamByID(ctx, invite.TeamID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetByID(ctx, team.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		User:         createdUser,
		Organization: org,
		Role:         invite.Role,
	}, nil
}

// Profile returns the authenticated user's identity, organization, and role.
func (s *AuthService) Profile(ctx context.Context, userID, orgID uuid.UUID) (*ports.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	member, err := s.teamRepo.GetMembership(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	return &ports.Profile{
		User:         user,
		Organization: org,
		Role:         member.Role,
	}, nil
}

// NewInviteToken generates an opaque invite token.
func NewInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

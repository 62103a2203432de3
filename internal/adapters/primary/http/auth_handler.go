package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/calliko/statuspage-backend/internal/adapters/primary/http/middleware"
	"github.com/calliko/statuspage-backend/internal/adapters/primary/validation"
	"github.com/calliko/statuspage-backend/internal/auth"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// AuthHandler handles signup, login, and invite acceptance.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, tokenManager *auth.TokenManager, errorHandler *ErrorHandler) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
	}
}

// RegisterRoutes mounts the auth endpoints. Only /me requires a token.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/accept-invite", h.HandleAcceptInvite)
	r.With(mw.JWTMiddleware(h.tokenManager)).Get("/me", h.HandleMe)
}

// SignupRequest is the payload for POST /auth/signup.
type SignupRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organizationName"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AcceptInviteRequest is the payload for POST /auth/accept-invite.
type AcceptInviteRequest struct {
	Token    string `json:"token"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// AuthResponse carries the access token plus the authenticated identity.
type AuthResponse struct {
	Token        string          `json:"token"`
	User         UserDTO         `json:"user"`
	Organization OrganizationDTO `json:"organization"`
	Role         string          `json:"role"`
}

// HandleSignup creates a user, their organization, and an admin membership.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[SignupRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator()
	v.Required("fullName", req.FullName).
		Required("email", req.Email).Email("email", req.Email).
		Required("password", req.Password).
		Required("organizationName", req.OrganizationName)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	result, err := h.authService.Signup(r.Context(), ports.SignupParams{
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.writeAuthResponse(w, r, result, http.StatusCreated)
}

// HandleLogin authenticates a user and issues an access token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.writeAuthResponse(w, r, result, http.StatusOK)
}

// HandleAcceptInvite redeems an invite token and issues an access token.
func (h *AuthHandler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[AcceptInviteRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator()
	v.Required("token", req.Token).
		Required("fullName", req.FullName).
		Required("password", req.Password)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	result, err := h.authService.AcceptInvite(r.Context(), ports.AcceptInviteParams{
		Token:    req.Token,
		FullName: req.FullName,
		Password: req.Password,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.writeAuthResponse(w, r, result, http.StatusCreated)
}

// HandleMe returns the authenticated user's profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	profile, err := h.authService.Profile(r.Context(), claims.UserID, claims.OrgID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, struct {
		User         UserDTO         `json:"user"`
		Organization OrganizationDTO `json:"organization"`
		Role         string          `json:"role"`
	}{
		User:         toUserDTO(profile.User),
		Organization: toOrganizationDTO(profile.Organization),
		Role:         string(profile.Role),
	})
}

// writeAuthResponse issues the JWT and writes the auth payload. Token
// generation is the adapter's job; the core never sees JWTs.
func (h *AuthHandler) writeAuthResponse(w http.ResponseWriter, r *http.Request, result *ports.AuthResult, status int) {
	token, err := h.tokenManager.GenerateToken(result.User.ID, result.Organization.ID)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	WriteJSON(w, status, AuthResponse{
		Token:        token,
		User:         toUserDTO(result.User),
		Organization: toOrganizationDTO(result.Organization),
		Role:         string(result.Role),
	})
}

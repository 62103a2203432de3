package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	mw "github.com/calliko/statuspage-backend/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/calliko/statuspage-backend/internal/adapters/primary/websocket"
	"github.com/calliko/statuspage-backend/internal/adapters/secondary/cache"
	"github.com/calliko/statuspage-backend/internal/adapters/secondary/email"
	"github.com/calliko/statuspage-backend/internal/adapters/secondary/postgres"
	"github.com/calliko/statuspage-backend/internal/auth"
	"github.com/calliko/statuspage-backend/internal/config"
	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/ports"
	"github.com/calliko/statuspage-backend/internal/core/services"
)

// testEnv wires the full stack against the shared test database, the same
// way main.go does, minus rate limiting.
type testEnv struct {
	router       chi.Router
	tokenManager *auth.TokenManager
	hub          *wsAdapter.Hub
	teamService  *services.TeamService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	cfg := &config.Config{
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		App: config.AppConfig{
			Name:        "statuspage-test",
			Environment: "development",
			ClientURL:   "http://localhost:3000",
		},
	}

	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	hub := wsAdapter.NewHub(logger)
	go hub.Run()

	errorHandler := NewErrorHandler(logger)

	orgRepo := postgres.NewOrganizationRepository(testPool)
	userRepo := postgres.NewUserRepository(testPool)
	teamRepo := postgres.NewTeamRepository(testPool)
	serviceRepo := postgres.NewServiceRepository(testPool)
	incidentRepo := postgres.NewIncidentRepository(testPool)
	maintenanceRepo := postgres.NewMaintenanceRepository(testPool)

	notifier := email.NewMockSMTPNotifier(logger)

	authService := services.NewAuthService(userRepo, orgRepo, teamRepo)
	serviceManager := services.NewServiceManager(serviceRepo, hub, cache.NoopStatusCache{})
	incidentService := services.NewIncidentService(incidentRepo, serviceRepo, hub, cache.NoopStatusCache{})
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, serviceRepo, hub, cache.NoopStatusCache{})
	publicStatusService := services.NewPublicStatusService(orgRepo, serviceRepo, incidentRepo, maintenanceRepo, cache.NoopStatusCache{})
	teamService := services.NewTeamService(teamRepo, orgRepo, userRepo, notifier, cfg.App.ClientURL)

	authHandler := NewAuthHandler(authService, tokenManager, errorHandler)
	serviceHandler := NewServiceHandler(serviceManager, errorHandler)
	incidentHandler := NewIncidentHandler(incidentService, errorHandler)
	maintenanceHandler := NewMaintenanceHandler(maintenanceService, errorHandler)
	teamHandler := NewTeamHandler(teamService, tokenManager, errorHandler)
	publicHandler := NewPublicHandler(publicStatusService, errorHandler)
	wsHandler := NewWebSocketHandler(hub, tokenManager, publicStatusService, cfg, logger)
	healthHandler := NewHealthHandler(testPool, hub, "test")

	r := chi.NewRouter()
	r.Use(mw.RequestID)

	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authHandler.RegisterRoutes)
		r.Route("/public", publicHandler.RegisterRoutes)
		r.Get("/ws", wsHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Use(mw.ActorMiddleware(teamRepo))

			r.Route("/services", serviceHandler.RegisterRoutes)
			r.Route("/incidents", incidentHandler.RegisterRoutes)
			r.Route("/maintenance", maintenanceHandler.RegisterRoutes)
			r.Route("/teams", teamHandler.RegisterRoutes)
		})
	})

	return &testEnv{
		router:       r,
		tokenManager: tokenManager,
		hub:          hub,
		teamService:  teamService,
	}
}

// doJSON performs a request against the in-memory router and returns the
// recorded response. A non-empty token is sent as a bearer token.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a fresh admin account and returns the auth payload.
func (e *testEnv) signup(t *testing.T, fullName, email, orgName string) AuthResponse {
	t.Helper()

	rec := e.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{
		FullName:         fullName,
		Email:            email,
		Password:         "Sup3r-secret",
		OrganizationName: orgName,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// inviteMember provisions a member account in the admin's organization and
// returns its auth payload.
func (e *testEnv) inviteMember(t *testing.T, admin AuthResponse, email string) AuthResponse {
	t.Helper()

	invite, err := e.teamService.CreateInvite(context.Background(), ports.Actor{
		UserID: uuid.MustParse(admin.User.ID),
		OrgID:  uuid.MustParse(admin.Organization.ID),
		Role:   domain.RoleAdmin,
	}, ports.CreateInviteParams{Email: email, Role: domain.RoleMember})
	require.NoError(t, err)

	rec := e.doJSON(t, http.MethodPost, "/api/v1/auth/accept-invite", "", AcceptInviteRequest{
		Token:    invite.Token,
		FullName: "Invited Member",
		Password: "Sup3r-secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[AuthResponse](t, rec)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// PublicHandler serves the unauthenticated status page endpoints.
type PublicHandler struct {
	statusService ports.PublicStatusService
	errorHandler  *ErrorHandler
}

// NewPublicHandler creates a new public status handler
func NewPublicHandler(statusService ports.PublicStatusService, errorHandler *ErrorHandler) *PublicHandler {
	return &PublicHandler{
		statusService: statusService,
		errorHandler:  errorHandler,
	}
}

// RegisterRoutes mounts the public status page endpoints under /{slug}.
func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Route("/{slug}", func(r chi.Router) {
		r.Get("/status", h.HandleStatus)
		r.Get("/incidents", h.HandleIncidents)
		r.Get("/maintenance", h.HandleMaintenance)
	})
}

// PublicStatusResponse is the headline payload of a public status page.
type PublicStatusResponse struct {
	Organization  domain.OrgSummary `json:"organization"`
	OverallStatus string            `json:"overallStatus"`
	Services      []ServiceDTO      `json:"services"`
}

// PublicIncidentsResponse splits incidents into unresolved and recent history.
type PublicIncidentsResponse struct {
	Active []IncidentDTO `json:"active"`
	Recent []IncidentDTO `json:"recent"`
}

func pathSlug(r *http.Request) (string, error) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		return "", apperrors.NewBadRequestError(apperrors.ErrOrgNotFound, "Missing organization slug")
	}
	return slug, nil
}

// HandleStatus returns the overall status and service list for a tenant.
func (h *PublicHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	slug, err := pathSlug(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	view, err := h.statusService.Status(r.Context(), slug)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, PublicStatusResponse{
		Organization:  view.Organization,
		OverallStatus: string(view.OverallStatus),
		Services:      toServiceDTOs(view.Services),
	})
}

// HandleIncidents returns active incidents plus recently resolved history.
func (h *PublicHandler) HandleIncidents(w http.ResponseWriter, r *http.Request) {
	slug, err := pathSlug(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	view, err := h.statusService.Incidents(r.Context(), slug)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, PublicIncidentsResponse{
		Active: toIncidentDTOs(view.Active),
		Recent: toIncidentDTOs(view.Recent),
	})
}

// HandleMaintenance returns upcoming and in-progress maintenance windows.
func (h *PublicHandler) HandleMaintenance(w http.ResponseWriter, r *http.Request) {
	slug, err := pathSlug(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	windows, err := h.statusService.Maintenance(r.Context(), slug)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, toMaintenanceDTOs(windows))
}

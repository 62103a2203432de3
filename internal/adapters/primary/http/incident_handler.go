package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/adapters/primary/validation"
	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// IncidentHandler handles incident requests.
type IncidentHandler struct {
	incidentService ports.IncidentService
	errorHandler    *ErrorHandler
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(incidentService ports.IncidentService, errorHandler *ErrorHandler) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		errorHandler:    errorHandler,
	}
}

// RegisterRoutes mounts the incident endpoints.
func (h *IncidentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Route("/{incidentID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Patch("/", h.HandleUpdate)
		r.Post("/updates", h.HandleAddUpdate)
		r.Patch("/resolve", h.HandleResolve)
	})
}

// CreateIncidentRequest is the payload for POST /incidents.
type CreateIncidentRequest struct {
	ServiceID   string `json:"serviceId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateIncidentRequest is the payload for PATCH /incidents/{incidentID}.
type UpdateIncidentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// AddUpdateRequest is the payload for POST /incidents/{incidentID}/updates.
type AddUpdateRequest struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ResolveRequest is the payload for PATCH /incidents/{incidentID}/resolve.
type ResolveRequest struct {
	Message string `json:"message"`
}

// HandleList returns the organization's incidents, newest first. An
// optional ?status= query narrows to one lifecycle state.
func (h *IncidentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	var statusFilter *domain.IncidentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.IncidentStatus(raw)
		statusFilter = &status
	}

	incidents, err := h.incidentService.ListIncidents(r.Context(), actor, statusFilter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, toIncidentDTOs(incidents))
}

// HandleGet returns one incident with its full timeline.
func (h *IncidentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incidentID, err := pathID(r, "incidentID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incident, err := h.incidentService.GetIncident(r.Context(), actor, incidentID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toIncidentDTO(incident))
}

// HandleCreate declares a new incident.
func (h *IncidentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[CreateIncidentRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator()
	v.Required("serviceId", req.ServiceID).
		Required("title", req.Title)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid serviceId"))
		return
	}

	incident, err := h.incidentService.CreateIncident(r.Context(), actor, ports.CreateIncidentParams{
		ServiceID:   serviceID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.IncidentStatus(req.Status),
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteCreated(w, toIncidentDTO(incident))
}

// HandleUpdate applies a partial update to an incident.
func (h *IncidentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incidentID, err := pathID(r, "incidentID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateIncidentRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	params := ports.UpdateIncidentParams{
		IncidentID:  incidentID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.IncidentStatus(*req.Status)
		if !domain.ValidIncidentStatus(status) {
			h.errorHandler.Handle(w, r, apperrors.ErrInvalidIncidentStatus)
			return
		}
		params.Status = &status
	}

	incident, err := h.incidentService.UpdateIncident(r.Context(), actor, params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toIncidentDTO(incident))
}

// HandleAddUpdate appends a timeline entry to an incident.
func (h *IncidentHandler) HandleAddUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incidentID, err := pathID(r, "incidentID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[AddUpdateRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incident, err := h.incidentService.AddIncidentUpdate(r.Context(), actor, ports.AddIncidentUpdateParams{
		IncidentID: incidentID,
		Message:    req.Message,
		Status:     domain.IncidentStatus(req.Status),
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toIncidentDTO(incident))
}

// HandleResolve closes an incident with a final timeline entry.
func (h *IncidentHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incidentID, err := pathID(r, "incidentID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[ResolveRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	incident, err := h.incidentService.ResolveIncident(r.Context(), actor, incidentID, req.Message)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toIncidentDTO(incident))
}

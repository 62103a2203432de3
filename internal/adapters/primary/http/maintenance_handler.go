package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/adapters/primary/validation"
	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// MaintenanceHandler handles maintenance window requests.
type MaintenanceHandler struct {
	maintenanceService ports.MaintenanceService
	errorHandler       *ErrorHandler
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService ports.MaintenanceService, errorHandler *ErrorHandler) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		errorHandler:       errorHandler,
	}
}

// RegisterRoutes mounts the maintenance window endpoints.
func (h *MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Route("/{maintenanceID}", func(r chi.Router) {
		r.Patch("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)
	})
}

// CreateMaintenanceRequest is the payload for POST /maintenance.
type CreateMaintenanceRequest struct {
	ServiceID      string    `json:"serviceId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
}

// UpdateMaintenanceRequest is the payload for PATCH /maintenance/{maintenanceID}.
type UpdateMaintenanceRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	ScheduledStart *time.Time `json:"scheduledStart"`
	ScheduledEnd   *time.Time `json:"scheduledEnd"`
}

// HandleList returns the organization's maintenance windows.
func (h *MaintenanceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	windows, err := h.maintenanceService.ListMaintenance(r.Context(), actor)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, toMaintenanceDTOs(windows))
}

// HandleCreate schedules a new maintenance window.
func (h *MaintenanceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[CreateMaintenanceRequest](r)
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

	window, err := h.maintenanceService.CreateMaintenance(r.Context(), actor, ports.CreateMaintenanceParams{
		ServiceID:      serviceID,
		Title:          req.Title,
		Description:    req.Description,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteCreated(w, toMaintenanceDTO(window))
}

// HandleUpdate applies a partial update to a maintenance window.
func (h *MaintenanceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	maintenanceID, err := pathID(r, "maintenanceID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateMaintenanceRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	params := ports.UpdateMaintenanceParams{
		MaintenanceID:  maintenanceID,
		Title:          req.Title,
		Description:    req.Description,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	}
	if req.Status != nil {
		status := domain.MaintenanceStatus(*req.Status)
		if !domain.ValidMaintenanceStatus(status) {
			h.errorHandler.Handle(w, r, apperrors.ErrInvalidMaintenanceStatus)
			return
		}
		params.Status = &status
	}

	window, err := h.maintenanceService.UpdateMaintenance(r.Context(), actor, params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toMaintenanceDTO(window))
}

// HandleDelete removes a maintenance window.
func (h *MaintenanceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	maintenanceID, err := pathID(r, "maintenanceID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if err := h.maintenanceService.DeleteMaintenance(r.Context(), actor, maintenanceID); HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteNoContent(w)
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/calliko/statuspage-backend/internal/adapters/primary/http/middleware"
	"github.com/calliko/statuspage-backend/internal/adapters/primary/validation"
	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// actorFrom pulls the resolved actor out of the request context. Handlers
// behind ActorMiddleware can rely on it being present.
func actorFrom(r *http.Request) (ports.Actor, error) {
	actor, ok := mw.GetActor(r.Context())
	if !ok {
		return ports.Actor{}, apperrors.ErrUnauthorized
	}
	return actor, nil
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError(err, "Invalid id in URL")
	}
	return id, nil
}

// ServiceHandler handles service catalog requests.
type ServiceHandler struct {
	serviceManager ports.ServiceManager
	errorHandler   *ErrorHandler
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(serviceManager ports.ServiceManager, errorHandler *ErrorHandler) *ServiceHandler {
	return &ServiceHandler{
		serviceManager: serviceManager,
		errorHandler:   errorHandler,
	}
}

// RegisterRoutes mounts the service catalog endpoints.
func (h *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Route("/{serviceID}", func(r chi.Router) {
		r.Patch("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)
	})
}

// CreateServiceRequest is the payload for POST /services.
type CreateServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateServiceRequest is the payload for PATCH /services/{serviceID}.
// Absent fields are left untouched.
type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// HandleList returns the organization's service catalog.
func (h *ServiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	services, err := h.serviceManager.ListServices(r.Context(), actor)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, toServiceDTOs(services))
}

// HandleCreate adds a service to the catalog.
func (h *ServiceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[CreateServiceRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator()
	v.Required("name", req.Name).MaxLength("name", req.Name, domain.MaxServiceNameLength)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	svc, err := h.serviceManager.CreateService(r.Context(), actor, ports.CreateServiceParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteCreated(w, toServiceDTO(svc))
}

// HandleUpdate applies a partial update to a service.
func (h *ServiceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	serviceID, err := pathID(r, "serviceID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateServiceRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	params := ports.UpdateServiceParams{
		ServiceID:   serviceID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.ServiceStatus(*req.Status)
		if !domain.ValidServiceStatus(status) {
			h.errorHandler.Handle(w, r, apperrors.ErrInvalidServiceStatus)
			return
		}
		params.Status = &status
	}

	svc, err := h.serviceManager.UpdateService(r.Context(), actor, params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toServiceDTO(svc))
}

// HandleDelete removes a service from the catalog.
func (h *ServiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	serviceID, err := pathID(r, "serviceID")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if err := h.serviceManager.DeleteService(r.Context(), actor, serviceID); HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteNoContent(w)
}

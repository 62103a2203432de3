package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// IncidentService implements business logic for incident management.
type IncidentService struct {
	incidentRepo ports.IncidentRepository
	serviceRepo  ports.ServiceRepository
	broadcaster  ports.EventBroadcaster
	cache        ports.StatusCache
}

var _ ports.IncidentService = (*IncidentService)(nil)

// NewIncidentService creates a new incident service
func NewIncidentService(
	incidentRepo ports.IncidentRepository,
	serviceRepo ports.ServiceRepository,
	broadcaster ports.EventBroadcaster,
	cache ports.StatusCache,
) ports.IncidentService {
	return &IncidentService{
		incidentRepo: incidentRepo,
		serviceRepo:  serviceRepo,
		broadcaster:  broadcaster,
		cache:        cache,
	}
}

// ListIncidents returns the organization's incidents, optionally filtered
// by status.
func (s *IncidentService) ListIncidents(ctx context.Context, actor ports.Actor, status *domain.IncidentStatus) ([]*domain.Incident, error) {
	if status != nil && !domain.ValidIncidentStatus(*status) {
		return nil, apperrors.ErrInvalidIncidentStatus
	}
	return s.incidentRepo.ListByOrg(ctx, actor.OrgID, status)
}

// GetIncident returns one incident with its full update timeline.
func (s *IncidentService) GetIncident(ctx context.Context, actor ports.Actor, incidentID uuid.UUID) (*domain.Incident, error) {
	return s.incidentRepo.GetByID(ctx, actor.OrgID, incidentID)
}

// CreateIncident declares an incident against a service. The incident and
// its initial timeline entry are persisted together.
func (s *IncidentService) CreateIncident(ctx context.Context, actor ports.Actor, params ports.CreateIncidentParams) (*domain.Incident, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	// The target service must belong to the actor's organization
	svc, err := s.serviceRepo.GetByID(ctx, actor.OrgID, params.ServiceID)
	if err != nil {
		return nil, err
	}

	incident, err := domain.NewIncident(params.ServiceID, params.Title, params.Description, params.Status)
	if err != nil {
		return nil, err
	}
	incident.ServiceName = svc.Name

	initial, err := domain.NewIncidentUpdate(incident.ID, incident.Description, incident.Status)
	if err != nil {
		// An empty description still gets a timeline anchor
		initial, err = domain.NewIncidentUpdate(incident.ID, incident.Title, incident.Status)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.incidentRepo.Create(ctx, incident, initial)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventIncidentCreated, created, actor.OrgID)

	return created, nil
}

// UpdateIncident applies a partial update. Moving to resolved stamps the
// resolution time and emits incident:resolved instead of incident:updated.
func (s *IncidentService) UpdateIncident(ctx context.Context, actor ports.Actor, params ports.UpdateIncidentParams) (*domain.Incident, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	incident, err := s.incidentRepo.GetByID(ctx, actor.OrgID, params.IncidentID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, apperrors.ErrTitleRequired
		}
		incident.Title = *params.Title
	}
	if params.Description != nil {
		incident.Description = *params.Description
	}
	resolved := false
	if params.Status != nil && *params.Status != incident.Status {
		if err := incident.SetStatus(*params.Status); err != nil {
			return nil, err
		}
		resolved = incident.Status == domain.IncidentResolved
	}

	updated, err := s.incidentRepo.Update(ctx, incident)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	if resolved {
		s.publish(domain.EventIncidentResolved, updated, actor.OrgID)
	} else {
		s.publish(domain.EventIncidentUpdated, updated, actor.OrgID)
	}

	return updated, nil
}

// AddIncidentUpdate appends a timeline entry, optionally moving the
// incident to a new status at the same time.
func (s *IncidentService) AddIncidentUpdate(ctx context.Context, actor ports.Actor, params ports.AddIncidentUpdateParams) (*domain.Incident, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	incident, err := s.incidentRepo.GetByID(ctx, actor.OrgID, params.IncidentID)
	if err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = incident.Status
	}

	update, err := domain.NewIncidentUpdate(incident.ID, params.Message, status)
	if err != nil {
		return nil, err
	}

	resolved := false
	if status != incident.Status {
		if err := incident.SetStatus(status); err != nil {
			return nil, err
		}
		resolved = incident.Status == domain.IncidentResolved
	}

	updated, err := s.incidentRepo.AppendUpdate(ctx, incident, update)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	if resolved {
		s.publish(domain.EventIncidentResolved, updated, actor.OrgID)
	} else {
		s.publish(domain.EventIncidentUpdated, updated, actor.OrgID)
	}

	return updated, nil
}

// ResolveIncident closes an incident with a final timeline entry.
func (s *IncidentService) ResolveIncident(ctx context.Context, actor ports.Actor, incidentID uuid.UUID, message string) (*domain.Incident, error) {
	if message == "" {
		message = "Incident resolved"
	}
	return s.AddIncidentUpdate(ctx, actor, ports.AddIncidentUpdateParams{
		IncidentID: incidentID,
		Message:    message,
		Status:     domain.IncidentResolved,
	})
}

func (s *IncidentService) publish(kind domain.EventKind, payload interface{}, orgID uuid.UUID) {
	_ = s.broadcaster.Broadcast(domain.Event{
		Kind:    kind,
		Payload: payload,
		OrgID:   orgID,
	})
}

package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// ServiceManager implements business logic for the service catalog.
// Every mutation broadcasts a real-time event to the owning organization's
// room, but only after the write has committed; the event carries enough
// for clients to refetch, it is never the source of truth.
type ServiceManager struct {
	serviceRepo ports.ServiceRepository
	broadcaster ports.EventBroadcaster
	cache       ports.StatusCache
}

var _ ports.ServiceManager = (*ServiceManager)(nil)

// NewServiceManager creates a new service catalog manager
func NewServiceManager(
	serviceRepo ports.ServiceRepository,
	broadcaster ports.EventBroadcaster,
	cache ports.StatusCache,
) ports.ServiceManager {
	return &ServiceManager{
		serviceRepo: serviceRepo,
		broadcaster: broadcaster,
		cache:       cache,
	}
}

// ListServices returns the organization's service catalog.
func (s *ServiceManager) ListServices(ctx context.Context, actor ports.Actor) ([]*domain.Service, error) {
	return s.serviceRepo.ListByOrg(ctx, actor.OrgID)
}

// CreateService adds a service to the catalog in the operational state.
func (s *ServiceManager) CreateService(ctx context.Context, actor ports.Actor, params ports.CreateServiceParams) (*domain.Service, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	svc, err := domain.NewService(actor.OrgID, params.Name, params.Description)
	if err != nil {
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventServiceCreated, created, actor.OrgID)

	return created, nil
}

// UpdateService applies a partial update. A status change additionally
// emits service:status_changed carrying the old and new status.
func (s *ServiceManager) UpdateService(ctx context.Context, actor ports.Actor, params ports.UpdateServiceParams) (*domain.Service, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	svc, err := s.serviceRepo.GetByID(ctx, actor.OrgID, params.ServiceID)
	if err != nil {
		return nil, err
	}

	oldStatus := svc.Status

	if params.Name != nil {
		if *params.Name == "" {
			return nil, apperrors.ErrServiceNameRequired
		}
		svc.Name = *params.Name
	}
	if params.Description != nil {
		svc.Description = *params.Description
	}
	statusChanged := false
	if params.Status != nil && *params.Status != oldStatus {
		if err := svc.SetStatus(*params.Status); err != nil {
			return nil, err
		}
		statusChanged = true
	}

	updated, err := s.serviceRepo.Update(ctx, svc)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventServiceUpdated, updated, actor.OrgID)
	if statusChanged {
		s.publish(domain.EventServiceStatusChanged, domain.NewStatusChangePayload(updated, oldStatus), actor.OrgID)
	}

	return updated, nil
}

// DeleteService removes a service along with its incidents and windows.
func (s *ServiceManager) DeleteService(ctx context.Context, actor ports.Actor, serviceID uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	if err := s.serviceRepo.Delete(ctx, actor.OrgID, serviceID); err != nil {
		return err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventServiceDeleted, domain.ServiceDeletedPayload{ServiceID: serviceID.String()}, actor.OrgID)

	return nil
}

// publish sends a real-time event to the organization's room. Delivery is
// best-effort; a full queue is not an error for the caller.
func (s *ServiceManager) publish(kind domain.EventKind, payload interface{}, orgID uuid.UUID) {
	_ = s.broadcaster.Broadcast(domain.Event{
		Kind:    kind,
		Payload: payload,
		OrgID:   orgID,
	})
}

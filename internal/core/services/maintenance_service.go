package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// MaintenanceService implements business logic for maintenance windows.
type MaintenanceService struct {
	maintenanceRepo ports.MaintenanceRepository
	serviceRepo     ports.ServiceRepository
	broadcaster     ports.EventBroadcaster
	cache           ports.StatusCache
}

var _ ports.MaintenanceService = (*MaintenanceService)(nil)

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	maintenanceRepo ports.MaintenanceRepository,
	serviceRepo ports.ServiceRepository,
	broadcaster ports.EventBroadcaster,
	cache ports.StatusCache,
) ports.MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		serviceRepo:     serviceRepo,
		broadcaster:     broadcaster,
		cache:           cache,
	}
}

// ListMaintenance returns the organization's maintenance windows.
func (s *MaintenanceService) ListMaintenance(ctx context.Context, actor ports.Actor) ([]*domain.Maintenance, error) {
	return s.maintenanceRepo.ListByOrg(ctx, actor.OrgID)
}

// CreateMaintenance schedules a window against a service.
func (s *MaintenanceService) CreateMaintenance(ctx context.Context, actor ports.Actor, params ports.CreateMaintenanceParams) (*domain.Maintenance, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	// The target service must belong to the actor's organization
	svc, err := s.serviceRepo.GetByID(ctx, actor.OrgID, params.ServiceID)
	if err != nil {
		return nil, err
	}

	m, err := domain.NewMaintenance(params.ServiceID, params.Title, params.Description, params.ScheduledStart, params.ScheduledEnd)
	if err != nil {
		return nil, err
	}
	m.ServiceName = svc.Name

	created, err := s.maintenanceRepo.Create(ctx, m)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventMaintenanceCreated, created, actor.OrgID)

	return created, nil
}

// UpdateMaintenance applies a partial update to a window.
func (s *MaintenanceService) UpdateMaintenance(ctx context.Context, actor ports.Actor, params ports.UpdateMaintenanceParams) (*domain.Maintenance, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	m, err := s.maintenanceRepo.GetByID(ctx, actor.OrgID, params.MaintenanceID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, apperrors.ErrTitleRequired
		}
		m.Title = *params.Title
	}
	if params.Description != nil {
		m.Description = *params.Description
	}
	if params.Status != nil {
		if err := m.SetStatus(*params.Status); err != nil {
			return nil, err
		}
	}
	if params.ScheduledStart != nil || params.ScheduledEnd != nil {
		start := m.ScheduledStart
		end := m.ScheduledEnd
		if params.ScheduledStart != nil {
			start = *params.ScheduledStart
		}
		if params.ScheduledEnd != nil {
			end = *params.ScheduledEnd
		}
		if err := m.Reschedule(start, end); err != nil {
			return nil, err
		}
	}

	updated, err := s.maintenanceRepo.Update(ctx, m)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventMaintenanceUpdated, updated, actor.OrgID)

	return updated, nil
}

// DeleteMaintenance removes a window.
func (s *MaintenanceService) DeleteMaintenance(ctx context.Context, actor ports.Actor, maintenanceID uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	if err := s.maintenanceRepo.Delete(ctx, actor.OrgID, maintenanceID); err != nil {
		return err
	}

	s.cache.Invalidate(actor.OrgID)
	s.publish(domain.EventMaintenanceDeleted, domain.MaintenanceDeletedPayload{MaintenanceID: maintenanceID.String()}, actor.OrgID)

	return nil
}

func (s *MaintenanceService) publish(kind domain.EventKind, payload interface{}, orgID uuid.UUID) {
	_ = s.broadcaster.Broadcast(domain.Event{
		Kind:    kind,
		Payload: payload,
		OrgID:   orgID,
	})
}

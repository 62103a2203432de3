package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
	"github.com/calliko/statuspage-backend/internal/core/mocks"
	"github.com/calliko/statuspage-backend/internal/core/ports"
	"github.com/calliko/statuspage-backend/internal/core/services"
)

func TestMaintenanceService_CreateMaintenance(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	serviceID := uuid.New()

	start := time.Now().UTC().Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)

	t.Run("success broadcasts maintenance:created", func(t *testing.T) {
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		svc := services.NewMaintenanceService(mockMaint, mockServices, mockBroadcaster, mockCache)

		mockServices.On("GetByID", ctx, orgID, serviceID).
			Return(&domain.Service{ID: serviceID, Name: "API"}, nil)
		mockMaint.On("Create", ctx, mock.MatchedBy(func(m *domain.Maintenance) bool {
			return m.Status == domain.MaintenanceScheduled && m.ServiceName == "API"
		})).Return(&domain.Maintenance{ID: uuid.New(), Status: domain.MaintenanceScheduled}, nil)
		mockCache.On("Invalidate", orgID).Return()
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventMaintenanceCreated && e.OrgID == orgID
		})).Return(nil)

		m, err := svc.CreateMaintenance(ctx, adminActor(orgID), ports.CreateMaintenanceParams{
			ServiceID:      serviceID,
			Title:          "Database upgrade",
			ScheduledStart: start,
			ScheduledEnd:   end,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.MaintenanceScheduled, m.Status)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("inverted schedule is rejected", func(t *testing.T) {
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		svc := services.NewMaintenanceService(mockMaint, mockServices, mockBroadcaster, mockCache)

		mockServices.On("GetByID", ctx, orgID, serviceID).
			Return(&domain.Service{ID: serviceID, Name: "API"}, nil)

		m, err := svc.CreateMaintenance(ctx, adminActor(orgID), ports.CreateMaintenanceParams{
			ServiceID:      serviceID,
			Title:          "Database upgrade",
			ScheduledStart: end,
			ScheduledEnd:   start,
		})

		assert.Nil(t, m)
		assert.ErrorIs(t, err, apperrors.ErrScheduleInverted)
		mockMaint.AssertNotCalled(t, "Create")
	})
}

func TestMaintenanceService_UpdateMaintenance(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	maintenanceID := uuid.New()

	start := time.Now().UTC().Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)

	existing := func() *domain.Maintenance {
		return &domain.Maintenance{
			ID:             maintenanceID,
			Title:          "Database upgrade",
			Status:         domain.MaintenanceScheduled,
			ScheduledStart: start,
			ScheduledEnd:   end,
		}
	}

	t.Run("reschedule keeps end after start", func(t *testing.T) {
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		svc := services.NewMaintenanceService(mockMaint, mockServices, mockBroadcaster, mockCache)

		mockMaint.On("GetByID", ctx, orgID, maintenanceID).Return(existing(), nil)

		// Move the start past the current end without moving the end
		badStart := end.Add(time.Hour)
		m, err := svc.UpdateMaintenance(ctx, adminActor(orgID), ports.UpdateMaintenanceParams{
			MaintenanceID:  maintenanceID,
			ScheduledStart: &badStart,
		})

		assert.Nil(t, m)
		assert.ErrorIs(t, err, apperrors.ErrScheduleInverted)
		mockMaint.AssertNotCalled(t, "Update")
	})

	t.Run("status change broadcasts maintenance:updated", func(t *testing.T) {
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		svc := services.NewMaintenanceService(mockMaint, mockServices, mockBroadcaster, mockCache)

		mockMaint.On("GetByID", ctx, orgID, maintenanceID).Return(existing(), nil)
		mockMaint.On("Update", ctx, mock.MatchedBy(func(m *domain.Maintenance) bool {
			return m.Status == domain.MaintenanceInProgress
		})).Return(&domain.Maintenance{ID: maintenanceID, Status: domain.MaintenanceInProgress}, nil)
		mockCache.On("Invalidate", orgID).Return()
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventMaintenanceUpdated
		})).Return(nil)

		status := domain.MaintenanceInProgress
		m, err := svc.UpdateMaintenance(ctx, adminActor(orgID), ports.UpdateMaintenanceParams{
			MaintenanceID: maintenanceID,
			Status:        &status,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.MaintenanceInProgress, m.Status)
	})
}

func TestMaintenanceService_DeleteMaintenance(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	maintenanceID := uuid.New()

	t.Run("delete broadcasts deleted event with id", func(t *testing.T) {
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		svc := services.NewMaintenanceService(mockMaint, mockServices, mockBroadcaster, mockCache)

		mockMaint.On("Delete", ctx, orgID, maintenanceID).Return(nil)
		mockCache.On("Invalidate", orgID).Return()
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			payload, ok := e.Payload.(domain.MaintenanceDeletedPayload)
			return ok && e.Kind == domain.EventMaintenanceDeleted && payload.MaintenanceID == maintenanceID.String()
		})).Return(nil)

		err := svc.DeleteMaintenance(ctx, adminActor(orgID), maintenanceID)

		require.NoError(t, err)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("member cannot delete", func(t *testing.T) {
		mockMaint := mocks.NewMockMaintenanceRepository()
		svc := services.NewMaintenanceService(mockMaint, mocks.NewMockServiceRepository(), mocks.NewMockEventBroadcaster(), mocks.NewMockStatusCache())

		err := svc.DeleteMaintenance(ctx, memberActor(orgID), maintenanceID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockMaint.AssertNotCalled(t, "Delete")
	})
}

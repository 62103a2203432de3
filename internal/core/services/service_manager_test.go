package services_test

import (
	"context"
	"testing"

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

func adminActor(orgID uuid.UUID) ports.Actor {
	return ports.Actor{UserID: uuid.New(), OrgID: orgID, Role: domain.RoleAdmin}
}

func memberActor(orgID uuid.UUID) ports.Actor {
	return ports.Actor{UserID: uuid.New(), OrgID: orgID, Role: domain.RoleMember}
}

func TestServiceManager_CreateService(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("success broadcasts created event to the org", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Service")).
			Return(&domain.Service{
				ID:             uuid.New(),
				OrganizationID: orgID,
				Name:           "API",
				Status:         domain.StatusOperational,
			}, nil)
		mockCache.On("Invalidate", orgID).Return()
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventServiceCreated && e.OrgID == orgID
		})).Return(nil)

		svc, err := mgr.CreateService(ctx, adminActor(orgID), ports.CreateServiceParams{Name: "API"})

		require.NoError(t, err)
		assert.Equal(t, "API", svc.Name)
		assert.Equal(t, domain.StatusOperational, svc.Status)
		mockBroadcaster.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("member cannot create", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		svc, err := mgr.CreateService(ctx, memberActor(orgID), ports.CreateServiceParams{Name: "API"})

		assert.Nil(t, svc)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Create")
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("validation error for empty name", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		svc, err := mgr.CreateService(ctx, adminActor(orgID), ports.CreateServiceParams{Name: "  "})

		assert.Nil(t, svc)
		assert.ErrorIs(t, err, apperrors.ErrServiceNameRequired)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("no broadcast when persistence fails", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Service")).
			Return(nil, apperrors.ErrInternal)

		svc, err := mgr.CreateService(ctx, adminActor(orgID), ports.CreateServiceParams{Name: "API"})

		assert.Nil(t, svc)
		assert.Error(t, err)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
		mockCache.AssertNotCalled(t, "Invalidate")
	})
}

func TestServiceManager_UpdateService(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	serviceID := uuid.New()

	existing := func() *domain.Service {
		return &domain.Service{
			ID:             serviceID,
			OrganizationID: orgID,
			Name:           "API",
			Status:         domain.StatusOperational,
		}
	}

	t.Run("status change emits both updated and status_changed", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("GetByID", ctx, orgID, serviceID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Service")).
			Return(&domain.Service{
				ID:             serviceID,
				OrganizationID: orgID,
				Name:           "API",
				Status:         domain.StatusMajorOutage,
			}, nil)
		mockCache.On("Invalidate", orgID).Return()

		var kinds []domain.EventKind
		mockBroadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).
			Run(func(args mock.Arguments) {
				kinds = append(kinds, args.Get(0).(domain.Event).Kind)
			}).Return(nil)

		status := domain.StatusMajorOutage
		svc, err := mgr.UpdateService(ctx, adminActor(orgID), ports.UpdateServiceParams{
			ServiceID: serviceID,
			Status:    &status,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusMajorOutage, svc.Status)
		assert.Equal(t, []domain.EventKind{domain.EventServiceUpdated, domain.EventServiceStatusChanged}, kinds)
	})

	t.Run("status_changed payload carries old and new status", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("GetByID", ctx, orgID, serviceID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Service")).
			Return(&domain.Service{
				ID:     serviceID,
				Name:   "API",
				Status: domain.StatusDegraded,
			}, nil)
		mockCache.On("Invalidate", orgID).Return()

		var payload domain.StatusChangePayload
		mockBroadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).
			Run(func(args mock.Arguments) {
				e := args.Get(0).(domain.Event)
				if e.Kind == domain.EventServiceStatusChanged {
					payload = e.Payload.(domain.StatusChangePayload)
				}
			}).Return(nil)

		status := domain.StatusDegraded
		_, err := mgr.UpdateService(ctx, adminActor(orgID), ports.UpdateServiceParams{
			ServiceID: serviceID,
			Status:    &status,
		})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusOperational), payload.OldStatus)
		assert.Equal(t, string(domain.StatusDegraded), payload.NewStatus)
		assert.Equal(t, "API", payload.ServiceName)
	})

	t.Run("rename without status change emits only updated", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("GetByID", ctx, orgID, serviceID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Service")).
			Return(existing(), nil)
		mockCache.On("Invalidate", orgID).Return()

		var kinds []domain.EventKind
		mockBroadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).
			Run(func(args mock.Arguments) {
				kinds = append(kinds, args.Get(0).(domain.Event).Kind)
			}).Return(nil)

		name := "Gateway"
		_, err := mgr.UpdateService(ctx, adminActor(orgID), ports.UpdateServiceParams{
			ServiceID: serviceID,
			Name:      &name,
		})

		require.NoError(t, err)
		assert.Equal(t, []domain.EventKind{domain.EventServiceUpdated}, kinds)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("GetByID", ctx, orgID, serviceID).Return(existing(), nil)

		status := domain.ServiceStatus("on-fire")
		svc, err := mgr.UpdateService(ctx, adminActor(orgID), ports.UpdateServiceParams{
			ServiceID: serviceID,
			Status:    &status,
		})

		assert.Nil(t, svc)
		assert.ErrorIs(t, err, apperrors.ErrInvalidServiceStatus)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestServiceManager_DeleteService(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	serviceID := uuid.New()

	t.Run("delete broadcasts deleted event with service id", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("Delete", ctx, orgID, serviceID).Return(nil)
		mockCache.On("Invalidate", orgID).Return()
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			payload, ok := e.Payload.(domain.ServiceDeletedPayload)
			return ok && e.Kind == domain.EventServiceDeleted && payload.ServiceID == serviceID.String()
		})).Return(nil)

		err := mgr.DeleteService(ctx, adminActor(orgID), serviceID)

		require.NoError(t, err)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("not found passes through without broadcast", func(t *testing.T) {
		mockRepo := mocks.NewMockServiceRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockCache := mocks.NewMockStatusCache()

		mgr := services.NewServiceManager(mockRepo, mockBroadcaster, mockCache)

		mockRepo.On("Delete", ctx, orgID, serviceID).Return(apperrors.ErrServiceNotFound)

		err := mgr.DeleteService(ctx, adminActor(orgID), serviceID)

		assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}

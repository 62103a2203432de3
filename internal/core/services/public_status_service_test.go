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
	"github.com/calliko/statuspage-backend/internal/core/services"
)

func newPublicService(
	orgs *mocks.MockOrganizationRepository,
	svcs *mocks.MockServiceRepository,
	incidents *mocks.MockIncidentRepository,
	maint *mocks.MockMaintenanceRepository,
	cache *mocks.MockStatusCache,
) *services.PublicStatusService {
	return services.NewPublicStatusService(orgs, svcs, incidents, maint, cache)
}

func TestPublicStatusService_Status(t *testing.T) {
	ctx := context.Background()

	org := &domain.Organization{ID: uuid.New(), Name: "Acme Corp", Slug: "acme-corp"}

	t.Run("overall status is the worst service status", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockIncidents := mocks.NewMockIncidentRepository()
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mockServices, mockIncidents, mockMaint, mockCache)

		mockOrgs.On("GetBySlug", ctx, "acme-corp").Return(org, nil)
		mockCache.On("Get", org.ID, "status").Return(nil, false)
		mockServices.On("ListByOrg", ctx, org.ID).Return([]*domain.Service{
			{Name: "API", Status: domain.StatusOperational},
			{Name: "CDN", Status: domain.StatusPartialOutage},
			{Name: "DB", Status: domain.StatusDegraded},
		}, nil)
		mockCache.On("Set", org.ID, "status", mock.Anything).Return()

		view, err := svc.Status(ctx, "acme-corp")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPartialOutage, view.OverallStatus)
		assert.Equal(t, "acme-corp", view.Organization.Slug)
		assert.Len(t, view.Services, 3)
	})

	t.Run("empty catalog reads operational", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockIncidents := mocks.NewMockIncidentRepository()
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mockServices, mockIncidents, mockMaint, mockCache)

		mockOrgs.On("GetBySlug", ctx, "acme-corp").Return(org, nil)
		mockCache.On("Get", org.ID, "status").Return(nil, false)
		mockServices.On("ListByOrg", ctx, org.ID).Return([]*domain.Service{}, nil)
		mockCache.On("Set", org.ID, "status", mock.Anything).Return()

		view, err := svc.Status(ctx, "acme-corp")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusOperational, view.OverallStatus)
	})

	t.Run("cache hit skips the repositories", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockIncidents := mocks.NewMockIncidentRepository()
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mockServices, mockIncidents, mockMaint, mockCache)

		cached := &domain.PublicStatusView{OverallStatus: domain.StatusMajorOutage}
		mockOrgs.On("GetBySlug", ctx, "acme-corp").Return(org, nil)
		mockCache.On("Get", org.ID, "status").Return(cached, true)

		view, err := svc.Status(ctx, "acme-corp")

		require.NoError(t, err)
		assert.Same(t, cached, view)
		mockServices.AssertNotCalled(t, "ListByOrg")
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockIncidents := mocks.NewMockIncidentRepository()
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mockServices, mockIncidents, mockMaint, mockCache)

		mockOrgs.On("GetBySlug", ctx, "ghost").Return(nil, apperrors.ErrOrgNotFound)

		view, err := svc.Status(ctx, "ghost")

		assert.Nil(t, view)
		assert.ErrorIs(t, err, apperrors.ErrOrgNotFound)
	})
}

func TestPublicStatusService_Incidents(t *testing.T) {
	ctx := context.Background()
	org := &domain.Organization{ID: uuid.New(), Name: "Acme Corp", Slug: "acme-corp"}

	t.Run("splits active and recently resolved", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockServices := mocks.NewMockServiceRepository()
		mockIncidents := mocks.NewMockIncidentRepository()
		mockMaint := mocks.NewMockMaintenanceRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mockServices, mockIncidents, mockMaint, mockCache)

		mockOrgs.On("GetBySlug", ctx, "acme-corp").Return(org, nil)
		mockCache.On("Get", org.ID, "incidents").Return(nil, false)
		mockIncidents.On("ListActiveByOrg", ctx, org.ID).
			Return([]*domain.Incident{{Status: domain.IncidentInvestigating}}, nil)
		mockIncidents.On("ListResolvedSince", ctx, org.ID, mock.AnythingOfType("time.Time"), 20).
			Return([]*domain.Incident{{Status: domain.IncidentResolved}}, nil)
		mockCache.On("Set", org.ID, "incidents", mock.Anything).Return()

		view, err := svc.Incidents(ctx, "acme-corp")

		require.NoError(t, err)
		assert.Len(t, view.Active, 1)
		assert.Len(t, view.Recent, 1)
	})
}

func TestPublicStatusService_ResolveSlug(t *testing.T) {
	ctx := context.Background()
	org := &domain.Organization{ID: uuid.New(), Slug: "acme-corp"}

	t.Run("resolves slug to org id", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mocks.NewMockServiceRepository(), mocks.NewMockIncidentRepository(), mocks.NewMockMaintenanceRepository(), mockCache)

		mockOrgs.On("GetBySlug", ctx, "acme-corp").Return(org, nil)

		id, err := svc.ResolveSlug(ctx, "acme-corp")

		require.NoError(t, err)
		assert.Equal(t, org.ID, id)
	})

	t.Run("unknown slug propagates not found", func(t *testing.T) {
		mockOrgs := mocks.NewMockOrganizationRepository()
		mockCache := mocks.NewMockStatusCache()

		svc := newPublicService(mockOrgs, mocks.NewMockServiceRepository(), mocks.NewMockIncidentRepository(), mocks.NewMockMaintenanceRepository(), mockCache)

		mockOrgs.On("GetBySlug", ctx, "ghost").Return(nil, apperrors.ErrOrgNotFound)

		id, err := svc.ResolveSlug(ctx, "ghost")

		assert.Equal(t, uuid.Nil, id)
		assert.ErrorIs(t, err, apperrors.ErrOrgNotFound)
	})
}

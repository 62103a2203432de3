package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// Cache view keys for the public pages.
const (
	viewStatus      = "status"
	viewIncidents   = "incidents"
	viewMaintenance = "maintenance"
)

// recentResolvedWindow bounds how far back the public incident history
// reaches, and recentResolvedLimit caps its length.
const (
	recentResolvedWindow = 14 * 24 * time.Hour
	recentResolvedLimit  = 20
)

// PublicStatusService serves the unauthenticated status pages, keyed by
// the organization's public slug. Rendered views are cached per tenant;
// every mutation on the tenant invalidates its entries, so the cache can
// never outlive the data it was rendered from.
type PublicStatusService struct {
	orgRepo         ports.OrganizationRepository
	serviceRepo     ports.ServiceRepository
	incidentRepo    ports.IncidentRepository
	maintenanceRepo ports.MaintenanceRepository
	cache           ports.StatusCache
}

var (
	_ ports.PublicStatusService = (*PublicStatusService)(nil)
	_ ports.TenantDirectory     = (*PublicStatusService)(nil)
)

// NewPublicStatusService creates a new public status service
func NewPublicStatusService(
	orgRepo ports.OrganizationRepository,
	serviceRepo ports.ServiceRepository,
	incidentRepo ports.IncidentRepository,
	maintenanceRepo ports.MaintenanceRepository,
	cache ports.StatusCache,
) *PublicStatusService {
	return &PublicStatusService{
		orgRepo:         orgRepo,
		serviceRepo:     serviceRepo,
		incidentRepo:    incidentRepo,
		maintenanceRepo: maintenanceRepo,
		cache:           cache,
	}
}

// ResolveSlug maps a public slug to the owning organization's id. This is
// what the websocket layer calls when a join request carries a slug.
func (s *PublicStatusService) ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	org, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return uuid.Nil, err
	}
	return org.ID, nil
}

// Status returns the public status page: the organization, the worst
// status across its services, and the services themselves.
func (s *PublicStatusService) Status(ctx context.Context, slug string) (*domain.PublicStatusView, error) {
	org, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(org.ID, viewStatus); ok {
		return cached.(*domain.PublicStatusView), nil
	}

	services, err := s.serviceRepo.ListByOrg(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	view := &domain.PublicStatusView{
		Organization: domain.OrgSummary{
			ID:   org.ID,
			Name: org.Name,
			Slug: org.Slug,
		},
		OverallStatus: domain.OverallStatus(services),
		Services:      services,
	}

	s.cache.Set(org.ID, viewStatus, view)
	return view, nil
}

// Incidents returns the public incident feed: everything unresolved plus
// recently resolved history.
func (s *PublicStatusService) Incidents(ctx context.Context, slug string) (*domain.PublicIncidentsView, error) {
	org, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(org.ID, viewIncidents); ok {
		return cached.(*domain.PublicIncidentsView), nil
	}

	active, err := s.incidentRepo.ListActiveByOrg(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().Add(-recentResolvedWindow)
	recent, err := s.incidentRepo.ListResolvedSince(ctx, org.ID, since, recentResolvedLimit)
	if err != nil {
		return nil, err
	}

	view := &domain.PublicIncidentsView{
		Active: active,
		Recent: recent,
	}

	s.cache.Set(org.ID, viewIncidents, view)
	return view, nil
}

// Maintenance returns the public list of upcoming and in-progress windows.
func (s *PublicStatusService) Maintenance(ctx context.Context, slug string) ([]*domain.Maintenance, error) {
	org, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(org.ID, viewMaintenance); ok {
		return cached.([]*domain.Maintenance), nil
	}

	windows, err := s.maintenanceRepo.ListUpcomingByOrg(ctx, org.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.cache.Set(org.ID, viewMaintenance, windows)
	return windows, nil
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
)

// MaxServiceNameLength is the longest accepted service name.
const MaxServiceNameLength = 255

// ServiceStatus is the health of one monitored service.
type ServiceStatus string

const (
	StatusOperational   ServiceStatus = "operational"
	StatusDegraded      ServiceStatus = "degraded"
	StatusPartialOutage ServiceStatus = "partial_outage"
	StatusMajorOutage   ServiceStatus = "major_outage"
)

// ValidServiceStatus reports whether the status is one of the known values.
func ValidServiceStatus(s ServiceStatus) bool {
	switch s {
	case StatusOperational, StatusDegraded, StatusPartialOutage, StatusMajorOutage:
		return true
	}
	return false
}

// severity orders service statuses from healthy to worst. Used to compute
// the overall status of a public page.
var severity = map[ServiceStatus]int{
	StatusOperational:   0,
	StatusDegraded:      1,
	StatusPartialOutage: 2,
	StatusMajorOutage:   3,
}

// OverallStatus returns the worst status among the given services, or
// operational when there are none.
func OverallStatus(services []*Service) ServiceStatus {
	overall := StatusOperational
	for _, svc := range services {
		if severity[svc.Status] > severity[overall] {
			overall = svc.Status
		}
	}
	return overall
}

// Service is one entry on an organization's status page.
type Service struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    string
	Status         ServiceStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewService creates a valid service in the operational state.
func NewService(orgID uuid.UUID, name, description string) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrServiceNameRequired
	}

	now := time.Now().UTC()
	return &Service{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		Description:    description,
		Status:         StatusOperational,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SetStatus changes the service status. Any transition between known
// statuses is allowed; outages can appear and clear in any order.
func (s *Service) SetStatus(status ServiceStatus) error {
	if !ValidServiceStatus(status) {
		return apperrors.ErrInvalidServiceStatus
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
)

// IncidentStatus tracks an incident through its lifecycle.
type IncidentStatus string

const (
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentIdentified    IncidentStatus = "identified"
	IncidentMonitoring    IncidentStatus = "monitoring"
	IncidentResolved      IncidentStatus = "resolved"
)

// ValidIncidentStatus reports whether the status is one of the known values.
func ValidIncidentStatus(s IncidentStatus) bool {
	switch s {
	case IncidentInvestigating, IncidentIdentified, IncidentMonitoring, IncidentResolved:
		return true
	}
	return false
}

// Incident is a declared disruption against one service.
type Incident struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	Title       string
	Description string
	Status      IncidentStatus
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// ServiceName is denormalized for public views and event payloads.
	ServiceName string
	Updates     []*IncidentUpdate
}

// IncidentUpdate is one timeline entry on an incident.
type IncidentUpdate struct {
	ID         uuid.UUID
	IncidentID uuid.UUID
	Message    string
	Status     IncidentStatus
	CreatedAt  time.Time
}

// NewIncident creates a valid incident. Status defaults to investigating
// when empty.
func NewIncident(serviceID uuid.UUID, title, description string, status IncidentStatus) (*Incident, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if status == "" {
		status = IncidentInvestigating
	}
	if !ValidIncidentStatus(status) {
		return nil, apperrors.ErrInvalidIncidentStatus
	}

	now := time.Now().UTC()
	return &Incident{
		ID:          uuid.New(),
		ServiceID:   serviceID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetStatus moves the incident to a new status, stamping resolved_at when
// it reaches resolved. Reopening clears the resolution timestamp.
func (i *Incident) SetStatus(status IncidentStatus) error {
	if !ValidIncidentStatus(status) {
		return apperrors.ErrInvalidIncidentStatus
	}

	now := time.Now().UTC()
	i.Status = status
	i.UpdatedAt = now
	if status == IncidentResolved {
		i.ResolvedAt = &now
	} else {
		i.ResolvedAt = nil
	}
	return nil
}

// NewIncidentUpdate creates a timeline entry for the incident.
func NewIncidentUpdate(incidentID uuid.UUID, message string, status IncidentStatus) (*IncidentUpdate, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.ErrUpdateMessageRequired
	}
	if !ValidIncidentStatus(status) {
		return nil, apperrors.ErrInvalidIncidentStatus
	}

	return &IncidentUpdate{
		ID:         uuid.New(),
		IncidentID: incidentID,
		Message:    message,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/calliko/statuspage-backend/internal/core/errors"
)

// MaintenanceStatus tracks a maintenance window through its lifecycle.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// ValidMaintenanceStatus reports whether the status is one of the known values.
func ValidMaintenanceStatus(s MaintenanceStatus) bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

// Maintenance is a planned window of work against one service.
type Maintenance struct {
	ID             uuid.UUID
	ServiceID      uuid.UUID
	Title          string
	Description    string
	Status         MaintenanceStatus
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// ServiceName is denormalized for public views and event payloads.
	ServiceName string
}

// NewMaintenance creates a valid scheduled maintenance window.
func NewMaintenance(serviceID uuid.UUID, title, description string, start, end time.Time) (*Maintenance, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.ErrScheduleRequired
	}
	if !end.After(start) {
		return nil, apperrors.ErrScheduleInverted
	}

	now := time.Now().UTC()
	return &Maintenance{
		ID:             uuid.New(),
		ServiceID:      serviceID,
		Title:          title,
		Description:    description,
		Status:         MaintenanceScheduled,
		ScheduledStart: start.UTC(),
		ScheduledEnd:   end.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SetStatus moves the window to a new status.
func (m *Maintenance) SetStatus(status MaintenanceStatus) error {
	if !ValidMaintenanceStatus(status) {
		return apperrors.ErrInvalidMaintenanceStatus
	}
	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Reschedule moves the window's planned start and end.
func (m *Maintenance) Reschedule(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.ErrScheduleInverted
	}
	m.ScheduledStart = start.UTC()
	m.ScheduledEnd = end.UTC()
	m.UpdatedAt = time.Now().UTC()
	return nil
}

package domain

import "github.com/google/uuid"

// EventKind names a real-time notification sent over the websocket.
type EventKind string

const (
	EventServiceCreated       EventKind = "service:created"
	EventServiceUpdated       EventKind = "service:updated"
	EventServiceStatusChanged EventKind = "service:status_changed"
	EventServiceDeleted       EventKind = "service:deleted"

	EventIncidentCreated  EventKind = "incident:created"
	EventIncidentUpdated  EventKind = "incident:updated"
	EventIncidentResolved EventKind = "incident:resolved"

	EventMaintenanceCreated EventKind = "maintenance:created"
	EventMaintenanceUpdated EventKind = "maintenance:updated"
	EventMaintenanceDeleted EventKind = "maintenance:deleted"
)

// Event is a tenant-scoped notification of a persisted state change. It is
// delivered best-effort to the organization's room, never persisted or
// replayed; clients treat it as an invalidation hint, not a data source.
type Event struct {
	Kind    EventKind   `json:"type"`
	Payload interface{} `json:"payload"`

	// OrgID routes the event to the owning tenant's room. It is never
	// serialized to clients; the room membership already scopes delivery.
	OrgID uuid.UUID `json:"-"`
}

package domain

// StatusChangePayload is the body of a service:status_changed event.
type StatusChangePayload struct {
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	OldStatus   string `json:"oldStatus"`
	NewStatus   string `json:"newStatus"`
}

// ServiceDeletedPayload is the body of a service:deleted event.
type ServiceDeletedPayload struct {
	ServiceID string `json:"serviceId"`
}

// MaintenanceDeletedPayload is the body of a maintenance:deleted event.
type MaintenanceDeletedPayload struct {
	MaintenanceID string `json:"maintenanceId"`
}

// NewStatusChangePayload builds the status_changed payload from the service
// and its previous status.
func NewStatusChangePayload(svc *Service, oldStatus ServiceStatus) StatusChangePayload {
	return StatusChangePayload{
		ServiceID:   svc.ID.String(),
		ServiceName: svc.Name,
		OldStatus:   string(oldStatus),
		NewStatus:   string(svc.Status),
	}
}

package http

import (
	"time"

	"github.com/calliko/statuspage-backend/internal/core/domain"
)

// UserDTO is the wire representation of a user.
type UserDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func toUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:       user.ID.String(),
		FullName: user.FullName,
		Email:    user.Email,
	}
}

// OrganizationDTO is the wire representation of an organization.
type OrganizationDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toOrganizationDTO(org *domain.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:   org.ID.String(),
		Name: org.Name,
		Slug: org.Slug,
	}
}

// ServiceDTO is the wire representation of a catalog service.
type ServiceDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toServiceDTO(svc *domain.Service) ServiceDTO {
	return ServiceDTO{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		Status:      string(svc.Status),
		CreatedAt:   svc.CreatedAt,
		UpdatedAt:   svc.UpdatedAt,
	}
}

func toServiceDTOs(services []*domain.Service) []ServiceDTO {
	dtos := make([]ServiceDTO, 0, len(services))
	for _, svc := range services {
		dtos = append(dtos, toServiceDTO(svc))
	}
	return dtos
}

// IncidentUpdateDTO is one timeline entry on an incident.
type IncidentUpdateDTO struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// IncidentDTO is the wire representation of an incident.
type IncidentDTO struct {
	ID          string              `json:"id"`
	ServiceID   string              `json:"serviceId"`
	ServiceName string              `json:"serviceName,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	ResolvedAt  *time.Time          `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Updates     []IncidentUpdateDTO `json:"updates,omitempty"`
}

func toIncidentDTO(incident *domain.Incident) IncidentDTO {
	dto := IncidentDTO{
		ID:          incident.ID.String(),
		ServiceID:   incident.ServiceID.String(),
		ServiceName: incident.ServiceName,
		Title:       incident.Title,
		Description: incident.Description,
		Status:      string(incident.Status),
		ResolvedAt:  incident.ResolvedAt,
		CreatedAt:   incident.CreatedAt,
		UpdatedAt:   incident.UpdatedAt,
	}
	for _, update := range incident.Updates {
		dto.Updates = append(dto.Updates, IncidentUpdateDTO{
			ID:        update.ID.String(),
			Message:   update.Message,
			Status:    string(update.Status),
			CreatedAt: update.CreatedAt,
		})
	}
	return dto
}

func toIncidentDTOs(incidents []*domain.Incident) []IncidentDTO {
	dtos := make([]IncidentDTO, 0, len(incidents))
	for _, incident := range incidents {
		dtos = append(dtos, toIncidentDTO(incident))
	}
	return dtos
}

// MaintenanceDTO is the wire representation of a maintenance window.
type MaintenanceDTO struct {
	ID             string    `json:"id"`
	ServiceID      string    `json:"serviceId"`
	ServiceName    string    `json:"serviceName,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toMaintenanceDTO(m *domain.Maintenance) MaintenanceDTO {
	return MaintenanceDTO{
		ID:             m.ID.String(),
		ServiceID:      m.ServiceID.String(),
		ServiceName:    m.ServiceName,
		Title:          m.Title,
		Description:    m.Description,
		Status:         string(m.Status),
		ScheduledStart: m.ScheduledStart,
		ScheduledEnd:   m.ScheduledEnd,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toMaintenanceDTOs(windows []*domain.Maintenance) []MaintenanceDTO {
	dtos := make([]MaintenanceDTO, 0, len(windows))
	for _, m := range windows {
		dtos = append(dtos, toMaintenanceDTO(m))
	}
	return dtos
}

// MemberDTO is the wire representation of an org member. ID is the
// membership, not the user; role changes and removals address it.
type MemberDTO struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	TeamName string    `json:"teamName"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

func toMemberDTO(m *domain.OrgMember) MemberDTO {
	return MemberDTO{
		ID:       m.MemberID.String(),
		UserID:   m.UserID.String(),
		FullName: m.FullName,
		Email:    m.Email,
		TeamName: m.TeamName,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func toMemberDTOs(members []*domain.OrgMember) []MemberDTO {
	dtos := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, toMemberDTO(m))
	}
	return dtos
}

// InviteDTO is the wire representation of a pending invite. The token is
// never exposed through listings; it only travels in the invite email.
type InviteDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toInviteDTO(invite *domain.Invite) InviteDTO {
	return InviteDTO{
		ID:        invite.ID.String(),
		Email:     invite.Email,
		Role:      string(invite.Role),
		CreatedAt: invite.CreatedAt,
		ExpiresAt: invite.ExpiresAt,
	}
}

func toInviteDTOs(invites []*domain.Invite) []InviteDTO {
	dtos := make([]InviteDTO, 0, len(invites))
	for _, invite := range invites {
		dtos = append(dtos, toInviteDTO(invite))
	}
	return dtos
}

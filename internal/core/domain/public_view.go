package domain

import "github.com/google/uuid"

// OrgSummary is the public identity of an organization.
type OrgSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// PublicStatusView is the headline of a public status page: the tenant,
// the worst status across its services, and the services themselves.
type PublicStatusView struct {
	Organization  OrgSummary    `json:"organization"`
	OverallStatus ServiceStatus `json:"overallStatus"`
	Services      []*Service    `json:"services"`
}

// PublicIncidentsView splits incidents the way the public page renders
// them: everything unresolved, plus recently resolved history.
type PublicIncidentsView struct {
	Active []*Incident `json:"active"`
	Recent []*Incident `json:"recent"`
}

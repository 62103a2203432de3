package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicHandler_StatusPage(t *testing.T) {
	env := newTestEnv(t)

	admin := env.signup(t, "Page Owner", uniqueEmail("pub-admin"), uniqueOrgName("Public"))
	slug := admin.Organization.Slug

	rec := env.doJSON(t, http.MethodPost, "/api/v1/services", admin.Token, CreateServiceRequest{
		Name: "Website",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	website := decodeBody[ServiceDTO](t, rec)

	rec = env.doJSON(t, http.MethodPost, "/api/v1/services", admin.Token, CreateServiceRequest{
		Name: "API",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	api := decodeBody[ServiceDTO](t, rec)

	t.Run("all operational", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodGet, "/api/v1/public/"+slug+"/status", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		page := decodeBody[PublicStatusResponse](t, rec)
		assert.Equal(t, slug, page.Organization.Slug)
		assert.Equal(t, "operational", page.OverallStatus)
		assert.Len(t, page.Services, 2)
	})

	t.Run("overall status reflects the worst service", func(t *testing.T) {
		status := "degraded"
		rec := env.doJSON(t, http.MethodPatch, "/api/v1/services/"+api.ID, admin.Token, UpdateServiceRequest{
			Status: &status,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = env.doJSON(t, http.MethodGet, "/api/v1/public/"+slug+"/status", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "degraded", decodeBody[PublicStatusResponse](t, rec).OverallStatus)
	})

	t.Run("active and resolved incidents are split", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/api/v1/incidents", admin.Token, CreateIncidentRequest{
			ServiceID: website.ID,
			Title:     "Slow page loads",
			Status:    "investigating",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		active := decodeBody[IncidentDTO](t, rec)

		rec = env.doJSON(t, http.MethodPost, "/api/v1/incidents", admin.Token, CreateIncidentRequest{
			ServiceID: website.ID,
			Title:     "Brief outage",
			Status:    "identified",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		toResolve := decodeBody[IncidentDTO](t, rec)

		rec = env.doJSON(t, http.MethodPatch, "/api/v1/incidents/"+toResolve.ID+"/resolve", admin.Token, ResolveRequest{})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = env.doJSON(t, http.MethodGet, "/api/v1/public/"+slug+"/incidents", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		page := decodeBody[PublicIncidentsResponse](t, rec)
		require.Len(t, page.Active, 1)
		assert.Equal(t, active.ID, page.Active[0].ID)
		require.Len(t, page.Recent, 1)
		assert.Equal(t, toResolve.ID, page.Recent[0].ID)
	})

	t.Run("upcoming maintenance is listed", func(t *testing.T) {
		start := time.Now().Add(48 * time.Hour)
		rec := env.doJSON(t, http.MethodPost, "/api/v1/maintenance", admin.Token, CreateMaintenanceRequest{
			ServiceID:      api.ID,
			Title:          "Planned failover drill",
			ScheduledStart: start,
			ScheduledEnd:   start.Add(time.Hour),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = env.doJSON(t, http.MethodGet, "/api/v1/public/"+slug+"/maintenance", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		windows := decodeBody[ListResponse[MaintenanceDTO]](t, rec)
		require.Equal(t, 1, windows.Count)
		assert.Equal(t, "Planned failover drill", windows.Data[0].Title)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodGet, "/api/v1/public/not-a-tenant/status", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// Package httpapi exposes the authentication and tenant CRUD operations as
// a thin JSON API. Handlers do no business logic of their own: each one runs
// token validation, identity resolution, and tenant resolution, then hands
// the organization ID to the scoped repository.
package httpapi

import (
	"net/http"

	"github.com/oncallhq/tenantd/internal/auth"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/tenant"
)

// API wires the application services to HTTP routes.
type API struct {
	auth     *auth.Service
	tenants  *auth.TenantResolver
	projects *tenant.Scoped[*models.Project, models.ProjectPatch]
	version  string
}

// New creates the API.
func New(authSvc *auth.Service, tenants *auth.TenantResolver, projects *tenant.Scoped[*models.Project, models.ProjectPatch], version string) *API {
	return &API{
		auth:     authSvc,
		tenants:  tenants,
		projects: projects,
		version:  version,
	}
}

// Routes returns the route table. CORS and request middleware are applied
// by the caller around the returned handler.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", a.handleHealth)

	mux.HandleFunc("POST /api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/session", a.handleSession)

	mux.HandleFunc("GET /api/v1/projects", a.handleListProjects)
	mux.HandleFunc("POST /api/v1/projects", a.handleCreateProject)
	mux.HandleFunc("GET /api/v1/projects/{id}", a.handleGetProject)
	mux.HandleFunc("PATCH /api/v1/projects/{id}", a.handleUpdateProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", a.handleDeleteProject)

	return mux
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": a.version,
	})
}

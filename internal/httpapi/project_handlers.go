package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/tenant"
)

type createProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type updateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// orgContext runs the request through the full chain: bearer token,
// identity resolution, active check, tenant resolution. Every project
// handler starts here; the returned org ID is the only scoping input the
// repository ever sees.
func (a *API) orgContext(r *http.Request) (uuid.UUID, error) {
	token, err := bearerToken(r)
	if err != nil {
		return uuid.Nil, err
	}

	user, err := a.auth.ValidateSession(r.Context(), token)
	if err != nil {
		return uuid.Nil, err
	}

	return a.tenants.OrganizationFor(r.Context(), user.UserID)
}

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	orgID, err := a.orgContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	projects, err := a.projects.List(r.Context(), orgID, offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newProjectViews(projects))
}

func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	orgID, err := a.orgContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	project, err := a.projects.Get(r.Context(), id, orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newProjectView(project))
}

func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	orgID, err := a.orgContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	// The payload carries no org ID; ownership comes exclusively from the
	// resolved tenant context.
	project, err := a.projects.Create(r.Context(), orgID, &models.Project{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newProjectView(project))
}

func (a *API) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	orgID, err := a.orgContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	project, err := a.projects.Update(r.Context(), id, orgID, models.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newProjectView(project))
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	orgID, err := a.orgContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := a.projects.Remove(r.Context(), id, orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

// pathID parses the {id} path segment. An unparseable ID behaves as not
// found rather than a validation error: record IDs are opaque.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id", tenant.ErrRecordNotFound)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

package httpapi

import (
	"time"

	"github.com/oncallhq/tenantd/internal/models"
)

// userView is the outward-facing shape of a user. The password digest never
// appears here.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:        u.UserID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

type projectView struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProjectView(p *models.Project) projectView {
	return projectView{
		ID:          p.ProjectID.String(),
		OrgID:       p.OrgID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newProjectViews(projects []*models.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p))
	}
	return views
}

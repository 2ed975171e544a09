package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oncallhq/tenantd/internal/models"
)

// projectTable maps models.Project onto the projects table.
var projectTable = TableDef[*models.Project, models.ProjectPatch]{
	Table:     "projects",
	IDColumn:  "project_id",
	OrgColumn: "org_id",
	Columns: []string{
		"project_id", "org_id", "name", "description",
		"created_at", "updated_at",
	},
	Scan: func(row pgx.Row) (*models.Project, error) {
		var p models.Project
		err := row.Scan(
			&p.ProjectID,
			&p.OrgID,
			&p.Name,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &p, nil
	},
	InsertValues: func(p *models.Project) map[string]any {
		return map[string]any{
			"project_id":  p.ProjectID,
			"org_id":      p.OrgID,
			"name":        p.Name,
			"description": p.Description,
			"created_at":  p.CreatedAt,
			"updated_at":  p.CreatedAt,
		}
	},
	PatchValues: func(patch models.ProjectPatch) map[string]any {
		values := map[string]any{}
		if patch.Name != nil {
			values["name"] = *patch.Name
		}
		if patch.Description != nil {
			values["description"] = *patch.Description
		}
		return values
	},
}

// NewProjectStore creates a PostgreSQL-backed project store.
// It shares the connection pool with other stores.
func NewProjectStore(pool *pgxpool.Pool) *RecordStore[*models.Project, models.ProjectPatch] {
	return NewRecordStore(pool, projectTable)
}

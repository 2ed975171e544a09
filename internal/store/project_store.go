package store

import (
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/tenant"
)

// ProjectStore is the tenant store binding for the project record kind.
// Implementations must enforce the id AND org_id filter on every read and
// write statement; see tenant.Store for the contract.
type ProjectStore = tenant.Store[*models.Project, models.ProjectPatch]

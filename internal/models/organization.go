package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Every tenant-owned row
// belongs to exactly one organization; the org ID is the isolation boundary
// for all scoped reads and writes.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

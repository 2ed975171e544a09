package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a tenant-owned record. The OrgID is stamped server-side at
// creation and is immutable afterwards; it is never taken from the caller.
type Project struct {
	ProjectID   uuid.UUID // UUIDv7
	OrgID       uuid.UUID // FK to organizations, immutable
	Name        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordID implements tenant.Record.
func (p *Project) RecordID() uuid.UUID { return p.ProjectID }

// RecordOrgID implements tenant.Record.
func (p *Project) RecordOrgID() uuid.UUID { return p.OrgID }

// SetRecordID implements tenant.Record.
func (p *Project) SetRecordID(id uuid.UUID) { p.ProjectID = id }

// SetRecordOrgID implements tenant.Record.
func (p *Project) SetRecordOrgID(orgID uuid.UUID) { p.OrgID = orgID }

// SetCreatedAt implements tenant.Record.
func (p *Project) SetCreatedAt(t time.Time) { p.CreatedAt = t }

// ProjectPatch is a partial update for a project. Nil fields are left
// untouched. The organization ID is deliberately absent: ownership is
// immutable after creation.
type ProjectPatch struct {
	Name        *string
	Description *string
}

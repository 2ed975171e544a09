package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership links a user to an organization. A user may belong to several
// organizations; the earliest-created membership is treated as the primary
// one when a single organization context is needed.
type Membership struct {
	UserID    uuid.UUID
	OrgID     uuid.UUID
	CreatedAt time.Time
}

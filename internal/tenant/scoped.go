// Package tenant provides the organization-scoping layer for tenant-owned
// records. Every operation takes the caller's organization ID explicitly;
// nothing in this package infers it. A record that exists under a different
// organization is indistinguishable from a record that does not exist.
package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Errors
var (
	ErrRecordNotFound = errors.New("record not found")
)

// DefaultListLimit is the page size used when the caller does not supply one.
const DefaultListLimit = 100

// Record is the constraint for tenant-owned record kinds. A record carries
// its own ID and the ID of the organization that owns it.
type Record interface {
	RecordID() uuid.UUID
	RecordOrgID() uuid.UUID
	SetRecordID(uuid.UUID)
	SetRecordOrgID(uuid.UUID)
	SetCreatedAt(time.Time)
}

// Store is the persistence collaborator for a single record kind. Every
// method that touches an existing row filters by both record ID and
// organization ID; implementations must apply the organization filter on the
// write statement itself, not as a separate pre-check.
type Store[T Record, P any] interface {
	// FindFirst returns the record matching id AND orgID, or ErrRecordNotFound.
	FindFirst(ctx context.Context, id, orgID uuid.UUID) (T, error)

	// FindMany returns records belonging to orgID ordered by creation time
	// descending, honouring offset and limit.
	FindMany(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]T, error)

	// Insert persists a new record. The record arrives fully stamped.
	Insert(ctx context.Context, rec T) error

	// UpdateWhere applies patch to the row matching id AND orgID in a single
	// filtered statement and returns the updated record, or ErrRecordNotFound
	// when no row matched.
	UpdateWhere(ctx context.Context, id, orgID uuid.UUID, patch P) (T, error)

	// DeleteWhere deletes the row matching id AND orgID and returns the
	// number of rows removed (0 or 1). A miss is not an error.
	DeleteWhere(ctx context.Context, id, orgID uuid.UUID) (int64, error)
}

// Scoped is a generic repository that guarantees organization scoping for a
// record kind. It owns the guardian semantics (server-side org stamping,
// pagination defaults, not-found unification) and delegates storage to a
// Store implementation.
type Scoped[T Record, P any] struct {
	store Store[T, P]
}

// NewScoped creates a scoped repository over the given store.
func NewScoped[T Record, P any](store Store[T, P]) *Scoped[T, P] {
	return &Scoped[T, P]{store: store}
}

// Get fetches a single record strictly scoped to the organization.
func (s *Scoped[T, P]) Get(ctx context.Context, id, orgID uuid.UUID) (T, error) {
	return s.store.FindFirst(ctx, id, orgID)
}

// List returns one page of the organization's records, newest first.
// A non-positive limit falls back to DefaultListLimit; a negative offset is
// treated as zero. Each call produces a finite page; the caller drives
// further pages via offset.
func (s *Scoped[T, P]) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]T, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.FindMany(ctx, orgID, offset, limit)
}

// Create persists a new record owned by orgID. The organization ID is always
// stamped here, overriding anything the caller put on the record, and a fresh
// ID and creation timestamp are assigned.
func (s *Scoped[T, P]) Create(ctx context.Context, orgID uuid.UUID, rec T) (T, error) {
	id, err := uuid.NewV7()
	if err != nil {
		var zero T
		return zero, err
	}

	rec.SetRecordID(id)
	rec.SetRecordOrgID(orgID)
	rec.SetCreatedAt(time.Now())

	if err := s.store.Insert(ctx, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Update applies a partial patch to the record matching id AND orgID. The
// organization filter rides on the update statement itself, so a caller
// holding another tenant's record ID gets ErrRecordNotFound and the row is
// untouched.
func (s *Scoped[T, P]) Update(ctx context.Context, id, orgID uuid.UUID, patch P) (T, error) {
	return s.store.UpdateWhere(ctx, id, orgID, patch)
}

// Remove deletes the record matching id AND orgID. It returns the number of
// rows removed: 0 for a miss (including the wrong-org case), 1 for a delete.
func (s *Scoped[T, P]) Remove(ctx context.Context, id, orgID uuid.UUID) (int64, error) {
	return s.store.DeleteWhere(ctx, id, orgID)
}

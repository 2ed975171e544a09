package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/tenant"
)

// ProjectStore is an in-memory implementation of store.ProjectStore. It
// mirrors the scoping contract of the postgres store: every lookup and write
// matches on both record ID and organization ID.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*models.Project
}

// NewProjectStore creates a new in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		projects: make(map[uuid.UUID]*models.Project),
	}
}

// FindFirst returns the project matching id AND orgID.
func (s *ProjectStore) FindFirst(ctx context.Context, id, orgID uuid.UUID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.projects[id]
	if !exists || p.OrgID != orgID {
		return nil, tenant.ErrRecordNotFound
	}

	cp := *p
	return &cp, nil
}

// FindMany returns one page of the organization's projects, newest first.
func (s *ProjectStore) FindMany(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Project
	for _, p := range s.projects {
		if p.OrgID == orgID {
			cp := *p
			matched = append(matched, &cp)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

// Insert persists a new project.
func (s *ProjectStore) Insert(ctx context.Context, rec *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.projects[rec.ProjectID] = &cp
	return nil
}

// UpdateWhere applies the patch to the project matching id AND orgID.
func (s *ProjectStore) UpdateWhere(ctx context.Context, id, orgID uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.projects[id]
	if !exists || p.OrgID != orgID {
		return nil, tenant.ErrRecordNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = time.Now()

	cp := *p
	return &cp, nil
}

// DeleteWhere removes the project matching id AND orgID, returning the
// number of rows removed.
func (s *ProjectStore) DeleteWhere(ctx context.Context, id, orgID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.projects[id]
	if !exists || p.OrgID != orgID {
		return 0, nil
	}

	delete(s.projects, id)
	return 1, nil
}

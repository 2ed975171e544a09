package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
	"github.com/rs/zerolog/log"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{
		pool: pool,
	}
}

// Add creates a membership linking a user to an organization.
func (s *MembershipStore) Add(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO memberships (user_id, org_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query,
		membership.UserID,
		membership.OrgID,
		membership.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMembershipAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user or organization missing", store.ErrMembershipNotFound)
		}
		return fmt.Errorf("failed to add membership: %w", err)
	}

	log.Debug().
		Str("user_id", membership.UserID.String()).
		Str("org_id", membership.OrgID.String()).
		Msg("Added membership")

	return nil
}

// ListByUser returns the user's memberships ordered by creation time
// ascending with org ID as tiebreak, so the first row is the primary
// membership regardless of physical row order.
func (s *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT user_id, org_id, created_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at ASC, org_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.UserID, &m.OrgID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}

// Remove deletes the membership for the given user and organization.
func (s *MembershipStore) Remove(ctx context.Context, userID, orgID uuid.UUID) error {
	query := `
		DELETE FROM memberships
		WHERE user_id = $1 AND org_id = $2
	`

	result, err := s.pool.Exec(ctx, query, userID, orgID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oncallhq/tenantd/internal/tenant"
)

// psql builds queries with PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TableDef describes how a record kind maps onto its table. One descriptor
// per kind is enough to get a fully scoped store; the query shapes are shared.
type TableDef[T tenant.Record, P any] struct {
	// Table is the table name.
	Table string

	// IDColumn is the primary key column.
	IDColumn string

	// OrgColumn is the organization scoping column.
	OrgColumn string

	// Columns is the full select column list, in scan order.
	Columns []string

	// Scan reads one row into a record. Called for both single-row and
	// multi-row queries.
	Scan func(row pgx.Row) (T, error)

	// InsertValues maps a stamped record to its insert columns.
	InsertValues func(rec T) map[string]any

	// PatchValues maps a partial patch to SET clauses. Nil patch fields must
	// be omitted. The org column must never appear here.
	PatchValues func(patch P) map[string]any
}

// RecordStore is a generic PostgreSQL tenant store driven by a TableDef.
// Every statement that touches an existing row carries the id AND org filter
// in its WHERE clause; the scoping is baked into the SQL, not checked after
// the fact.
type RecordStore[T tenant.Record, P any] struct {
	pool *pgxpool.Pool
	def  TableDef[T, P]
}

// NewRecordStore creates a scoped record store for the described table.
// It shares the connection pool with other stores.
func NewRecordStore[T tenant.Record, P any](pool *pgxpool.Pool, def TableDef[T, P]) *RecordStore[T, P] {
	return &RecordStore[T, P]{
		pool: pool,
		def:  def,
	}
}

// FindFirst returns the record matching id AND orgID.
func (s *RecordStore[T, P]) FindFirst(ctx context.Context, id, orgID uuid.UUID) (T, error) {
	var zero T

	query, args, err := psql.Select(s.def.Columns...).
		From(s.def.Table).
		Where(sq.Eq{s.def.IDColumn: id, s.def.OrgColumn: orgID}).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build select: %w", err)
	}

	rec, err := s.def.Scan(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, tenant.ErrRecordNotFound
		}
		return zero, fmt.Errorf("failed to get %s: %w", s.def.Table, err)
	}

	return rec, nil
}

// FindMany returns one page of the organization's records ordered by
// creation time descending, record ID as tiebreak.
func (s *RecordStore[T, P]) FindMany(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]T, error) {
	query, args, err := psql.Select(s.def.Columns...).
		From(s.def.Table).
		Where(sq.Eq{s.def.OrgColumn: orgID}).
		OrderBy("created_at DESC", s.def.IDColumn+" DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.def.Table, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		rec, err := s.def.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.def.Table, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", s.def.Table, err)
	}

	return records, nil
}

// Insert persists a new record. The record arrives fully stamped by the
// scoping layer.
func (s *RecordStore[T, P]) Insert(ctx context.Context, rec T) error {
	values := s.def.InsertValues(rec)

	query, args, err := psql.Insert(s.def.Table).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %s: %w", s.def.Table, err)
	}

	return nil
}

// UpdateWhere applies the patch to the row matching id AND orgID in a single
// filtered UPDATE and returns the updated record. The org filter lives on the
// statement itself, so a write against another tenant's row affects nothing
// and reports ErrRecordNotFound.
func (s *RecordStore[T, P]) UpdateWhere(ctx context.Context, id, orgID uuid.UUID, patch P) (T, error) {
	var zero T

	values := s.def.PatchValues(patch)
	values["updated_at"] = time.Now()

	builder := psql.Update(s.def.Table).
		SetMap(values).
		Where(sq.Eq{s.def.IDColumn: id, s.def.OrgColumn: orgID}).
		Suffix("RETURNING " + strings.Join(s.def.Columns, ", "))

	query, args, err := builder.ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build update: %w", err)
	}

	rec, err := s.def.Scan(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, tenant.ErrRecordNotFound
		}
		return zero, fmt.Errorf("failed to update %s: %w", s.def.Table, err)
	}

	return rec, nil
}

// DeleteWhere removes the row matching id AND orgID and returns the number
// of rows deleted.
func (s *RecordStore[T, P]) DeleteWhere(ctx context.Context, id, orgID uuid.UUID) (int64, error) {
	query, args, err := psql.Delete(s.def.Table).
		Where(sq.Eq{s.def.IDColumn: id, s.def.OrgColumn: orgID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", s.def.Table, err)
	}

	return result.RowsAffected(), nil
}

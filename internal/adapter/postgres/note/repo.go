// Package note implements the Note repository on PostgreSQL.
//
// Notes attach to core entities through the advisory (entity_type,
// entity_id) pair, same as tasks.
package note

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/adapter/postgres"
	"github.com/supercobra/mojo-crm/internal/domain"
)

const table = "notes"

var columns = []string{
	"id", "body", "entity_type", "entity_id",
	"created_at", "updated_at", "created_by", "updated_by",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides note persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new note repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Create inserts a note and returns the full stored row.
func (r *Repo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	query := qb.Insert(table).
		Columns("body", "entity_type", "entity_id", "created_by", "updated_by").
		Values(note.Body, note.EntityType, note.EntityID, note.CreatedBy, note.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note insert: %w", err)
	}

	var row domain.Note
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note")
	}
	return &row, nil
}

// GetByID returns a note by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note select: %w", err)
	}

	var row domain.Note
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note")
	}
	return &row, nil
}

// List returns notes matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	limit, offset := postgres.NormalizeRange(filter.Limit, filter.Offset)

	query := qb.Select(columns...).From(table).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)

	if filter.Entity != nil {
		query = query.Where(squirrel.Eq{
			"entity_type": filter.Entity.Type,
			"entity_id":   filter.Entity.ID,
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note list: %w", err)
	}

	rows := []domain.Note{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note")
	}
	return rows, nil
}

// ListByEntity returns every note attached to the given entity, newest
// first.
func (r *Repo) ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Note, error) {
	return r.List(ctx, domain.NoteFilter{Entity: &ref})
}

// Update applies a partial update. An empty delta is a no-op that returns
// the current row unchanged. The attachment pair is immutable.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.NoteUpdateParams, actor string) (*domain.Note, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	update := qb.Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Set("updated_by", actor).
		Set("body", *params.Body).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note update: %w", err)
	}

	var row domain.Note
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "note")
	}
	return &row, nil
}

// Delete removes a note.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build note delete: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "note")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Package task implements the Task repository on PostgreSQL.
//
// Tasks attach to core entities through the (entity_type, entity_id) pair
// with no foreign key, so deleting the attached entity never touches its
// tasks.
package task

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

const table = "tasks"

var columns = []string{
	"id", "title", "description", "status", "due_date", "assignee",
	"entity_type", "entity_id", "created_at", "updated_at", "created_by", "updated_by",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides task persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new task repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Create inserts a task and returns the full stored row. Status defaults
// to open when unset.
func (r *Repo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	status := task.Status
	if status == "" {
		status = domain.TaskStatusOpen
	}

	query := qb.Insert(table).
		Columns("title", "description", "status", "due_date", "assignee",
			"entity_type", "entity_id", "created_by", "updated_by").
		Values(task.Title, task.Description, status, task.DueDate, task.Assignee,
			task.EntityType, task.EntityID, task.CreatedBy, task.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task insert: %w", err)
	}

	var row domain.Task
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "task")
	}
	return &row, nil
}

// GetByID returns a task by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task select: %w", err)
	}

	var row domain.Task
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "task")
	}
	return &row, nil
}

// List returns tasks matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	limit, offset := postgres.NormalizeRange(filter.Limit, filter.Offset)

	query := qb.Select(columns...).From(table).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)

	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Assignee != nil {
		query = query.Where(squirrel.Eq{"assignee": *filter.Assignee})
	}
	if filter.Entity != nil {
		query = query.Where(squirrel.Eq{
			"entity_type": filter.Entity.Type,
			"entity_id":   filter.Entity.ID,
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task list: %w", err)
	}

	rows := []domain.Task{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "task")
	}
	return rows, nil
}

// ListByEntity returns every task attached to the given entity, newest
// first.
func (r *Repo) ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Task, error) {
	return r.List(ctx, domain.TaskFilter{Entity: &ref})
}

// Update applies a partial update. An empty delta is a no-op that returns
// the current row unchanged. The attachment pair is immutable.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.TaskUpdateParams, actor string) (*domain.Task, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	update := qb.Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Set("updated_by", actor)

	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Description != nil {
		update = update.Set("description", postgres.NullIfEmpty(*params.Description))
	}
	if params.Status != nil {
		update = update.Set("status", *params.Status)
	}
	if params.DueDate != nil {
		update = update.Set("due_date", *params.DueDate)
	}
	if params.Assignee != nil {
		update = update.Set("assignee", postgres.NullIfEmpty(*params.Assignee))
	}

	update = update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task update: %w", err)
	}

	var row domain.Task
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "task")
	}
	return &row, nil
}

// Delete removes a task.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build task delete: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

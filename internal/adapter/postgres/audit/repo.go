// Package audit implements the append-only audit log repository on
// PostgreSQL. The repository exposes no update or delete; history is
// immutable once written.
package audit

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

const table = "audit_logs"

var columns = []string{
	"id", "entity_type", "entity_id", "action", "actor", "changes", "created_at",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Log appends a record. Services call this inside the same transaction as
// the mutation it describes, so the record and the change commit or roll
// back together.
func (r *Repo) Log(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error) {
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}

	query := qb.Insert(table).
		Columns("entity_type", "entity_id", "action", "actor", "changes").
		Values(record.EntityType, record.EntityID, record.Action, record.Actor, changes).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit insert: %w", err)
	}

	var row domain.AuditRecord
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "audit record")
	}
	return &row, nil
}

// List returns audit records matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	limit, offset := postgres.NormalizeRange(filter.Limit, filter.Offset)

	query := qb.Select(columns...).From(table).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)

	if filter.EntityType != nil {
		query = query.Where(squirrel.Eq{"entity_type": *filter.EntityType})
	}
	if filter.EntityID != nil {
		query = query.Where(squirrel.Eq{"entity_id": *filter.EntityID})
	}
	if filter.Actor != nil {
		query = query.Where(squirrel.Eq{"actor": *filter.Actor})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit list: %w", err)
	}

	rows := []domain.AuditRecord{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "audit record")
	}
	return rows, nil
}

// ListByEntity returns the change history of a single entity, newest first.
func (r *Repo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	return r.List(ctx, domain.AuditFilter{
		EntityType: &entityType,
		EntityID:   &entityID,
		Limit:      limit,
		Offset:     offset,
	})
}

// ListByActor returns every change recorded for one actor, newest first.
func (r *Repo) ListByActor(ctx context.Context, actor string, limit, offset int) ([]domain.AuditRecord, error) {
	return r.List(ctx, domain.AuditFilter{
		Actor:  &actor,
		Limit:  limit,
		Offset: offset,
	})
}

// Package company implements the Company repository on PostgreSQL.
package company

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

const table = "companies"

var columns = []string{
	"id", "name", "website", "phone", "custom_fields",
	"created_at", "updated_at", "created_by", "updated_by",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides company persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new company repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Create inserts a company built from the provided fields and returns the
// full stored row. A nil custom-fields mapping defaults to empty.
func (r *Repo) Create(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	customFields := company.CustomFields
	if customFields == nil {
		customFields = map[string]any{}
	}

	query := qb.Insert(table).
		Columns("name", "website", "phone", "custom_fields", "created_by", "updated_by").
		Values(company.Name, company.Website, company.Phone, customFields, company.CreatedBy, company.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company insert: %w", err)
	}

	var row domain.Company
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "company")
	}
	return &row, nil
}

// GetByID returns a company by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company select: %w", err)
	}

	var row domain.Company
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "company")
	}
	return &row, nil
}

// List returns companies matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	limit, offset := postgres.NormalizeRange(filter.Limit, filter.Offset)

	query := qb.Select(columns...).From(table).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)

	if filter.Name != nil {
		query = query.Where(squirrel.ILike{"name": "%" + *filter.Name + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company list: %w", err)
	}

	rows := []domain.Company{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "company")
	}
	return rows, nil
}

// Update applies a partial update. An empty delta is a no-op that returns
// the current row unchanged: no timestamp bump, no audit noise.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.CompanyUpdateParams, actor string) (*domain.Company, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	update := qb.Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Set("updated_by", actor)

	if params.Name != nil {
		update = update.Set("name", *params.Name)
	}
	if params.Website != nil {
		update = update.Set("website", postgres.NullIfEmpty(*params.Website))
	}
	if params.Phone != nil {
		update = update.Set("phone", postgres.NullIfEmpty(*params.Phone))
	}
	if params.CustomFields != nil {
		update = update.Set("custom_fields", params.CustomFields)
	}

	update = update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company update: %w", err)
	}

	var row domain.Company
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "company")
	}
	return &row, nil
}

// Delete removes a company. Cascades (deals deleted, contact references
// nulled) are enforced by the store's foreign-key rules, not here.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build company delete: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "company")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

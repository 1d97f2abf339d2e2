// Package deal implements the Deal repository on PostgreSQL.
package deal

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

const table = "deals"

var columns = []string{
	"id", "title", "amount", "stage", "probability", "company_id", "contact_id",
	"close_date", "custom_fields", "created_at", "updated_at", "created_by", "updated_by",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides deal persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new deal repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Create inserts a deal built from the provided fields and returns the full
// stored row. A nil custom-fields mapping defaults to empty. The store's
// check constraint backs the probability range regardless of upstream
// validation.
func (r *Repo) Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	customFields := deal.CustomFields
	if customFields == nil {
		customFields = map[string]any{}
	}

	query := qb.Insert(table).
		Columns("title", "amount", "stage", "probability", "company_id", "contact_id",
			"close_date", "custom_fields", "created_by", "updated_by").
		Values(deal.Title, deal.Amount, deal.Stage, deal.Probability, deal.CompanyID, deal.ContactID,
			deal.CloseDate, customFields, deal.CreatedBy, deal.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deal insert: %w", err)
	}

	var row domain.Deal
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "deal")
	}
	return &row, nil
}

// GetByID returns a deal by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deal select: %w", err)
	}

	var row domain.Deal
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "deal")
	}
	return &row, nil
}

// List returns deals matching the filter, newest first. CompanyID or
// ContactID pointing at uuid.Nil translate to IS NULL predicates.
func (r *Repo) List(ctx context.Context, filter domain.DealFilter) ([]domain.Deal, error) {
	limit, offset := postgres.NormalizeRange(filter.Limit, filter.Offset)

	query := qb.Select(columns...).From(table).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)

	if filter.CompanyID != nil {
		if *filter.CompanyID == uuid.Nil {
			query = query.Where(squirrel.Eq{"company_id": nil})
		} else {
			query = query.Where(squirrel.Eq{"company_id": *filter.CompanyID})
		}
	}
	if filter.ContactID != nil {
		if *filter.ContactID == uuid.Nil {
			query = query.Where(squirrel.Eq{"contact_id": nil})
		} else {
			query = query.Where(squirrel.Eq{"contact_id": *filter.ContactID})
		}
	}
	if filter.Stage != nil {
		query = query.Where(squirrel.Eq{"stage": *filter.Stage})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deal list: %w", err)
	}

	rows := []domain.Deal{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "deal")
	}
	return rows, nil
}

// Update applies a partial update. An empty delta is a no-op that returns
// the current row unchanged.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.DealUpdateParams, actor string) (*domain.Deal, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	update := qb.Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Set("updated_by", actor)

	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Amount != nil {
		update = update.Set("amount", *params.Amount)
	}
	if params.Stage != nil {
		update = update.Set("stage", *params.Stage)
	}
	if params.Probability != nil {
		update = update.Set("probability", *params.Probability)
	}
	if params.CompanyID != nil {
		if *params.CompanyID == uuid.Nil {
			update = update.Set("company_id", nil)
		} else {
			update = update.Set("company_id", *params.CompanyID)
		}
	}
	if params.ContactID != nil {
		if *params.ContactID == uuid.Nil {
			update = update.Set("contact_id", nil)
		} else {
			update = update.Set("contact_id", *params.ContactID)
		}
	}
	if params.CloseDate != nil {
		update = update.Set("close_date", *params.CloseDate)
	}
	if params.CustomFields != nil {
		update = update.Set("custom_fields", params.CustomFields)
	}

	update = update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deal update: %w", err)
	}

	var row domain.Deal
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "deal")
	}
	return &row, nil
}

// Delete removes a deal.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build deal delete: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "deal")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deal %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

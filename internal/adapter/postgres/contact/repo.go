// Package contact implements the Contact repository on PostgreSQL.
package contact

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

const table = "contacts"

var columns = []string{
	"id", "first_name", "last_name", "email", "phone", "company_id",
	"custom_fields", "created_at", "updated_at", "created_by", "updated_by",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides contact persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new contact repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Create inserts a contact built from the provided fields and returns the
// full stored row. A nil custom-fields mapping defaults to empty.
func (r *Repo) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	customFields := contact.CustomFields
	if customFields == nil {
		customFields = map[string]any{}
	}

	query := qb.Insert(table).
		Columns("first_name", "last_name", "email", "phone", "company_id", "custom_fields", "created_by", "updated_by").
		Values(contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.CompanyID,
			customFields, contact.CreatedBy, contact.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact insert: %w", err)
	}

	var row domain.Contact
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "contact")
	}
	return &row, nil
}

// GetByID returns a contact by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact select: %w", err)
	}

	var row domain.Contact
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "contact")
	}
	return &row, nil
}

// List returns contacts matching the filter, newest first. A CompanyID
// filter pointing at uuid.Nil selects contacts with no company (IS NULL);
// a nil pointer means no constraint.
func (r *Repo) List(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
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
	if filter.Email != nil {
		query = query.Where(squirrel.Eq{"email": *filter.Email})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact list: %w", err)
	}

	rows := []domain.Contact{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "contact")
	}
	return rows, nil
}

// Update applies a partial update. An empty delta is a no-op that returns
// the current row unchanged. CompanyID pointing at uuid.Nil detaches the
// contact (NULL).
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.ContactUpdateParams, actor string) (*domain.Contact, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	update := qb.Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Set("updated_by", actor)

	if params.FirstName != nil {
		update = update.Set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		update = update.Set("last_name", *params.LastName)
	}
	if params.Email != nil {
		update = update.Set("email", postgres.NullIfEmpty(*params.Email))
	}
	if params.Phone != nil {
		update = update.Set("phone", postgres.NullIfEmpty(*params.Phone))
	}
	if params.CompanyID != nil {
		if *params.CompanyID == uuid.Nil {
			update = update.Set("company_id", nil)
		} else {
			update = update.Set("company_id", *params.CompanyID)
		}
	}
	if params.CustomFields != nil {
		update = update.Set("custom_fields", params.CustomFields)
	}

	update = update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact update: %w", err)
	}

	var row domain.Contact
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "contact")
	}
	return &row, nil
}

// Delete removes a contact. Deal references are nulled by the store's
// foreign-key rules.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build contact delete: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "contact")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

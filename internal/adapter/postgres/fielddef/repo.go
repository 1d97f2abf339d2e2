// Package fielddef implements the Custom Field Definition repository on
// PostgreSQL.
package fielddef

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

const table = "custom_field_definitions"

var columns = []string{
	"id", "entity_type", "name", "label", "kind", "enum_values",
	"required", "created_at", "created_by",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// entityTables maps an entity type to the table carrying its custom_fields
// column. Used by StripValues when a definition is deleted.
var entityTables = map[domain.EntityType]string{
	domain.EntityTypeCompany: "companies",
	domain.EntityTypeContact: "contacts",
	domain.EntityTypeDeal:    "deals",
}

// Repo provides custom field definition persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new field definition repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Create inserts a definition and returns the full stored row. The
// (entity_type, name) pair is unique; duplicates surface as a
// ConstraintError.
func (r *Repo) Create(ctx context.Context, def *domain.FieldDefinition) (*domain.FieldDefinition, error) {
	query := qb.Insert(table).
		Columns("entity_type", "name", "label", "kind", "enum_values", "required", "created_by").
		Values(def.EntityType, def.Name, def.Label, def.Kind, def.EnumValues, def.Required, def.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build field definition insert: %w", err)
	}

	var row domain.FieldDefinition
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "field definition")
	}
	return &row, nil
}

// GetByID returns a definition by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FieldDefinition, error) {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build field definition select: %w", err)
	}

	var row domain.FieldDefinition
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "field definition")
	}
	return &row, nil
}

// ListByEntityType returns the definition set governing one entity type,
// in name order. The validation layer works against exactly this set.
func (r *Repo) ListByEntityType(ctx context.Context, entityType domain.EntityType) ([]domain.FieldDefinition, error) {
	query := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"entity_type": entityType}).
		OrderBy("name ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build field definition list: %w", err)
	}

	rows := []domain.FieldDefinition{}
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "field definition")
	}
	return rows, nil
}

// Update changes label and/or required flag, the only columns mutable
// after creation. Kind and name stay immutable because changing them would
// invalidate already-stored values. An empty delta is a no-op.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.FieldDefinitionUpdateParams) (*domain.FieldDefinition, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	update := qb.Update(table)
	if params.Label != nil {
		update = update.Set("label", *params.Label)
	}
	if params.Required != nil {
		update = update.Set("required", *params.Required)
	}

	update = update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build field definition update: %w", err)
	}

	var row domain.FieldDefinition
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "field definition")
	}
	return &row, nil
}

// Delete removes a definition.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build field definition delete: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "field definition")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("field definition %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// StripValues removes the named key from the custom_fields mapping of every
// row of the given entity type. Run in the same transaction as Delete so a
// removed definition never leaves orphaned values behind. Returns the
// number of rows touched.
func (r *Repo) StripValues(ctx context.Context, entityType domain.EntityType, name string) (int64, error) {
	target, ok := entityTables[entityType]
	if !ok {
		return 0, domain.NewValidationError("entity_type", "unknown entity type "+string(entityType))
	}

	// The jsonb ? operator collides with placeholder syntax in most query
	// builders, so this statement is written by hand.
	sql := fmt.Sprintf(
		`UPDATE %s SET custom_fields = custom_fields - $1 WHERE custom_fields ? $1`, target)

	tag, err := r.q(ctx).Exec(ctx, sql, name)
	if err != nil {
		return 0, postgres.MapError(err, "field definition")
	}
	return tag.RowsAffected(), nil
}

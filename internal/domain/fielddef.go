package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldDefinition is an administrator-authored description of an additional
// typed field available on one entity type. (entity_type, name) is unique.
// Kind and Name are immutable after creation: changing either would
// invalidate values already stored on entities.
type FieldDefinition struct {
	ID         uuid.UUID  `db:"id"`
	EntityType EntityType `db:"entity_type"`
	Name       string     `db:"name"`
	Label      string     `db:"label"`
	Kind       FieldKind  `db:"kind"`
	EnumValues []string   `db:"enum_values"`
	Required   bool       `db:"required"`
	CreatedAt  time.Time  `db:"created_at"`
	CreatedBy  string     `db:"created_by"`
}

// Snapshot returns the definition as a flat field map for audit payloads.
func (d *FieldDefinition) Snapshot() map[string]any {
	return map[string]any{
		"id":          d.ID.String(),
		"entity_type": string(d.EntityType),
		"name":        d.Name,
		"label":       d.Label,
		"kind":        string(d.Kind),
		"enum_values": d.EnumValues,
		"required":    d.Required,
		"created_at":  d.CreatedAt,
		"created_by":  d.CreatedBy,
	}
}

// FieldDefinitionUpdateParams is the only mutation allowed post-creation:
// label and required flag.
type FieldDefinitionUpdateParams struct {
	Label    *string
	Required *bool
}

// Empty reports whether the update carries no recognized fields.
func (p FieldDefinitionUpdateParams) Empty() bool {
	return p.Label == nil && p.Required == nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is a free-form text record attached to a core entity via the advisory
// (entity_type, entity_id) pair.
type Note struct {
	ID         uuid.UUID  `db:"id"`
	Body       string     `db:"body"`
	EntityType EntityType `db:"entity_type"`
	EntityID   uuid.UUID  `db:"entity_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	CreatedBy  string     `db:"created_by"`
	UpdatedBy  string     `db:"updated_by"`
}

// Attachment returns the owning-entity reference.
func (n *Note) Attachment() AttachmentRef {
	return AttachmentRef{Type: n.EntityType, ID: n.EntityID}
}

// Snapshot returns the note as a flat field map for audit payloads.
func (n *Note) Snapshot() map[string]any {
	return map[string]any{
		"id":          n.ID.String(),
		"body":        n.Body,
		"entity_type": string(n.EntityType),
		"entity_id":   n.EntityID.String(),
		"created_at":  n.CreatedAt,
		"updated_at":  n.UpdatedAt,
		"created_by":  n.CreatedBy,
		"updated_by":  n.UpdatedBy,
	}
}

// NoteUpdateParams is a partial update. The attachment pair is immutable
// after creation.
type NoteUpdateParams struct {
	Body *string
}

// Empty reports whether the update carries no recognized fields.
func (p NoteUpdateParams) Empty() bool { return p.Body == nil }

// NoteFilter narrows note listings. Nil means "no constraint".
type NoteFilter struct {
	Entity *AttachmentRef

	Limit  int
	Offset int
}

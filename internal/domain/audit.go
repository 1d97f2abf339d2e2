package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is an append-only log entry capturing who changed what entity,
// how, and when. Records are never updated or deleted after insertion.
//
// For create and delete the Changes payload is the full entity snapshot; for
// update it is the field-level diff only.
type AuditRecord struct {
	ID         uuid.UUID      `db:"id"`
	EntityType string         `db:"entity_type"`
	EntityID   uuid.UUID      `db:"entity_id"`
	Action     AuditAction    `db:"action"`
	Actor      string         `db:"actor"`
	Changes    map[string]any `db:"changes"`
	CreatedAt  time.Time      `db:"created_at"`
}

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	EntityType *string
	EntityID   *uuid.UUID
	Actor      *string

	Limit  int
	Offset int
}

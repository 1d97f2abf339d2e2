package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is an action item attached to a core entity via the advisory
// (entity_type, entity_id) pair.
type Task struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Status      TaskStatus `db:"status"`
	DueDate     *time.Time `db:"due_date"`
	Assignee    *string    `db:"assignee"`
	EntityType  EntityType `db:"entity_type"`
	EntityID    uuid.UUID  `db:"entity_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	CreatedBy   string     `db:"created_by"`
	UpdatedBy   string     `db:"updated_by"`
}

// Attachment returns the owning-entity reference.
func (t *Task) Attachment() AttachmentRef {
	return AttachmentRef{Type: t.EntityType, ID: t.EntityID}
}

// Snapshot returns the task as a flat field map for audit payloads.
func (t *Task) Snapshot() map[string]any {
	var dueDate any
	if t.DueDate != nil {
		dueDate = t.DueDate.Format("2006-01-02")
	}
	return map[string]any{
		"id":          t.ID.String(),
		"title":       t.Title,
		"description": strPtrValue(t.Description),
		"status":      string(t.Status),
		"due_date":    dueDate,
		"assignee":    strPtrValue(t.Assignee),
		"entity_type": string(t.EntityType),
		"entity_id":   t.EntityID.String(),
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
		"created_by":  t.CreatedBy,
		"updated_by":  t.UpdatedBy,
	}
}

// TaskUpdateParams is a partial update. Nil pointers mean "leave as is".
// The attachment pair is immutable after creation.
type TaskUpdateParams struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
	Assignee    *string
}

// Empty reports whether the update carries no recognized fields.
func (p TaskUpdateParams) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.DueDate == nil && p.Assignee == nil
}

// TaskFilter narrows task listings. Nil means "no constraint".
type TaskFilter struct {
	Status   *TaskStatus
	Assignee *string
	Entity   *AttachmentRef

	Limit  int
	Offset int
}

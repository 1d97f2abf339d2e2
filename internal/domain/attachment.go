package domain

import "github.com/google/uuid"

// AttachmentRef points a task or note at the entity it belongs to.
// The pair is stored as plain (entity_type, entity_id) columns with no
// foreign key, so one table can attach to any entity kind without a schema
// migration. Integrity is advisory: the service layer validates the type
// against the closed enum but never checks the target row exists.
type AttachmentRef struct {
	Type EntityType
	ID   uuid.UUID
}

// Validate rejects unknown entity types and zero identifiers.
func (r AttachmentRef) Validate() error {
	var errs []FieldError
	if !r.Type.IsValid() {
		errs = append(errs, FieldError{Field: "entity_type", Message: "unknown entity type " + string(r.Type)})
	}
	if r.ID == uuid.Nil {
		errs = append(errs, FieldError{Field: "entity_id", Message: "required"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

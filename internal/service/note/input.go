package note

import (
	"errors"
	"strings"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// CreateInput carries the caller-supplied fields for a new note.
type CreateInput struct {
	Body   string
	Entity domain.AttachmentRef
}

// Validate collects every violation before failing.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if err := in.Entity.Validate(); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			errs = append(errs, vErr.Errors...)
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput carries a partial update. The attachment pair is immutable
// after creation.
type UpdateInput struct {
	Body *string
}

// Validate collects every violation before failing.
func (in UpdateInput) Validate() error {
	if in.Body != nil && strings.TrimSpace(*in.Body) == "" {
		return domain.NewValidationError("body", "must not be empty")
	}
	return nil
}

func (in UpdateInput) params() domain.NoteUpdateParams {
	return domain.NoteUpdateParams{Body: in.Body}
}

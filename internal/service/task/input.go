package task

import (
	"errors"
	"strings"
	"time"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// CreateInput carries the caller-supplied fields for a new task. A zero
// Status defaults to open at the store.
type CreateInput struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
	DueDate     *time.Time
	Assignee    *string
	Entity      domain.AttachmentRef
}

// Validate collects every violation before failing.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if in.Status != "" && !in.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be open or closed"})
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

// UpdateInput carries a partial update. Nil pointers mean "leave as is".
// The attachment pair is immutable after creation.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
	Assignee    *string
}

// Validate collects every violation before failing.
func (in UpdateInput) Validate() error {
	var errs []domain.FieldError
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must not be empty"})
	}
	if in.Status != nil && !in.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be open or closed"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (in UpdateInput) params() domain.TaskUpdateParams {
	return domain.TaskUpdateParams{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
		Assignee:    in.Assignee,
	}
}

package deal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// CreateInput carries the caller-supplied fields for a new deal.
type CreateInput struct {
	Title        string
	Amount       *float64
	Stage        string
	Probability  int
	CompanyID    *uuid.UUID
	ContactID    *uuid.UUID
	CloseDate    *time.Time
	CustomFields map[string]any
}

// Validate collects every violation before failing. The probability range
// is checked here and again by the store's check constraint.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(in.Stage) == "" {
		errs = append(errs, domain.FieldError{Field: "stage", Message: "required"})
	}
	if in.Probability < 0 || in.Probability > 100 {
		errs = append(errs, domain.FieldError{Field: "probability", Message: "must be between 0 and 100"})
	}
	if in.Amount != nil && *in.Amount < 0 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput carries a partial update. Nil pointers mean "leave as is";
// CompanyID/ContactID pointing at uuid.Nil clear the reference.
type UpdateInput struct {
	Title        *string
	Amount       *float64
	Stage        *string
	Probability  *int
	CompanyID    *uuid.UUID
	ContactID    *uuid.UUID
	CloseDate    *time.Time
	CustomFields map[string]any
}

// Validate collects every violation before failing.
func (in UpdateInput) Validate() error {
	var errs []domain.FieldError
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must not be empty"})
	}
	if in.Stage != nil && strings.TrimSpace(*in.Stage) == "" {
		errs = append(errs, domain.FieldError{Field: "stage", Message: "must not be empty"})
	}
	if in.Probability != nil && (*in.Probability < 0 || *in.Probability > 100) {
		errs = append(errs, domain.FieldError{Field: "probability", Message: "must be between 0 and 100"})
	}
	if in.Amount != nil && *in.Amount < 0 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (in UpdateInput) params() domain.DealUpdateParams {
	return domain.DealUpdateParams{
		Title:        in.Title,
		Amount:       in.Amount,
		Stage:        in.Stage,
		Probability:  in.Probability,
		CompanyID:    in.CompanyID,
		ContactID:    in.ContactID,
		CloseDate:    in.CloseDate,
		CustomFields: in.CustomFields,
	}
}

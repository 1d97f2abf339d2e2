package company

import (
	"strings"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// CreateInput carries the caller-supplied fields for a new company.
type CreateInput struct {
	Name         string
	Website      *string
	Phone        *string
	CustomFields map[string]any
}

// Validate collects every violation before failing.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput carries a partial update. Nil pointers mean "leave as is";
// a non-nil CustomFields replaces the whole mapping.
type UpdateInput struct {
	Name         *string
	Website      *string
	Phone        *string
	CustomFields map[string]any
}

// Validate collects every violation before failing.
func (in UpdateInput) Validate() error {
	var errs []domain.FieldError
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (in UpdateInput) params() domain.CompanyUpdateParams {
	return domain.CompanyUpdateParams{
		Name:         in.Name,
		Website:      in.Website,
		Phone:        in.Phone,
		CustomFields: in.CustomFields,
	}
}

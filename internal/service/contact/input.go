package contact

import (
	"strings"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// CreateInput carries the caller-supplied fields for a new contact.
type CreateInput struct {
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	CompanyID    *uuid.UUID
	CustomFields map[string]any
}

// Validate collects every violation before failing.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.FirstName) == "" {
		errs = append(errs, domain.FieldError{Field: "first_name", Message: "required"})
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs = append(errs, domain.FieldError{Field: "last_name", Message: "required"})
	}
	if in.Email != nil && !validEmail(*in.Email) {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email address"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput carries a partial update. Nil pointers mean "leave as is".
// Email set to a pointer to "" clears the address; CompanyID pointing at
// uuid.Nil detaches the contact.
type UpdateInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	CompanyID    *uuid.UUID
	CustomFields map[string]any
}

// Validate collects every violation before failing.
func (in UpdateInput) Validate() error {
	var errs []domain.FieldError
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
		errs = append(errs, domain.FieldError{Field: "first_name", Message: "must not be empty"})
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) == "" {
		errs = append(errs, domain.FieldError{Field: "last_name", Message: "must not be empty"})
	}
	if in.Email != nil && *in.Email != "" && !validEmail(*in.Email) {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email address"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (in UpdateInput) params() domain.ContactUpdateParams {
	return domain.ContactUpdateParams{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		CompanyID:    in.CompanyID,
		CustomFields: in.CustomFields,
	}
}

// validEmail is a shallow shape check. Uniqueness and anything deeper are
// the store's and the mail system's problems respectively.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

package fielddef

import (
	"regexp"
	"strings"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// nameRe constrains field names to lowercase snake case so they stay usable
// as JSON keys and never collide with column quoting.
var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const maxNameLen = 63

// CreateInput carries the caller-supplied fields for a new definition.
// Kind and name are immutable once created.
type CreateInput struct {
	EntityType domain.EntityType
	Name       string
	Label      string
	Kind       domain.FieldKind
	EnumValues []string
	Required   bool
}

// Validate collects every violation before failing. Enum values are
// required for enum kind and forbidden otherwise.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError

	if !in.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "unknown entity type " + string(in.EntityType)})
	}

	switch {
	case in.Name == "":
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	case len(in.Name) > maxNameLen:
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	case !nameRe.MatchString(in.Name):
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be lowercase snake_case starting with a letter"})
	}

	if strings.TrimSpace(in.Label) == "" {
		errs = append(errs, domain.FieldError{Field: "label", Message: "required"})
	}

	if !in.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "unknown kind " + string(in.Kind)})
	} else if in.Kind == domain.FieldKindEnum {
		errs = append(errs, validateEnumValues(in.EnumValues)...)
	} else if len(in.EnumValues) > 0 {
		errs = append(errs, domain.FieldError{Field: "enum_values", Message: "only allowed for enum kind"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateEnumValues(values []string) []domain.FieldError {
	if len(values) == 0 {
		return []domain.FieldError{{Field: "enum_values", Message: "required for enum kind"}}
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return []domain.FieldError{{Field: "enum_values", Message: "values must not be empty"}}
		}
		if _, dup := seen[v]; dup {
			return []domain.FieldError{{Field: "enum_values", Message: "duplicate value " + v}}
		}
		seen[v] = struct{}{}
	}
	return nil
}

// UpdateInput carries the only mutations allowed after creation.
type UpdateInput struct {
	Label    *string
	Required *bool
}

// Validate collects every violation before failing.
func (in UpdateInput) Validate() error {
	if in.Label != nil && strings.TrimSpace(*in.Label) == "" {
		return domain.NewValidationError("label", "must not be empty")
	}
	return nil
}

func (in UpdateInput) params() domain.FieldDefinitionUpdateParams {
	return domain.FieldDefinitionUpdateParams{
		Label:    in.Label,
		Required: in.Required,
	}
}

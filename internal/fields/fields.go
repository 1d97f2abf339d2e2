// Package fields validates candidate custom-field values against the
// administrator-defined field definitions of an entity type, and coerces
// valid values to their canonical stored representation.
//
// Both operations are pure functions over definitions + values; the store is
// never touched here.
package fields

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// DateLayout is the canonical stored form of date-kind values.
const DateLayout = "2006-01-02"

// Validate checks a candidate custom-field mapping against the definitions
// of its entity type. Unknown keys are rejected, not silently dropped, so a
// typo'd or stale field name never persists. Every violation (omissions and
// invalid values alike) is collected in a single pass and returned as one
// *domain.ValidationError keyed by field name.
func Validate(defs []domain.FieldDefinition, values map[string]any) error {
	byName := make(map[string]domain.FieldDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	var errs []domain.FieldError

	for _, name := range sortedKeys(values) {
		def, ok := byName[name]
		if !ok {
			errs = append(errs, domain.FieldError{Field: name, Message: "unknown field"})
			continue
		}
		if msg := checkValue(def, values[name]); msg != "" {
			errs = append(errs, domain.FieldError{Field: name, Message: msg})
		}
	}

	// Required definitions missing from the candidate mapping, independent
	// of the per-value checks above.
	for _, def := range defs {
		if !def.Required {
			continue
		}
		if _, ok := values[def.Name]; !ok {
			errs = append(errs, domain.FieldError{Field: def.Name, Message: "required field missing"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Clean coerces already-valid values to their canonical stored forms:
// dates to DateLayout strings, numbers to float64. Call it after Validate,
// never before: it assumes every value passed its kind check.
func Clean(defs []domain.FieldDefinition, values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}

	byName := make(map[string]domain.FieldDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	cleaned := make(map[string]any, len(values))
	for name, raw := range values {
		def, ok := byName[name]
		if !ok {
			continue
		}
		cleaned[name] = canonical(def.Kind, raw)
	}
	return cleaned
}

// checkValue dispatches on field kind and returns a human-readable violation
// message, or "" when the value is acceptable.
func checkValue(def domain.FieldDefinition, raw any) string {
	switch def.Kind {
	case domain.FieldKindText:
		if _, ok := raw.(string); !ok {
			return "must be a string"
		}

	case domain.FieldKindNumber:
		n, ok := asNumber(raw)
		if !ok {
			return "must be a number"
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "must be a finite number"
		}

	case domain.FieldKindDate:
		if _, ok := asDate(raw); !ok {
			return "must be a valid date (YYYY-MM-DD)"
		}

	case domain.FieldKindBoolean:
		if _, ok := raw.(bool); !ok {
			return "must be a boolean"
		}

	case domain.FieldKindEnum:
		s, ok := raw.(string)
		if !ok {
			return "must be one of: " + strings.Join(def.EnumValues, ", ")
		}
		for _, allowed := range def.EnumValues {
			if s == allowed {
				return ""
			}
		}
		return fmt.Sprintf("value %q is not allowed, must be one of: %s", s, strings.Join(def.EnumValues, ", "))
	}
	return ""
}

// canonical returns the stored representation of a valid value.
func canonical(kind domain.FieldKind, raw any) any {
	switch kind {
	case domain.FieldKindNumber:
		n, _ := asNumber(raw)
		return n
	case domain.FieldKindDate:
		t, _ := asDate(raw)
		return t.Format(DateLayout)
	default:
		return raw
	}
}

// asNumber accepts the numeric shapes that survive JSON decoding plus plain
// Go ints, normalized to float64.
func asNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// asDate accepts a DateLayout or RFC 3339 string, or a time.Time.
func asDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(DateLayout, v); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

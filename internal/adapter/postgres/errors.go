package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/supercobra/mojo-crm/internal/domain"
)

// PostgreSQL error codes handled by MapError.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidTextRepr     = "22P02"
)

// MapError converts pgx/pgconn errors into domain errors. Every repository
// routes store failures through it, so no raw driver error ever crosses the
// repository boundary. context.DeadlineExceeded and context.Canceled pass
// through unmapped.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", entity, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return uniqueViolation(pgErr)
		case codeForeignKeyViolation:
			return foreignKeyViolation(pgErr)
		case codeCheckViolation:
			return checkViolation(pgErr)
		case codeNotNullViolation:
			return &domain.ConstraintError{
				Constraint: pgErr.ConstraintName,
				Field:      pgErr.ColumnName,
				Message:    pgErr.ColumnName + " must not be null",
			}
		case codeInvalidTextRepr:
			// Malformed literal (e.g. a bad UUID) originates from caller
			// input, so it is a validation failure, not a database one.
			return domain.NewValidationError(entity, "invalid identifier format")
		}
	}

	// Everything else: opaque store failure, original cause preserved.
	return &domain.StoreError{Op: entity, Err: err}
}

// uniqueViolation names the offending field when the constraint is
// recognizable; otherwise it carries the constraint name alone.
func uniqueViolation(pgErr *pgconn.PgError) error {
	name := pgErr.ConstraintName
	switch {
	case strings.Contains(name, "email"):
		return &domain.ConstraintError{Constraint: name, Field: "email", Message: "email is already in use"}
	case strings.Contains(name, "entity_type") && strings.Contains(name, "name"):
		return &domain.ConstraintError{Constraint: name, Field: "name", Message: "a field with this name already exists for this entity type"}
	case strings.Contains(name, "name"):
		return &domain.ConstraintError{Constraint: name, Field: "name", Message: "name is already in use"}
	}
	return &domain.ConstraintError{Constraint: name, Message: "duplicate value"}
}

// foreignKeyViolation produces a domain message when the violated relation
// is recognizable (company/contact references).
func foreignKeyViolation(pgErr *pgconn.PgError) error {
	name := pgErr.ConstraintName
	switch {
	case strings.Contains(name, "company"):
		return &domain.ConstraintError{Constraint: name, Field: "company_id", Message: "referenced company does not exist"}
	case strings.Contains(name, "contact"):
		return &domain.ConstraintError{Constraint: name, Field: "contact_id", Message: "referenced contact does not exist"}
	}
	return &domain.ConstraintError{Constraint: name, Message: "referenced row does not exist"}
}

// checkViolation translates the known check constraints into domain
// messages.
func checkViolation(pgErr *pgconn.PgError) error {
	name := pgErr.ConstraintName
	switch {
	case strings.Contains(name, "probability"):
		return &domain.ConstraintError{Constraint: name, Field: "probability", Message: "probability must be between 0 and 100"}
	case strings.Contains(name, "status"):
		return &domain.ConstraintError{Constraint: name, Field: "status", Message: "status must be open or closed"}
	case strings.Contains(name, "kind"):
		return &domain.ConstraintError{Constraint: name, Field: "kind", Message: "kind must be one of text, number, date, enum, boolean"}
	case strings.Contains(name, "action"):
		return &domain.ConstraintError{Constraint: name, Field: "action", Message: "action must be one of create, update, delete"}
	}
	return &domain.ConstraintError{Constraint: name, Message: "check constraint violated"}
}

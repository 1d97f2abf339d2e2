package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is an organization record.
type Company struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Website      *string        `db:"website"`
	Phone        *string        `db:"phone"`
	CustomFields map[string]any `db:"custom_fields"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	CreatedBy    string         `db:"created_by"`
	UpdatedBy    string         `db:"updated_by"`
}

// Snapshot returns the company as a flat field map for audit payloads.
func (c *Company) Snapshot() map[string]any {
	return map[string]any{
		"id":            c.ID.String(),
		"name":          c.Name,
		"website":       strPtrValue(c.Website),
		"phone":         strPtrValue(c.Phone),
		"custom_fields": c.CustomFields,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
		"created_by":    c.CreatedBy,
		"updated_by":    c.UpdatedBy,
	}
}

// CompanyUpdateParams is a partial update. Nil pointers mean "leave as is";
// a non-nil CustomFields replaces the whole mapping.
type CompanyUpdateParams struct {
	Name         *string
	Website      *string
	Phone        *string
	CustomFields map[string]any
}

// Empty reports whether the update carries no recognized fields.
func (p CompanyUpdateParams) Empty() bool {
	return p.Name == nil && p.Website == nil && p.Phone == nil && p.CustomFields == nil
}

// CompanyFilter narrows company listings. Nil means "no constraint".
type CompanyFilter struct {
	// Name matches case-insensitively on any substring.
	Name *string

	Limit  int
	Offset int
}

func strPtrValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

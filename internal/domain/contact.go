package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person record, optionally attached to a company through a
// real foreign key (ON DELETE SET NULL).
type Contact struct {
	ID           uuid.UUID      `db:"id"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Email        *string        `db:"email"`
	Phone        *string        `db:"phone"`
	CompanyID    *uuid.UUID     `db:"company_id"`
	CustomFields map[string]any `db:"custom_fields"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	CreatedBy    string         `db:"created_by"`
	UpdatedBy    string         `db:"updated_by"`
}

// Snapshot returns the contact as a flat field map for audit payloads.
func (c *Contact) Snapshot() map[string]any {
	return map[string]any{
		"id":            c.ID.String(),
		"first_name":    c.FirstName,
		"last_name":     c.LastName,
		"email":         strPtrValue(c.Email),
		"phone":         strPtrValue(c.Phone),
		"company_id":    uuidPtrValue(c.CompanyID),
		"custom_fields": c.CustomFields,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
		"created_by":    c.CreatedBy,
		"updated_by":    c.UpdatedBy,
	}
}

// ContactUpdateParams is a partial update. Nil pointers mean "leave as is".
// CompanyID set to a pointer to uuid.Nil detaches the contact (NULL).
type ContactUpdateParams struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	CompanyID    *uuid.UUID
	CustomFields map[string]any
}

// Empty reports whether the update carries no recognized fields.
func (p ContactUpdateParams) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.CompanyID == nil && p.CustomFields == nil
}

// ContactFilter narrows contact listings. Nil means "no constraint";
// CompanyID pointing at uuid.Nil selects contacts with no company (IS NULL).
type ContactFilter struct {
	CompanyID *uuid.UUID
	Email     *string

	Limit  int
	Offset int
}

func uuidPtrValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deal is a sales opportunity. Deleting its company cascades the deal away;
// deleting its contact only nulls the reference.
type Deal struct {
	ID           uuid.UUID      `db:"id"`
	Title        string         `db:"title"`
	Amount       *float64       `db:"amount"`
	Stage        string         `db:"stage"`
	Probability  int            `db:"probability"`
	CompanyID    *uuid.UUID     `db:"company_id"`
	ContactID    *uuid.UUID     `db:"contact_id"`
	CloseDate    *time.Time     `db:"close_date"`
	CustomFields map[string]any `db:"custom_fields"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	CreatedBy    string         `db:"created_by"`
	UpdatedBy    string         `db:"updated_by"`
}

// Snapshot returns the deal as a flat field map for audit payloads.
func (d *Deal) Snapshot() map[string]any {
	var amount any
	if d.Amount != nil {
		amount = *d.Amount
	}
	var closeDate any
	if d.CloseDate != nil {
		closeDate = d.CloseDate.Format("2006-01-02")
	}
	return map[string]any{
		"id":            d.ID.String(),
		"title":         d.Title,
		"amount":        amount,
		"stage":         d.Stage,
		"probability":   d.Probability,
		"company_id":    uuidPtrValue(d.CompanyID),
		"contact_id":    uuidPtrValue(d.ContactID),
		"close_date":    closeDate,
		"custom_fields": d.CustomFields,
		"created_at":    d.CreatedAt,
		"updated_at":    d.UpdatedAt,
		"created_by":    d.CreatedBy,
		"updated_by":    d.UpdatedBy,
	}
}

// DealUpdateParams is a partial update. Nil pointers mean "leave as is";
// CompanyID/ContactID pointing at uuid.Nil clear the reference.
type DealUpdateParams struct {
	Title        *string
	Amount       *float64
	Stage        *string
	Probability  *int
	CompanyID    *uuid.UUID
	ContactID    *uuid.UUID
	CloseDate    *time.Time
	CustomFields map[string]any
}

// Empty reports whether the update carries no recognized fields.
func (p DealUpdateParams) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Stage == nil &&
		p.Probability == nil && p.CompanyID == nil && p.ContactID == nil &&
		p.CloseDate == nil && p.CustomFields == nil
}

// DealFilter narrows deal listings. Nil means "no constraint"; CompanyID or
// ContactID pointing at uuid.Nil translate to IS NULL.
type DealFilter struct {
	CompanyID *uuid.UUID
	ContactID *uuid.UUID
	Stage     *string

	Limit  int
	Offset int
}

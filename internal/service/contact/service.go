// Package contact implements contact business logic.
package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/audit"
	"github.com/supercobra/mojo-crm/internal/domain"
	"github.com/supercobra/mojo-crm/internal/fields"
	"github.com/supercobra/mojo-crm/pkg/ctxutil"
)

type contactRepo interface {
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ContactUpdateParams, actor string) (*domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type fieldDefRepo interface {
	ListByEntityType(ctx context.Context, entityType domain.EntityType) ([]domain.FieldDefinition, error)
}

type auditLogger interface {
	Log(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service coordinates contact operations.
type Service struct {
	log       *slog.Logger
	contacts  contactRepo
	fieldDefs fieldDefRepo
	audit     auditLogger
	tx        txManager
}

// NewService creates a contact service.
func NewService(log *slog.Logger, contacts contactRepo, fieldDefs fieldDefRepo, auditLog auditLogger, tx txManager) *Service {
	return &Service{
		log:       log.With("service", "contact"),
		contacts:  contacts,
		fieldDefs: fieldDefs,
		audit:     auditLog,
		tx:        tx,
	}
}

// Create validates the input, checks custom fields against the contact
// definition set, and persists the contact with its audit record in one
// transaction. A dangling CompanyID is rejected by the store's foreign key.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Contact, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	defs, err := s.fieldDefs.ListByEntityType(ctx, domain.EntityTypeContact)
	if err != nil {
		return nil, fmt.Errorf("load field definitions: %w", err)
	}
	if err := fields.Validate(defs, input.CustomFields); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		CompanyID:    input.CompanyID,
		CustomFields: fields.Clean(defs, input.CustomFields),
		CreatedBy:    actor,
	}

	var created *domain.Contact
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.contacts.Create(ctx, contact)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeContact.String(),
			EntityID:   created.ID,
			Action:     domain.AuditActionCreate,
			Actor:      actor,
			Changes:    created.Snapshot(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("contact created", "id", created.ID, "actor", actor)
	return created, nil
}

// Get returns a contact by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

// List returns contacts matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
	return s.contacts.List(ctx, filter)
}

// Update applies a partial update. A non-nil CustomFields replaces the whole
// mapping and is validated in full. No audit record is written when nothing
// observable changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Contact, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := input.params()
	if params.CustomFields != nil {
		defs, err := s.fieldDefs.ListByEntityType(ctx, domain.EntityTypeContact)
		if err != nil {
			return nil, fmt.Errorf("load field definitions: %w", err)
		}
		if err := fields.Validate(defs, params.CustomFields); err != nil {
			return nil, err
		}
		params.CustomFields = fields.Clean(defs, params.CustomFields)
	}

	var updated *domain.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.contacts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = s.contacts.Update(ctx, id, params, actor)
		if err != nil {
			return err
		}
		changes := audit.Diff(before.Snapshot(), updated.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeContact.String(),
			EntityID:   updated.ID,
			Action:     domain.AuditActionUpdate,
			Actor:      actor,
			Changes:    changes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("contact updated", "id", id, "actor", actor)
	return updated, nil
}

// Delete removes a contact and records its final snapshot. Deals that
// referenced the contact keep existing with a nulled reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.contacts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.contacts.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeContact.String(),
			EntityID:   id,
			Action:     domain.AuditActionDelete,
			Actor:      actor,
			Changes:    before.Snapshot(),
		})
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("contact deleted", "id", id, "actor", actor)
	return nil
}

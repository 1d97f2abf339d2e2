// Package company implements company business logic: input validation,
// custom-field checking against the definition set, and transactional
// persistence with audit records.
package company

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

type companyRepo interface {
	Create(ctx context.Context, company *domain.Company) (*domain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error)
	Update(ctx context.Context, id uuid.UUID, params domain.CompanyUpdateParams, actor string) (*domain.Company, error)
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

// Service coordinates company operations.
type Service struct {
	log       *slog.Logger
	companies companyRepo
	fieldDefs fieldDefRepo
	audit     auditLogger
	tx        txManager
}

// NewService creates a company service.
func NewService(log *slog.Logger, companies companyRepo, fieldDefs fieldDefRepo, auditLog auditLogger, tx txManager) *Service {
	return &Service{
		log:       log.With("service", "company"),
		companies: companies,
		fieldDefs: fieldDefs,
		audit:     auditLog,
		tx:        tx,
	}
}

// Create validates the input, checks custom fields against the company
// definition set, and persists the company together with its audit record
// in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Company, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	defs, err := s.fieldDefs.ListByEntityType(ctx, domain.EntityTypeCompany)
	if err != nil {
		return nil, fmt.Errorf("load field definitions: %w", err)
	}
	if err := fields.Validate(defs, input.CustomFields); err != nil {
		return nil, err
	}

	company := &domain.Company{
		Name:         input.Name,
		Website:      input.Website,
		Phone:        input.Phone,
		CustomFields: fields.Clean(defs, input.CustomFields),
		CreatedBy:    actor,
	}

	var created *domain.Company
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.companies.Create(ctx, company)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeCompany.String(),
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

	s.log.Info("company created", "id", created.ID, "actor", actor)
	return created, nil
}

// Get returns a company by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// List returns companies matching the filter.
func (s *Service) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	return s.companies.List(ctx, filter)
}

// Update applies a partial update. A non-nil CustomFields replaces the whole
// mapping and is validated in full, required fields included. The audit
// record stores only the fields that actually changed; when nothing changed
// no record is written.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Company, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := input.params()
	if params.CustomFields != nil {
		defs, err := s.fieldDefs.ListByEntityType(ctx, domain.EntityTypeCompany)
		if err != nil {
			return nil, fmt.Errorf("load field definitions: %w", err)
		}
		if err := fields.Validate(defs, params.CustomFields); err != nil {
			return nil, err
		}
		params.CustomFields = fields.Clean(defs, params.CustomFields)
	}

	var updated *domain.Company
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.companies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = s.companies.Update(ctx, id, params, actor)
		if err != nil {
			return err
		}
		changes := audit.Diff(before.Snapshot(), updated.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeCompany.String(),
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

	s.log.Info("company updated", "id", id, "actor", actor)
	return updated, nil
}

// Delete removes a company and records its final snapshot. Contacts keep
// existing with a nulled company reference; deals attached to the company
// are cascaded away by the store.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.companies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.companies.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeCompany.String(),
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

	s.log.Info("company deleted", "id", id, "actor", actor)
	return nil
}

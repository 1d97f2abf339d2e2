// Package deal implements deal business logic.
package deal

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

type dealRepo interface {
	Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error)
	List(ctx context.Context, filter domain.DealFilter) ([]domain.Deal, error)
	Update(ctx context.Context, id uuid.UUID, params domain.DealUpdateParams, actor string) (*domain.Deal, error)
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

// Service coordinates deal operations.
type Service struct {
	log       *slog.Logger
	deals     dealRepo
	fieldDefs fieldDefRepo
	audit     auditLogger
	tx        txManager
}

// NewService creates a deal service.
func NewService(log *slog.Logger, deals dealRepo, fieldDefs fieldDefRepo, auditLog auditLogger, tx txManager) *Service {
	return &Service{
		log:       log.With("service", "deal"),
		deals:     deals,
		fieldDefs: fieldDefs,
		audit:     auditLog,
		tx:        tx,
	}
}

// Create validates the input, checks custom fields against the deal
// definition set, and persists the deal with its audit record in one
// transaction. Dangling company or contact references are rejected by the
// store's foreign keys.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Deal, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	defs, err := s.fieldDefs.ListByEntityType(ctx, domain.EntityTypeDeal)
	if err != nil {
		return nil, fmt.Errorf("load field definitions: %w", err)
	}
	if err := fields.Validate(defs, input.CustomFields); err != nil {
		return nil, err
	}

	deal := &domain.Deal{
		Title:        input.Title,
		Amount:       input.Amount,
		Stage:        input.Stage,
		Probability:  input.Probability,
		CompanyID:    input.CompanyID,
		ContactID:    input.ContactID,
		CloseDate:    input.CloseDate,
		CustomFields: fields.Clean(defs, input.CustomFields),
		CreatedBy:    actor,
	}

	var created *domain.Deal
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.deals.Create(ctx, deal)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeDeal.String(),
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

	s.log.Info("deal created", "id", created.ID, "actor", actor)
	return created, nil
}

// Get returns a deal by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

// List returns deals matching the filter.
func (s *Service) List(ctx context.Context, filter domain.DealFilter) ([]domain.Deal, error) {
	return s.deals.List(ctx, filter)
}

// Update applies a partial update. A non-nil CustomFields replaces the whole
// mapping and is validated in full. No audit record is written when nothing
// observable changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Deal, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := input.params()
	if params.CustomFields != nil {
		defs, err := s.fieldDefs.ListByEntityType(ctx, domain.EntityTypeDeal)
		if err != nil {
			return nil, fmt.Errorf("load field definitions: %w", err)
		}
		if err := fields.Validate(defs, params.CustomFields); err != nil {
			return nil, err
		}
		params.CustomFields = fields.Clean(defs, params.CustomFields)
	}

	var updated *domain.Deal
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.deals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = s.deals.Update(ctx, id, params, actor)
		if err != nil {
			return err
		}
		changes := audit.Diff(before.Snapshot(), updated.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeDeal.String(),
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

	s.log.Info("deal updated", "id", id, "actor", actor)
	return updated, nil
}

// Delete removes a deal and records its final snapshot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.deals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.deals.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: domain.EntityTypeDeal.String(),
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

	s.log.Info("deal deleted", "id", id, "actor", actor)
	return nil
}

// Package fielddef implements custom field definition administration.
// Definitions gate what custom-field values the entity services accept;
// deleting one also strips its stored values so no entity keeps data for a
// field that no longer exists.
package fielddef

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/audit"
	"github.com/supercobra/mojo-crm/internal/domain"
	"github.com/supercobra/mojo-crm/pkg/ctxutil"
)

type fieldDefRepo interface {
	Create(ctx context.Context, def *domain.FieldDefinition) (*domain.FieldDefinition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FieldDefinition, error)
	ListByEntityType(ctx context.Context, entityType domain.EntityType) ([]domain.FieldDefinition, error)
	Update(ctx context.Context, id uuid.UUID, params domain.FieldDefinitionUpdateParams) (*domain.FieldDefinition, error)
	Delete(ctx context.Context, id uuid.UUID) error
	StripValues(ctx context.Context, entityType domain.EntityType, name string) (int64, error)
}

type auditLogger interface {
	Log(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service coordinates field definition administration.
type Service struct {
	log   *slog.Logger
	defs  fieldDefRepo
	audit auditLogger
	tx    txManager
}

// NewService creates a field definition service.
func NewService(log *slog.Logger, defs fieldDefRepo, auditLog auditLogger, tx txManager) *Service {
	return &Service{
		log:   log.With("service", "fielddef"),
		defs:  defs,
		audit: auditLog,
		tx:    tx,
	}
}

// Create validates and persists a definition with its audit record in one
// transaction. A duplicate (entity_type, name) pair is rejected by the
// store's unique constraint.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.FieldDefinition, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	def := &domain.FieldDefinition{
		EntityType: input.EntityType,
		Name:       input.Name,
		Label:      input.Label,
		Kind:       input.Kind,
		EnumValues: input.EnumValues,
		Required:   input.Required,
		CreatedBy:  actor,
	}

	var created *domain.FieldDefinition
	var err error
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.defs.Create(ctx, def)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "field_definition",
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

	s.log.Info("field definition created",
		"id", created.ID, "entity_type", created.EntityType, "name", created.Name, "actor", actor)
	return created, nil
}

// Get returns a definition by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.FieldDefinition, error) {
	return s.defs.GetByID(ctx, id)
}

// ListByEntityType returns the definition set governing one entity type.
func (s *Service) ListByEntityType(ctx context.Context, entityType domain.EntityType) ([]domain.FieldDefinition, error) {
	if !entityType.IsValid() {
		return nil, domain.NewValidationError("entity_type", "unknown entity type "+string(entityType))
	}
	return s.defs.ListByEntityType(ctx, entityType)
}

// Update changes label and/or required flag, the only mutations allowed
// after creation. No audit record is written when nothing observable
// changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.FieldDefinition, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := input.params()

	var updated *domain.FieldDefinition
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.defs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = s.defs.Update(ctx, id, params)
		if err != nil {
			return err
		}
		changes := audit.Diff(before.Snapshot(), updated.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "field_definition",
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

	s.log.Info("field definition updated", "id", id, "actor", actor)
	return updated, nil
}

// Delete removes a definition and, in the same transaction, strips the
// field's values from every entity of its type. Either both happen or
// neither does.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	var stripped int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.defs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.defs.Delete(ctx, id); err != nil {
			return err
		}
		stripped, err = s.defs.StripValues(ctx, before.EntityType, before.Name)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "field_definition",
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

	s.log.Info("field definition deleted", "id", id, "stripped_rows", stripped, "actor", actor)
	return nil
}

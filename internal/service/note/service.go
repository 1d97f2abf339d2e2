// Package note implements note business logic.
package note

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/audit"
	"github.com/supercobra/mojo-crm/internal/domain"
	"github.com/supercobra/mojo-crm/pkg/ctxutil"
)

type noteRepo interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error)
	ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Note, error)
	Update(ctx context.Context, id uuid.UUID, params domain.NoteUpdateParams, actor string) (*domain.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type auditLogger interface {
	Log(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service coordinates note operations.
type Service struct {
	log   *slog.Logger
	notes noteRepo
	audit auditLogger
	tx    txManager
}

// NewService creates a note service.
func NewService(log *slog.Logger, notes noteRepo, auditLog auditLogger, tx txManager) *Service {
	return &Service{
		log:   log.With("service", "note"),
		notes: notes,
		audit: auditLog,
		tx:    tx,
	}
}

// Create validates the input and persists the note with its audit record in
// one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Note, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	note := &domain.Note{
		Body:       input.Body,
		EntityType: input.Entity.Type,
		EntityID:   input.Entity.ID,
		CreatedBy:  actor,
	}

	var created *domain.Note
	var err error
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.notes.Create(ctx, note)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "note",
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

	s.log.Info("note created", "id", created.ID, "actor", actor)
	return created, nil
}

// Get returns a note by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	return s.notes.GetByID(ctx, id)
}

// List returns notes matching the filter.
func (s *Service) List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	if filter.Entity != nil {
		if err := filter.Entity.Validate(); err != nil {
			return nil, err
		}
	}
	return s.notes.List(ctx, filter)
}

// ListByEntity returns every note attached to the given entity.
func (s *Service) ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Note, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return s.notes.ListByEntity(ctx, ref)
}

// Update applies a partial update. The attachment pair is immutable. No
// audit record is written when nothing observable changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Note, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := input.params()

	var updated *domain.Note
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.notes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = s.notes.Update(ctx, id, params, actor)
		if err != nil {
			return err
		}
		changes := audit.Diff(before.Snapshot(), updated.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "note",
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

	s.log.Info("note updated", "id", id, "actor", actor)
	return updated, nil
}

// Delete removes a note and records its final snapshot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.notes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.notes.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "note",
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

	s.log.Info("note deleted", "id", id, "actor", actor)
	return nil
}

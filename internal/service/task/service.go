// Package task implements task business logic. Tasks attach to core
// entities by (entity_type, entity_id); the pair is validated for shape but
// never checked against the target table.
package task

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/audit"
	"github.com/supercobra/mojo-crm/internal/domain"
	"github.com/supercobra/mojo-crm/pkg/ctxutil"
)

type taskRepo interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, params domain.TaskUpdateParams, actor string) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type auditLogger interface {
	Log(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service coordinates task operations.
type Service struct {
	log   *slog.Logger
	tasks taskRepo
	audit auditLogger
	tx    txManager
}

// NewService creates a task service.
func NewService(log *slog.Logger, tasks taskRepo, auditLog auditLogger, tx txManager) *Service {
	return &Service{
		log:   log.With("service", "task"),
		tasks: tasks,
		audit: auditLog,
		tx:    tx,
	}
}

// Create validates the input and persists the task with its audit record in
// one transaction. Status defaults to open.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
		Assignee:    input.Assignee,
		EntityType:  input.Entity.Type,
		EntityID:    input.Entity.ID,
		CreatedBy:   actor,
	}

	var created *domain.Task
	var err error
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.tasks.Create(ctx, task)
		if err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "task",
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

	s.log.Info("task created", "id", created.ID, "actor", actor)
	return created, nil
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// List returns tasks matching the filter.
func (s *Service) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Entity != nil {
		if err := filter.Entity.Validate(); err != nil {
			return nil, err
		}
	}
	return s.tasks.List(ctx, filter)
}

// ListByEntity returns every task attached to the given entity.
func (s *Service) ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Task, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return s.tasks.ListByEntity(ctx, ref)
}

// Update applies a partial update. The attachment pair is immutable. No
// audit record is written when nothing observable changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Task, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := input.params()

	var updated *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = s.tasks.Update(ctx, id, params, actor)
		if err != nil {
			return err
		}
		changes := audit.Diff(before.Snapshot(), updated.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "task",
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

	s.log.Info("task updated", "id", id, "actor", actor)
	return updated, nil
}

// Delete removes a task and records its final snapshot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.tasks.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.audit.Log(ctx, &domain.AuditRecord{
			EntityType: "task",
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

	s.log.Info("task deleted", "id", id, "actor", actor)
	return nil
}

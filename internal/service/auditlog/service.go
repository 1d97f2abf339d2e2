// Package auditlog exposes read access to the audit trail. Writes happen
// only inside the entity services' transactions; there is no mutation
// surface here at all.
package auditlog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/supercobra/mojo-crm/internal/domain"
)

type auditRepo interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error)
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error)
	ListByActor(ctx context.Context, actor string, limit, offset int) ([]domain.AuditRecord, error)
}

// Service answers audit trail queries.
type Service struct {
	log     *slog.Logger
	records auditRepo
}

// NewService creates an audit query service.
func NewService(log *slog.Logger, records auditRepo) *Service {
	return &Service{
		log:     log.With("service", "auditlog"),
		records: records,
	}
}

// List returns audit records matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	return s.records.List(ctx, filter)
}

// ListByEntity returns the change history of one entity, newest first.
func (s *Service) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	if entityID == uuid.Nil {
		return nil, domain.NewValidationError("entity_id", "required")
	}
	return s.records.ListByEntity(ctx, entityType, entityID, limit, offset)
}

// ListByActor returns every change recorded for one actor, newest first.
func (s *Service) ListByActor(ctx context.Context, actor string, limit, offset int) ([]domain.AuditRecord, error) {
	if actor == "" {
		return nil, domain.NewValidationError("actor", "required")
	}
	return s.records.ListByActor(ctx, actor, limit, offset)
}

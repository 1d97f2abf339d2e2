package task

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supercobra/mojo-crm/internal/domain"
	"github.com/supercobra/mojo-crm/pkg/ctxutil"
)

type fakeTaskRepo struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[uuid.UUID]*domain.Task{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	stored := *task
	stored.ID = uuid.New()
	if stored.Status == "" {
		stored.Status = domain.TaskStatusOpen
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	stored.UpdatedBy = task.CreatedBy
	f.tasks[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	out := *task
	return &out, nil
}

func (f *fakeTaskRepo) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Entity != nil && task.Attachment() != *filter.Entity {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByEntity(ctx context.Context, ref domain.AttachmentRef) ([]domain.Task, error) {
	return f.List(ctx, domain.TaskFilter{Entity: &ref})
}

func (f *fakeTaskRepo) Update(_ context.Context, id uuid.UUID, params domain.TaskUpdateParams, actor string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Description != nil {
		task.Description = params.Description
	}
	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.Assignee != nil {
		task.Assignee = params.Assignee
	}
	if !params.Empty() {
		task.UpdatedAt = time.Now()
		task.UpdatedBy = actor
	}
	out := *task
	return &out, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	delete(f.tasks, id)
	return nil
}

type fakeAuditLogger struct {
	records []domain.AuditRecord
}

func (f *fakeAuditLogger) Log(_ context.Context, r *domain.AuditRecord) (*domain.AuditRecord, error) {
	stored := *r
	stored.ID = uuid.New()
	f.records = append(f.records, stored)
	return &stored, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *fakeTaskRepo, *fakeAuditLogger) {
	repo := newFakeTaskRepo()
	auditLog := &fakeAuditLogger{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, auditLog, fakeTxManager{})
	return svc, repo, auditLog
}

func actorCtx(actor string) context.Context {
	return ctxutil.WithActor(context.Background(), actor)
}

func dealRef() domain.AttachmentRef {
	return domain.AttachmentRef{Type: domain.EntityTypeDeal, ID: uuid.New()}
}

func TestCreateDefaultsToOpen(t *testing.T) {
	svc, _, auditLog := newTestService()

	created, err := svc.Create(actorCtx("alice"), CreateInput{
		Title:  "Send proposal",
		Entity: dealRef(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusOpen, created.Status)
	require.Len(t, auditLog.records, 1)
	assert.Equal(t, "task", auditLog.records[0].EntityType)
	assert.Equal(t, domain.AuditActionCreate, auditLog.records[0].Action)
}

func TestCreateRejectsBadAttachment(t *testing.T) {
	svc, repo, _ := newTestService()

	tests := []struct {
		name   string
		ref    domain.AttachmentRef
		fields []string
	}{
		{
			name:   "unknown entity type",
			ref:    domain.AttachmentRef{Type: "invoice", ID: uuid.New()},
			fields: []string{"entity_type"},
		},
		{
			name:   "zero entity id",
			ref:    domain.AttachmentRef{Type: domain.EntityTypeCompany},
			fields: []string{"entity_id"},
		},
		{
			name:   "both invalid",
			ref:    domain.AttachmentRef{},
			fields: []string{"entity_type", "entity_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(actorCtx("alice"), CreateInput{Title: "x", Entity: tt.ref})

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			for _, want := range tt.fields {
				found := false
				for _, fe := range vErr.Errors {
					if fe.Field == want {
						found = true
					}
				}
				assert.True(t, found, "want violation on %q, got %v", want, vErr.Errors)
			}
		})
	}

	assert.Empty(t, repo.tasks)
}

func TestCreateDoesNotCheckAttachmentExists(t *testing.T) {
	svc, _, _ := newTestService()

	// The referenced deal does not exist anywhere; creation still succeeds
	// because attachment integrity is advisory.
	created, err := svc.Create(actorCtx("alice"), CreateInput{
		Title:  "Follow up",
		Entity: domain.AttachmentRef{Type: domain.EntityTypeDeal, ID: uuid.New()},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestUpdateStatusTransitionAudited(t *testing.T) {
	svc, _, auditLog := newTestService()

	created, err := svc.Create(actorCtx("alice"), CreateInput{Title: "Close the books", Entity: dealRef()})
	require.NoError(t, err)

	closed := domain.TaskStatusClosed
	updated, err := svc.Update(actorCtx("bob"), created.ID, UpdateInput{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusClosed, updated.Status)

	require.Len(t, auditLog.records, 2)
	rec := auditLog.records[1]
	assert.Equal(t, domain.AuditActionUpdate, rec.Action)
	require.Contains(t, rec.Changes, "status")
	change := rec.Changes["status"].(map[string]any)
	assert.Equal(t, "open", change["old"])
	assert.Equal(t, "closed", change["new"])
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(actorCtx("alice"), CreateInput{Title: "x", Entity: dealRef()})
	require.NoError(t, err)

	bad := domain.TaskStatus("done")
	_, err = svc.Update(actorCtx("alice"), created.ID, UpdateInput{Status: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestListByEntityValidatesRef(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListByEntity(context.Background(), domain.AttachmentRef{Type: "invoice", ID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteSurvivesAttachedEntity(t *testing.T) {
	svc, repo, auditLog := newTestService()

	ref := dealRef()
	created, err := svc.Create(actorCtx("alice"), CreateInput{Title: "x", Entity: ref})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(actorCtx("alice"), created.ID))
	assert.Empty(t, repo.tasks)

	require.Len(t, auditLog.records, 2)
	assert.Equal(t, domain.AuditActionDelete, auditLog.records[1].Action)
}

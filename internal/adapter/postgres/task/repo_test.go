package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/supercobra/mojo-crm/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock
}

func taskRow(rows *pgxmock.Rows, id uuid.UUID, title string, ref domain.AttachmentRef, createdAt time.Time) *pgxmock.Rows {
	return rows.AddRow(id, title, nil, domain.TaskStatusOpen, nil, nil,
		ref.Type, ref.ID, createdAt, createdAt, "alice", "alice")
}

func TestRepoCreateDefaultsStatusOpen(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	id := uuid.New()
	now := time.Now()
	ref := domain.AttachmentRef{Type: domain.EntityTypeCompany, ID: uuid.New()}

	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs("Call back", pgxmock.AnyArg(), domain.TaskStatusOpen, pgxmock.AnyArg(), pgxmock.AnyArg(),
			ref.Type, ref.ID, "alice", "alice").
		WillReturnRows(taskRow(pgxmock.NewRows(columns), id, "Call back", ref, now))

	got, err := repo.Create(context.Background(), &domain.Task{
		Title:      "Call back",
		EntityType: ref.Type,
		EntityID:   ref.ID,
		CreatedBy:  "alice",
	})
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if got.Status != domain.TaskStatusOpen {
		t.Errorf("Create() status = %q, want open", got.Status)
	}
}

func TestRepoListByEntity(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	ref := domain.AttachmentRef{Type: domain.EntityTypeDeal, ID: uuid.New()}
	now := time.Now()

	rows := pgxmock.NewRows(columns)
	rows = taskRow(rows, uuid.New(), "Newest", ref, now)
	rows = taskRow(rows, uuid.New(), "Older", ref, now.Add(-time.Hour))

	// Eq renders its keys sorted, so entity_id binds before entity_type.
	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE entity_id = \$1 AND entity_type = \$2 ORDER BY created_at DESC`).
		WithArgs(ref.ID, ref.Type).
		WillReturnRows(rows)

	got, err := repo.ListByEntity(context.Background(), ref)
	if err != nil {
		t.Fatalf("ListByEntity() = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByEntity() returned %d rows, want 2", len(got))
	}
	if got[0].Title != "Newest" || got[1].Title != "Older" {
		t.Errorf("ListByEntity() order = %q, %q, want newest first", got[0].Title, got[1].Title)
	}
	for _, task := range got {
		if task.Attachment() != ref {
			t.Errorf("ListByEntity() attachment = %+v, want %+v", task.Attachment(), ref)
		}
	}
}

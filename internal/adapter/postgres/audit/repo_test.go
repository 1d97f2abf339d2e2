package audit

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

func TestRepoLog(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	id := uuid.New()
	entityID := uuid.New()
	now := time.Now()
	changes := map[string]any{"name": "Acme"}

	rows := pgxmock.NewRows(columns).
		AddRow(id, "company", entityID, domain.AuditActionCreate, "alice", changes, now)

	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs("company", entityID, domain.AuditActionCreate, "alice", changes).
		WillReturnRows(rows)

	got, err := repo.Log(context.Background(), &domain.AuditRecord{
		EntityType: "company",
		EntityID:   entityID,
		Action:     domain.AuditActionCreate,
		Actor:      "alice",
		Changes:    changes,
	})
	if err != nil {
		t.Fatalf("Log() = %v", err)
	}
	if got.ID != id || got.Action != domain.AuditActionCreate {
		t.Errorf("Log() = %+v, want id %s action create", got, id)
	}
}

func TestRepoLogNilChangesDefaultsToEmpty(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	entityID := uuid.New()
	rows := pgxmock.NewRows(columns).
		AddRow(uuid.New(), "note", entityID, domain.AuditActionDelete, "bob", map[string]any{}, time.Now())

	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs("note", entityID, domain.AuditActionDelete, "bob", map[string]any{}).
		WillReturnRows(rows)

	_, err := repo.Log(context.Background(), &domain.AuditRecord{
		EntityType: "note",
		EntityID:   entityID,
		Action:     domain.AuditActionDelete,
		Actor:      "bob",
	})
	if err != nil {
		t.Fatalf("Log() = %v", err)
	}
}

func TestRepoListByEntity(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	entityID := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows(columns).
		AddRow(uuid.New(), "deal", entityID, domain.AuditActionUpdate, "alice", map[string]any{}, now).
		AddRow(uuid.New(), "deal", entityID, domain.AuditActionCreate, "alice", map[string]any{}, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .+ FROM audit_logs .+ ORDER BY created_at DESC`).
		WithArgs("deal", entityID).
		WillReturnRows(rows)

	got, err := repo.ListByEntity(context.Background(), "deal", entityID, 0, 0)
	if err != nil {
		t.Fatalf("ListByEntity() = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListByEntity() returned %d rows, want 2", len(got))
	}
}

func TestRepoListByActor(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	rows := pgxmock.NewRows(columns).
		AddRow(uuid.New(), "task", uuid.New(), domain.AuditActionDelete, "bob", map[string]any{}, time.Now())

	mock.ExpectQuery(`SELECT .+ FROM audit_logs`).
		WithArgs("bob").
		WillReturnRows(rows)

	got, err := repo.ListByActor(context.Background(), "bob", 10, 0)
	if err != nil {
		t.Fatalf("ListByActor() = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ListByActor() returned %d rows, want 1", len(got))
	}
}

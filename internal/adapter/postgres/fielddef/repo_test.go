package fielddef

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
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

func TestRepoCreate(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(columns).
		AddRow(id, domain.EntityTypeCompany, "industry", "Industry", domain.FieldKindEnum,
			[]string{"software", "retail"}, false, now, "admin")

	mock.ExpectQuery(`INSERT INTO custom_field_definitions`).
		WithArgs(domain.EntityTypeCompany, "industry", "Industry", domain.FieldKindEnum,
			[]string{"software", "retail"}, false, "admin").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &domain.FieldDefinition{
		EntityType: domain.EntityTypeCompany,
		Name:       "industry",
		Label:      "Industry",
		Kind:       domain.FieldKindEnum,
		EnumValues: []string{"software", "retail"},
		CreatedBy:  "admin",
	})
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if got.ID != id || got.Name != "industry" {
		t.Errorf("Create() = %+v, want id %s name industry", got, id)
	}
}

func TestRepoCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	mock.ExpectQuery(`INSERT INTO custom_field_definitions`).
		WithArgs(domain.EntityTypeDeal, "region", "Region", domain.FieldKindText,
			pgxmock.AnyArg(), false, "admin").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "custom_field_definitions_entity_type_name_key"})

	_, err := repo.Create(context.Background(), &domain.FieldDefinition{
		EntityType: domain.EntityTypeDeal,
		Name:       "region",
		Label:      "Region",
		Kind:       domain.FieldKindText,
		CreatedBy:  "admin",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Create() = %v, want ErrConflict", err)
	}

	var cErr *domain.ConstraintError
	if !errors.As(err, &cErr) || cErr.Field != "name" {
		t.Errorf("Create() = %v, want constraint error on name", err)
	}
}

func TestRepoListByEntityType(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	now := time.Now()
	rows := pgxmock.NewRows(columns).
		AddRow(uuid.New(), domain.EntityTypeContact, "birthday", "Birthday", domain.FieldKindDate, nil, false, now, "admin").
		AddRow(uuid.New(), domain.EntityTypeContact, "vip", "VIP", domain.FieldKindBoolean, nil, true, now, "admin")

	mock.ExpectQuery(`SELECT .+ FROM custom_field_definitions .+ ORDER BY name ASC`).
		WithArgs(domain.EntityTypeContact).
		WillReturnRows(rows)

	got, err := repo.ListByEntityType(context.Background(), domain.EntityTypeContact)
	if err != nil {
		t.Fatalf("ListByEntityType() = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListByEntityType() returned %d rows, want 2", len(got))
	}
}

func TestRepoStripValues(t *testing.T) {
	tests := []struct {
		entityType domain.EntityType
		table      string
	}{
		{domain.EntityTypeCompany, "companies"},
		{domain.EntityTypeContact, "contacts"},
		{domain.EntityTypeDeal, "deals"},
	}

	for _, tt := range tests {
		t.Run(string(tt.entityType), func(t *testing.T) {
			mock := newMock(t)
			repo := New(mock)

			mock.ExpectExec(`UPDATE ` + tt.table + ` SET custom_fields = custom_fields - \$1 WHERE custom_fields \? \$1`).
				WithArgs("industry").
				WillReturnResult(pgxmock.NewResult("UPDATE", 3))

			n, err := repo.StripValues(context.Background(), tt.entityType, "industry")
			if err != nil {
				t.Fatalf("StripValues() = %v", err)
			}
			if n != 3 {
				t.Errorf("StripValues() = %d rows, want 3", n)
			}
		})
	}
}

func TestRepoStripValuesUnknownEntityType(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	_, err := repo.StripValues(context.Background(), domain.EntityType("invoice"), "industry")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("StripValues() = %v, want ErrValidation", err)
	}
}

func TestRepoDeleteNotFound(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM custom_field_definitions`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete() = %v, want ErrNotFound", err)
	}
}

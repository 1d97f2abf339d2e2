package fielddef

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

type fakeFieldDefRepo struct {
	defs     map[uuid.UUID]*domain.FieldDefinition
	stripped []string // "<entity_type>/<name>" per StripValues call
}

func newFakeFieldDefRepo() *fakeFieldDefRepo {
	return &fakeFieldDefRepo{defs: map[uuid.UUID]*domain.FieldDefinition{}}
}

func (f *fakeFieldDefRepo) Create(_ context.Context, def *domain.FieldDefinition) (*domain.FieldDefinition, error) {
	for _, existing := range f.defs {
		if existing.EntityType == def.EntityType && existing.Name == def.Name {
			return nil, &domain.ConstraintError{
				Constraint: "custom_field_definitions_entity_type_name_key",
				Field:      "name",
				Message:    "a field with this name already exists for this entity type",
			}
		}
	}
	stored := *def
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.defs[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeFieldDefRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.FieldDefinition, error) {
	def, ok := f.defs[id]
	if !ok {
		return nil, fmt.Errorf("field definition %s: %w", id, domain.ErrNotFound)
	}
	out := *def
	return &out, nil
}

func (f *fakeFieldDefRepo) ListByEntityType(_ context.Context, entityType domain.EntityType) ([]domain.FieldDefinition, error) {
	var out []domain.FieldDefinition
	for _, def := range f.defs {
		if def.EntityType == entityType {
			out = append(out, *def)
		}
	}
	return out, nil
}

func (f *fakeFieldDefRepo) Update(_ context.Context, id uuid.UUID, params domain.FieldDefinitionUpdateParams) (*domain.FieldDefinition, error) {
	def, ok := f.defs[id]
	if !ok {
		return nil, fmt.Errorf("field definition %s: %w", id, domain.ErrNotFound)
	}
	if params.Label != nil {
		def.Label = *params.Label
	}
	if params.Required != nil {
		def.Required = *params.Required
	}
	out := *def
	return &out, nil
}

func (f *fakeFieldDefRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.defs[id]; !ok {
		return fmt.Errorf("field definition %s: %w", id, domain.ErrNotFound)
	}
	delete(f.defs, id)
	return nil
}

func (f *fakeFieldDefRepo) StripValues(_ context.Context, entityType domain.EntityType, name string) (int64, error) {
	f.stripped = append(f.stripped, string(entityType)+"/"+name)
	return 2, nil
}

type fakeAuditLogger struct {
	records []domain.AuditRecord
}

func (f *fakeAuditLogger) Log(_ context.Context, r *domain.AuditRecord) (*domain.AuditRecord, error) {
	stored := *r
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.records = append(f.records, stored)
	return &stored, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *fakeFieldDefRepo, *fakeAuditLogger) {
	repo := newFakeFieldDefRepo()
	auditLog := &fakeAuditLogger{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, auditLog, fakeTxManager{})
	return svc, repo, auditLog
}

func actorCtx(actor string) context.Context {
	return ctxutil.WithActor(context.Background(), actor)
}

func validInput() CreateInput {
	return CreateInput{
		EntityType: domain.EntityTypeCompany,
		Name:       "industry",
		Label:      "Industry",
		Kind:       domain.FieldKindEnum,
		EnumValues: []string{"software", "retail"},
	}
}

func TestCreateRequiresActor(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), validInput())

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateInput)
		wantField string
	}{
		{
			name:      "unknown entity type",
			mutate:    func(in *CreateInput) { in.EntityType = "invoice" },
			wantField: "entity_type",
		},
		{
			name:      "empty name",
			mutate:    func(in *CreateInput) { in.Name = "" },
			wantField: "name",
		},
		{
			name:      "name not snake case",
			mutate:    func(in *CreateInput) { in.Name = "Industry Type" },
			wantField: "name",
		},
		{
			name:      "name starting with digit",
			mutate:    func(in *CreateInput) { in.Name = "1industry" },
			wantField: "name",
		},
		{
			name:      "empty label",
			mutate:    func(in *CreateInput) { in.Label = " " },
			wantField: "label",
		},
		{
			name:      "unknown kind",
			mutate:    func(in *CreateInput) { in.Kind = "decimal"; in.EnumValues = nil },
			wantField: "kind",
		},
		{
			name:      "enum kind without values",
			mutate:    func(in *CreateInput) { in.EnumValues = nil },
			wantField: "enum_values",
		},
		{
			name:      "enum with duplicate values",
			mutate:    func(in *CreateInput) { in.EnumValues = []string{"a", "a"} },
			wantField: "enum_values",
		},
		{
			name: "non-enum kind with values",
			mutate: func(in *CreateInput) {
				in.Kind = domain.FieldKindText
			},
			wantField: "enum_values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(actorCtx("admin"), in)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "want violation on %q, got %v", tt.wantField, vErr.Errors)
		})
	}
}

func TestCreateWritesAuditRecord(t *testing.T) {
	svc, _, auditLog := newTestService()

	created, err := svc.Create(actorCtx("admin"), validInput())
	require.NoError(t, err)

	require.Len(t, auditLog.records, 1)
	rec := auditLog.records[0]
	assert.Equal(t, "field_definition", rec.EntityType)
	assert.Equal(t, created.ID, rec.EntityID)
	assert.Equal(t, domain.AuditActionCreate, rec.Action)
	assert.Equal(t, "industry", rec.Changes["name"])
}

func TestCreateDuplicateName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(actorCtx("admin"), validInput())
	require.NoError(t, err)

	_, err = svc.Create(actorCtx("admin"), validInput())
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateOnlyLabelAndRequired(t *testing.T) {
	svc, repo, auditLog := newTestService()

	created, err := svc.Create(actorCtx("admin"), validInput())
	require.NoError(t, err)

	label := "Industry Sector"
	required := true
	updated, err := svc.Update(actorCtx("admin"), created.ID, UpdateInput{Label: &label, Required: &required})
	require.NoError(t, err)

	assert.Equal(t, "Industry Sector", updated.Label)
	assert.True(t, updated.Required)
	// Kind and name stay untouched.
	assert.Equal(t, created.Kind, updated.Kind)
	assert.Equal(t, created.Name, updated.Name)

	require.Len(t, auditLog.records, 2)
	rec := auditLog.records[1]
	assert.Equal(t, domain.AuditActionUpdate, rec.Action)
	assert.Contains(t, rec.Changes, "label")
	assert.Contains(t, rec.Changes, "required")
	assert.NotContains(t, rec.Changes, "name")

	assert.Empty(t, repo.stripped)
}

func TestDeleteStripsValuesInSameTx(t *testing.T) {
	svc, repo, auditLog := newTestService()

	created, err := svc.Create(actorCtx("admin"), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(actorCtx("admin"), created.ID))

	assert.Equal(t, []string{"company/industry"}, repo.stripped)
	assert.Empty(t, repo.defs)

	require.Len(t, auditLog.records, 2)
	rec := auditLog.records[1]
	assert.Equal(t, domain.AuditActionDelete, rec.Action)
	assert.Equal(t, "industry", rec.Changes["name"], "delete record carries the final snapshot")
}

func TestDeleteNotFound(t *testing.T) {
	svc, repo, _ := newTestService()

	err := svc.Delete(actorCtx("admin"), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, repo.stripped, "no strip on failed delete")
}

func TestListByEntityTypeRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListByEntityType(context.Background(), "invoice")

	require.ErrorIs(t, err, domain.ErrValidation)
}

// Command seed populates a development database with a small set of sample
// CRM data by driving the real services, so every seeded record goes through
// validation and lands in the audit log. It is intended for local
// development, not production.
//
// Flags:
//
//	--actor    actor identifier recorded on seeded data (default "seed")
//	--migrate  apply pending schema migrations first
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/supercobra/mojo-crm/internal/adapter/postgres"
	"github.com/supercobra/mojo-crm/internal/app"
	"github.com/supercobra/mojo-crm/internal/config"
	"github.com/supercobra/mojo-crm/internal/domain"
	"github.com/supercobra/mojo-crm/internal/service/company"
	"github.com/supercobra/mojo-crm/internal/service/contact"
	"github.com/supercobra/mojo-crm/internal/service/deal"
	"github.com/supercobra/mojo-crm/internal/service/fielddef"
	"github.com/supercobra/mojo-crm/internal/service/note"
	"github.com/supercobra/mojo-crm/internal/service/task"
	"github.com/supercobra/mojo-crm/pkg/ctxutil"
)

func main() {
	actorFlag := flag.String("actor", "seed", "actor identifier recorded on seeded data")
	migrateFlag := flag.Bool("migrate", false, "apply pending schema migrations first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	defer a.Close()

	if *migrateFlag {
		if err := postgres.Migrate(ctx, a.Pool); err != nil {
			a.Log.Error("apply migrations", "error", err)
			os.Exit(1)
		}
	}

	ctx = ctxutil.WithActor(ctx, *actorFlag)

	if err := seed(ctx, a); err != nil {
		a.Log.Error("seed failed", "error", err)
		os.Exit(1)
	}

	a.Log.Info("seed completed")
}

func seed(ctx context.Context, a *app.App) error {
	_, err := a.FieldDefs.Create(ctx, fielddef.CreateInput{
		EntityType: domain.EntityTypeCompany,
		Name:       "industry",
		Label:      "Industry",
		Kind:       domain.FieldKindEnum,
		EnumValues: []string{"software", "manufacturing", "retail"},
	})
	if err != nil {
		return err
	}

	acme, err := a.Companies.Create(ctx, company.CreateInput{
		Name:         "Acme Corp",
		Website:      ptr("https://acme.example"),
		CustomFields: map[string]any{"industry": "manufacturing"},
	})
	if err != nil {
		return err
	}

	jane, err := a.Contacts.Create(ctx, contact.CreateInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     ptr("jane.doe@acme.example"),
		CompanyID: &acme.ID,
	})
	if err != nil {
		return err
	}

	bigDeal, err := a.Deals.Create(ctx, deal.CreateInput{
		Title:       "Acme platform rollout",
		Amount:      ptr(125000.0),
		Stage:       "negotiation",
		Probability: 60,
		CompanyID:   &acme.ID,
		ContactID:   &jane.ID,
	})
	if err != nil {
		return err
	}

	_, err = a.Tasks.Create(ctx, task.CreateInput{
		Title:    "Send revised proposal",
		Assignee: ptr("sales@example.com"),
		Entity:   domain.AttachmentRef{Type: domain.EntityTypeDeal, ID: bigDeal.ID},
	})
	if err != nil {
		return err
	}

	_, err = a.Notes.Create(ctx, note.CreateInput{
		Body:   "Jane prefers quarterly billing.",
		Entity: domain.AttachmentRef{Type: domain.EntityTypeContact, ID: jane.ID},
	})
	return err
}

func ptr[T any](v T) *T { return &v }

// Package app assembles the data-access foundation: configuration, logger,
// connection pool, repositories, and services. An embedding program (API
// server, importer, admin tool) constructs an App and works through its
// services.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supercobra/mojo-crm/internal/adapter/postgres"
	auditrepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/audit"
	companyrepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/company"
	contactrepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/contact"
	dealrepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/deal"
	fielddefrepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/fielddef"
	noterepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/note"
	taskrepo "github.com/supercobra/mojo-crm/internal/adapter/postgres/task"
	"github.com/supercobra/mojo-crm/internal/config"
	"github.com/supercobra/mojo-crm/internal/service/auditlog"
	"github.com/supercobra/mojo-crm/internal/service/company"
	"github.com/supercobra/mojo-crm/internal/service/contact"
	"github.com/supercobra/mojo-crm/internal/service/deal"
	"github.com/supercobra/mojo-crm/internal/service/fielddef"
	"github.com/supercobra/mojo-crm/internal/service/note"
	"github.com/supercobra/mojo-crm/internal/service/task"
)

// App holds every wired component of the CRM foundation.
type App struct {
	Log  *slog.Logger
	Pool *pgxpool.Pool

	Companies  *company.Service
	Contacts   *contact.Service
	Deals      *deal.Service
	Tasks      *task.Service
	Notes      *note.Service
	FieldDefs  *fielddef.Service
	AuditTrail *auditlog.Service
}

// New connects to the database and wires repositories and services.
// The caller owns the App and must Close it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	tx := postgres.NewTxManager(pool)

	companies := companyrepo.New(pool)
	contacts := contactrepo.New(pool)
	deals := dealrepo.New(pool)
	tasks := taskrepo.New(pool)
	notes := noterepo.New(pool)
	defs := fielddefrepo.New(pool)
	records := auditrepo.New(pool)

	return &App{
		Log:  log,
		Pool: pool,

		Companies:  company.NewService(log, companies, defs, records, tx),
		Contacts:   contact.NewService(log, contacts, defs, records, tx),
		Deals:      deal.NewService(log, deals, defs, records, tx),
		Tasks:      task.NewService(log, tasks, records, tx),
		Notes:      note.NewService(log, notes, records, tx),
		FieldDefs:  fielddef.NewService(log, defs, records, tx),
		AuditTrail: auditlog.NewService(log, records),
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() {
	a.Pool.Close()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations is an ordered list of migration groups. Each group runs in a
// single transaction; the version number is the 1-based index into the
// slice. Applied versions are tracked in schema_migrations, so Migrate is
// idempotent and safe to run on every startup.
var migrations = [][]string{
	// Migration 1: core tables, custom field definitions, audit log.
	{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE companies (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			website TEXT,
			phone TEXT,
			custom_fields JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_by TEXT NOT NULL,
			updated_by TEXT NOT NULL,
			CONSTRAINT companies_name_key UNIQUE (name)
		)`,
		`CREATE INDEX idx_companies_name ON companies (lower(name))`,
		`CREATE INDEX idx_companies_created_at ON companies (created_at DESC)`,

		`CREATE TABLE contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			company_id UUID REFERENCES companies(id) ON DELETE SET NULL,
			custom_fields JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_by TEXT NOT NULL,
			updated_by TEXT NOT NULL,
			CONSTRAINT contacts_email_key UNIQUE (email)
		)`,
		`CREATE INDEX idx_contacts_company_id ON contacts (company_id)`,
		`CREATE INDEX idx_contacts_created_at ON contacts (created_at DESC)`,

		`CREATE TABLE deals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			amount NUMERIC,
			stage TEXT NOT NULL,
			probability INTEGER NOT NULL DEFAULT 0,
			company_id UUID REFERENCES companies(id) ON DELETE CASCADE,
			contact_id UUID REFERENCES contacts(id) ON DELETE SET NULL,
			close_date DATE,
			custom_fields JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_by TEXT NOT NULL,
			updated_by TEXT NOT NULL,
			CONSTRAINT deals_probability_check CHECK (probability BETWEEN 0 AND 100)
		)`,
		`CREATE INDEX idx_deals_company_id ON deals (company_id)`,
		`CREATE INDEX idx_deals_contact_id ON deals (contact_id)`,
		`CREATE INDEX idx_deals_stage ON deals (stage)`,
		`CREATE INDEX idx_deals_created_at ON deals (created_at DESC)`,

		`CREATE TABLE tasks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'open',
			due_date DATE,
			assignee TEXT,
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_by TEXT NOT NULL,
			updated_by TEXT NOT NULL,
			CONSTRAINT tasks_status_check CHECK (status IN ('open', 'closed'))
		)`,
		`CREATE INDEX idx_tasks_entity ON tasks (entity_type, entity_id)`,
		`CREATE INDEX idx_tasks_status ON tasks (status)`,
		`CREATE INDEX idx_tasks_assignee ON tasks (assignee)`,
		`CREATE INDEX idx_tasks_due_date ON tasks (due_date)`,
		`CREATE INDEX idx_tasks_created_at ON tasks (created_at DESC)`,

		`CREATE TABLE notes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			body TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_by TEXT NOT NULL,
			updated_by TEXT NOT NULL
		)`,
		`CREATE INDEX idx_notes_entity ON notes (entity_type, entity_id)`,
		`CREATE INDEX idx_notes_created_at ON notes (created_at DESC)`,

		`CREATE TABLE custom_field_definitions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type TEXT NOT NULL,
			name TEXT NOT NULL,
			label TEXT NOT NULL,
			kind TEXT NOT NULL,
			enum_values JSONB,
			required BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_by TEXT NOT NULL,
			CONSTRAINT custom_field_definitions_entity_type_name_key UNIQUE (entity_type, name),
			CONSTRAINT custom_field_definitions_kind_check CHECK (kind IN ('text', 'number', 'date', 'enum', 'boolean'))
		)`,
		`CREATE INDEX idx_custom_field_definitions_entity_type ON custom_field_definitions (entity_type)`,

		`CREATE TABLE audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			action TEXT NOT NULL,
			actor TEXT NOT NULL,
			changes JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT audit_logs_action_check CHECK (action IN ('create', 'update', 'delete'))
		)`,
		`CREATE INDEX idx_audit_logs_entity ON audit_logs (entity_type, entity_id)`,
		`CREATE INDEX idx_audit_logs_actor ON audit_logs (actor)`,
		`CREATE INDEX idx_audit_logs_created_at ON audit_logs (created_at DESC)`,
	},
}

// Migrate applies all pending migrations. Each group runs in its own
// transaction together with the version bookkeeping, so a failed group
// leaves the version table untouched.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", version, err)
		}

		applyErr := func() error {
			for _, stmt := range migrations[i] {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d: %w", version, err)
				}
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return fmt.Errorf("migration %d: record version: %w", version, err)
			}
			return nil
		}()
		if applyErr != nil {
			_ = tx.Rollback(ctx)
			return applyErr
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("migration %d: commit: %w", version, err)
		}
	}

	return nil
}

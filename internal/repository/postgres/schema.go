package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaStatements returns the DDL for every table, in dependency order.
func schemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id            BIGSERIAL PRIMARY KEY,
			name          VARCHAR(120) NOT NULL,
			email         VARCHAR(190) NOT NULL,
			password_hash TEXT NOT NULL,
			role          VARCHAR(16) NOT NULL DEFAULT 'USER' CHECK (role IN ('ADMIN', 'USER')),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Users),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (lower(email))`,
			t.Index("users_email_key"), t.Users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			name        VARCHAR(160) NOT NULL,
			description TEXT,
			status      VARCHAR(16) NOT NULL DEFAULT 'ACTIVE'
			            CHECK (status IN ('PLANNED', 'ACTIVE', 'ON_HOLD', 'DONE')),
			created_by  BIGINT REFERENCES %s (id) ON DELETE SET NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Projects, t.Users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			project_id  BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			title       VARCHAR(200) NOT NULL,
			description TEXT,
			status      VARCHAR(16) NOT NULL DEFAULT 'TODO'
			            CHECK (status IN ('TODO', 'IN_PROGRESS', 'REVIEW', 'DONE')),
			priority    VARCHAR(16) NOT NULL DEFAULT 'MEDIUM'
			            CHECK (priority IN ('LOW', 'MEDIUM', 'HIGH', 'URGENT')),
			assigned_to BIGINT REFERENCES %s (id) ON DELETE SET NULL,
			due_date    DATE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Tasks, t.Projects, t.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (project_id)`, t.Index("tasks_project_id_idx"), t.Tasks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (assigned_to)`, t.Index("tasks_assigned_to_idx"), t.Tasks),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			name       VARCHAR(160) NOT NULL,
			email      VARCHAR(190),
			phone      VARCHAR(40),
			status     VARCHAR(16) NOT NULL DEFAULT 'NEW'
			           CHECK (status IN ('NEW', 'QUALIFIED', 'WON', 'LOST')),
			notes      TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Leads),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			title      VARCHAR(200) NOT NULL,
			content    TEXT NOT NULL,
			created_by BIGINT REFERENCES %s (id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Notes, t.Users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			title       VARCHAR(200) NOT NULL,
			description TEXT,
			status      VARCHAR(16) NOT NULL DEFAULT 'OPEN'
			            CHECK (status IN ('OPEN', 'IN_PROGRESS', 'DONE')),
			created_by  BIGINT REFERENCES %s (id) ON DELETE SET NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Requirements, t.Users),
	}
}

// EnsureSchema creates any missing tables and indexes. It is idempotent.
func EnsureSchema(ctx context.Context, config *RepositoryConfig) error {
	for _, stmt := range schemaStatements(config.Tables) {
		if _, err := config.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if config.Logger != nil {
		config.Logger.Info("schema ready", slog.String("prefix", config.Tables.Prefix))
	}
	return nil
}

// DropSchema drops every table with the configured prefix.
func DropSchema(ctx context.Context, config *RepositoryConfig) error {
	tables := config.Tables.all()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := config.Pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables[i])); err != nil {
			return fmt.Errorf("drop %s: %w", tables[i], err)
		}
	}
	if config.Logger != nil {
		config.Logger.Warn("schema dropped", slog.String("prefix", config.Tables.Prefix))
	}
	return nil
}

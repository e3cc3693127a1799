package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Verger store (PostgreSQL).
var Migrations = migrate.NewGroup("verger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_customizations",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS verger_customizations (
    id                  TEXT PRIMARY KEY,
    tenant_id           TEXT NOT NULL,
    role_slug           TEXT NOT NULL,
    permissions_add     JSONB NOT NULL DEFAULT '[]',
    permissions_remove  JSONB NOT NULL DEFAULT '[]',
    pages_add           JSONB NOT NULL DEFAULT '[]',
    pages_remove        JSONB NOT NULL DEFAULT '[]',
    is_active           BOOLEAN NOT NULL DEFAULT TRUE,
    created_by          TEXT NOT NULL DEFAULT '',
    notes               TEXT NOT NULL DEFAULT '',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(tenant_id, role_slug)
);

CREATE INDEX IF NOT EXISTS idx_verger_cust_tenant ON verger_customizations (tenant_id);
CREATE INDEX IF NOT EXISTS idx_verger_cust_active ON verger_customizations (tenant_id, is_active);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS verger_customizations`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_decisions",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS verger_decisions (
    id              TEXT PRIMARY KEY,
    tenant_id       TEXT NOT NULL,
    user_id         TEXT NOT NULL,
    role_slug       TEXT NOT NULL,
    kind            TEXT NOT NULL,
    object          TEXT NOT NULL,
    allowed         BOOLEAN NOT NULL,
    source          TEXT NOT NULL DEFAULT '',
    eval_time_ns    BIGINT NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_verger_dec_tenant ON verger_decisions (tenant_id);
CREATE INDEX IF NOT EXISTS idx_verger_dec_user ON verger_decisions (tenant_id, user_id);
CREATE INDEX IF NOT EXISTS idx_verger_dec_object ON verger_decisions (tenant_id, kind, object);
CREATE INDEX IF NOT EXISTS idx_verger_dec_allowed ON verger_decisions (tenant_id, allowed);
CREATE INDEX IF NOT EXISTS idx_verger_dec_created ON verger_decisions (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS verger_decisions`)
				return err
			},
		},
	)
}

package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the document store (Postgres).
var Migrations = migrate.NewGroup("leash")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_documents",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS paw_documents (
    id          TEXT PRIMARY KEY,
    collection  TEXT NOT NULL,
    doc_id      TEXT NOT NULL,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(collection, doc_id)
);

CREATE INDEX IF NOT EXISTS idx_paw_documents_collection ON paw_documents (collection);
CREATE INDEX IF NOT EXISTS idx_paw_documents_user ON paw_documents (collection, (data->>'userId'));
CREATE INDEX IF NOT EXISTS idx_paw_documents_shelter ON paw_documents (collection, (data->>'shelterId'));
CREATE INDEX IF NOT EXISTS idx_paw_documents_sender ON paw_documents (collection, (data->>'senderId'));
CREATE INDEX IF NOT EXISTS idx_paw_documents_recipient ON paw_documents (collection, (data->>'recipientId'));
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS paw_documents`)
				return err
			},
		},
	)
}

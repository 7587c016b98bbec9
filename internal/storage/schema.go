package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode and pragmas are configured in db.go.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if err := createProcessesTable(ctx, db); err != nil {
		return err
	}

	if err := createCategoriesTable(ctx, db); err != nil {
		return err
	}

	if err := createFaqLinksTable(ctx, db); err != nil {
		return err
	}

	return createConsultationsTable(ctx, db)
}

func createProcessesTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS processes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_processes_active ON processes(active);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create processes table: %w", err)
	}

	return nil
}

func createCategoriesTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_categories_active ON categories(active);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}

	return nil
}

func createFaqLinksTable(ctx context.Context, db *sql.DB) error {
	// The partial unique index enforces the invariant: at most one active
	// FAQ link per (process, category) pair. Inactive links may accumulate.
	query := `
	CREATE TABLE IF NOT EXISTS faq_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		process_id INTEGER NOT NULL REFERENCES processes(id),
		category_id INTEGER NOT NULL REFERENCES categories(id),
		response TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_faq_links_active_pair
		ON faq_links(process_id, category_id) WHERE active = 1;
	CREATE INDEX IF NOT EXISTS idx_faq_links_active ON faq_links(active);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create faq_links table: %w", err)
	}

	return nil
}

func createConsultationsTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS consultations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		faq_link_id INTEGER NOT NULL REFERENCES faq_links(id),
		user_id TEXT,
		action TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_consultations_faq_link ON consultations(faq_link_id);
	CREATE INDEX IF NOT EXISTS idx_consultations_action ON consultations(action);
	CREATE INDEX IF NOT EXISTS idx_consultations_created_at ON consultations(created_at);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create consultations table: %w", err)
	}

	return nil
}

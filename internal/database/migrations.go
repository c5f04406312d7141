package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a single schema change applied exactly once.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the full, ordered schema history.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				firstname TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		{
			Version:     2,
			Description: "Create transactions table",
			SQL: `CREATE TABLE IF NOT EXISTS transactions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				type TEXT NOT NULL CHECK (type IN ('expense', 'revenue')),
				amount REAL NOT NULL,
				description TEXT NOT NULL,
				category TEXT NOT NULL,
				payment_method TEXT,
				date DATE NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     3,
			Description: "Create financial objectives table",
			SQL: `CREATE TABLE IF NOT EXISTS financial_objectives (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				target_amount REAL NOT NULL,
				current_amount REAL NOT NULL DEFAULT 0,
				deadline DATE,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     4,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
			CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date);
			CREATE INDEX IF NOT EXISTS idx_objectives_user ON financial_objectives(user_id)`,
		},
	}
}

// Migrate applies all migrations newer than the current schema version.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %v", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %v", err)
	}

	for _, m := range Migrations() {
		if m.Version <= current {
			continue
		}
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %v", m.Version, m.Description, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`, m.Version, m.Description); err != nil {
			return fmt.Errorf("failed to record migration %d: %v", m.Version, err)
		}
		log.Printf("[DB] Applied migration %d: %s", m.Version, m.Description)
	}

	return nil
}

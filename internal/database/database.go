package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/moneytrack-io/moneytrack/internal/config"
)

// Open connects to the SQLite database described by cfg and applies any
// pending migrations. Foreign keys are always enabled so owner deletes
// cascade to transactions and objectives.
func Open(cfg *config.Config) (*sql.DB, error) {
	dataDir := filepath.Dir(cfg.Database.Path)
	if dataDir != "." {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	dsn := cfg.Database.Path + "?_foreign_keys=on"
	if cfg.Database.WALMode {
		dsn += "&_journal=WAL"
	}

	var db *sql.DB
	var lastErr error
	for i := 0; i < cfg.Database.MaxRetries; i++ {
		var err error
		db, err = sql.Open("sqlite3", dsn)
		if err != nil {
			lastErr = fmt.Errorf("failed to open database: %v", err)
			log.Printf("Attempt %d/%d failed: %v", i+1, cfg.Database.MaxRetries, lastErr)
			time.Sleep(time.Duration(cfg.Database.RetryDelay) * time.Second)
			continue
		}

		if err := db.Ping(); err != nil {
			lastErr = fmt.Errorf("failed to ping database: %v", err)
			log.Printf("Attempt %d/%d failed: %v", i+1, cfg.Database.MaxRetries, lastErr)
			db.Close()
			db = nil
			time.Sleep(time.Duration(cfg.Database.RetryDelay) * time.Second)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %v", cfg.Database.MaxRetries, lastErr)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("[DB] Database initialized at %s (WAL mode: %v)", cfg.Database.Path, cfg.Database.WALMode)
	return db, nil
}

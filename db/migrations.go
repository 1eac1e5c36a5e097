package db

import (
	"fmt"
	"log"
	"time"
)

// Migration rappresenta una singola migration del database
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Tutte le migration disponibili in ordine di versione
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		// Applicata da InitTables(), registrata solo per tracking
		SQL: "",
	},
	{
		Version:     2,
		Description: "Index reaction_messages by chat",
		SQL:         `CREATE INDEX idx_reaction_messages_chat ON reaction_messages(chat_id)`,
	},
	{
		Version:     3,
		Description: "Index reaction_messages by timestamp",
		SQL:         `CREATE INDEX idx_reaction_messages_ts ON reaction_messages(ts)`,
	},
}

// ApplyMigrations applica tutte le migration necessarie
func (m *SQLManager) ApplyMigrations() error {
	log.Println("🔄 Controllo migration del database...")

	// Crea la tabella delle migration se non esiste
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("errore nella creazione della tabella migrations: %w", err)
	}

	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("errore nel recupero della versione attuale: %w", err)
	}

	log.Printf("📊 Versione database attuale: %d", currentVersion)

	applied := 0
	for _, migration := range migrations {
		if migration.Version > currentVersion {
			log.Printf("🔄 Applicando migration %d: %s", migration.Version, migration.Description)

			if err := m.applyMigration(migration); err != nil {
				return fmt.Errorf("errore nell'applicazione della migration %d: %w", migration.Version, err)
			}

			applied++
			log.Printf("✅ Migration %d applicata con successo", migration.Version)
		}
	}

	if applied == 0 {
		log.Println("✅ Database aggiornato, nessuna migration necessaria")
	} else {
		log.Printf("🎉 Applicate %d migration con successo", applied)
	}

	return nil
}

// createMigrationsTable crea la tabella per tracciare le migration
func (m *SQLManager) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			description VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// getCurrentVersion ottiene la versione corrente del database
func (m *SQLManager) getCurrentVersion() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// applyMigration applica una singola migration
func (m *SQLManager) applyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if migration.SQL != "" {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("errore nell'esecuzione SQL: %w", err)
		}
	}

	// Registra la migration come applicata
	_, err = tx.Exec(`
		INSERT INTO schema_migrations (version, description, applied_at)
		VALUES (?, ?, ?)
	`, migration.Version, migration.Description, time.Now())

	if err != nil {
		return fmt.Errorf("errore nel registrare la migration: %w", err)
	}

	return tx.Commit()
}

// GetAppliedMigrations restituisce tutte le migration applicate
func (m *SQLManager) GetAppliedMigrations() ([]Migration, error) {
	rows, err := m.db.Query(`
		SELECT version, description
		FROM schema_migrations
		ORDER BY version ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appliedMigrations []Migration
	for rows.Next() {
		var migration Migration
		if err := rows.Scan(&migration.Version, &migration.Description); err != nil {
			return nil, err
		}
		appliedMigrations = append(appliedMigrations, migration)
	}

	return appliedMigrations, rows.Err()
}

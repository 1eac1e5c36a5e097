package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"whatsapp-reactions/models"
)

// SQLManager stores the corpus in a SQL table. The same queries run on
// MySQL and SQLite; only the driver and pool settings differ.
type SQLManager struct {
	db     *sql.DB
	driver string
}

// Crea una nuova istanza del gestore MySQL
func NewMySQLManager(dsn string) (*SQLManager, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Verifica la connessione
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Imposta i parametri di connessione
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLManager{db: db, driver: "mysql"}, nil
}

// NewSQLiteManager apre (o crea) un database SQLite locale
func NewSQLiteManager(path string) (*SQLManager, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Una sola connessione: ":memory:" non è condiviso tra connessioni
	db.SetMaxOpenConns(1)

	return &SQLManager{db: db, driver: "sqlite3"}, nil
}

func (m *SQLManager) GetDB() *sql.DB {
	return m.db
}

// Inizializza le tabelle necessarie
func (m *SQLManager) InitTables() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS reaction_messages (
			id VARCHAR(255) PRIMARY KEY,
			seq INT NOT NULL,
			sender VARCHAR(255) NOT NULL,
			ts BIGINT NOT NULL DEFAULT 0,
			chat_id VARCHAR(255) NOT NULL,
			chat_name VARCHAR(255) NOT NULL,
			reply_to VARCHAR(255) NULL,
			message_length INT NOT NULL DEFAULT 0,
			reactions TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("errore nella creazione della tabella reaction_messages: %w", err)
	}
	return nil
}

// Save sostituisce il contenuto della tabella con il corpus
func (m *SQLManager) Save(corpus *models.Corpus) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM reaction_messages"); err != nil {
		return fmt.Errorf("errore nella pulizia dei messaggi: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO reaction_messages
			(id, seq, sender, ts, chat_id, chat_name, reply_to, message_length, reactions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seq := 0
	var saveErr error
	corpus.Range(func(id string, rec *models.MessageRecord) bool {
		reactions := rec.Reactions
		if reactions == nil {
			reactions = models.NewReactions()
		}
		data, err := json.Marshal(reactions)
		if err != nil {
			saveErr = fmt.Errorf("errore nella codifica delle reazioni di %s: %w", id, err)
			return false
		}

		var replyTo sql.NullString
		if rec.ReplyTo != nil {
			replyTo = sql.NullString{String: *rec.ReplyTo, Valid: true}
		}

		_, err = stmt.Exec(id, seq, rec.Sender, rec.Timestamp, rec.ChatID, rec.ChatName,
			replyTo, rec.MessageLength, string(data))
		if err != nil {
			saveErr = fmt.Errorf("errore nel salvataggio del messaggio %s: %w", id, err)
			return false
		}
		seq++
		return true
	})
	if saveErr != nil {
		return saveErr
	}

	return tx.Commit()
}

// Carica tutti i messaggi nell'ordine di inserimento
func (m *SQLManager) Load() (*models.Corpus, error) {
	rows, err := m.db.Query(`
		SELECT id, sender, ts, chat_id, chat_name, reply_to, message_length, reactions
		FROM reaction_messages
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("errore nel caricamento dei messaggi: %w", err)
	}
	defer rows.Close()

	corpus := models.NewCorpus()
	for rows.Next() {
		var (
			id        string
			rec       models.MessageRecord
			replyTo   sql.NullString
			reactions string
		)
		if err := rows.Scan(&id, &rec.Sender, &rec.Timestamp, &rec.ChatID, &rec.ChatName,
			&replyTo, &rec.MessageLength, &reactions); err != nil {
			return nil, err
		}
		if replyTo.Valid {
			rec.ReplyTo = models.StringPtr(replyTo.String)
		}
		rec.Reactions = models.NewReactions()
		if err := json.Unmarshal([]byte(reactions), rec.Reactions); err != nil {
			return nil, fmt.Errorf("errore nella decodifica delle reazioni di %s: %w", id, err)
		}
		corpus.Set(id, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return corpus, nil
}

// Clear elimina tutti i messaggi
func (m *SQLManager) Clear() error {
	_, err := m.db.Exec("DELETE FROM reaction_messages")
	return err
}

// Chiude la connessione al database
func (m *SQLManager) Close() error {
	return m.db.Close()
}

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Configurazione del database
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// Configurazione del server
type ServerConfig struct {
	Port int `json:"port"`
}

// Backend di persistenza dello store
type StorageConfig struct {
	Backend    string `json:"backend"`
	BoltPath   string `json:"boltPath"`
	SQLitePath string `json:"sqlitePath"`
}

// AnalyticsConfig: fuso orario per i bucket temporali e metriche JS
// calcolate sul documento delle statistiche.
type AnalyticsConfig struct {
	Timezone      string            `json:"timezone"`
	CustomMetrics map[string]string `json:"customMetrics"`
}

// Sorgente live via whatsmeow
type WhatsAppConfig struct {
	Enabled   bool   `json:"enabled"`
	SessionDB string `json:"sessionDB"`
}

// Configurazione completa
type Config struct {
	Database  DatabaseConfig  `json:"database"`
	Server    ServerConfig    `json:"server"`
	Storage   StorageConfig   `json:"storage"`
	Analytics AnalyticsConfig `json:"analytics"`
	WhatsApp  WhatsAppConfig  `json:"whatsapp"`
}

const (
	BackendBolt   = "bolt"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultConfig è usata quando il file di configurazione non esiste
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Host: "localhost", Port: 3306, DBName: "whatsapp_reactions"},
		Server:   ServerConfig{Port: 8080},
		Storage: StorageConfig{
			Backend:    BackendBolt,
			BoltPath:   "reactions.db",
			SQLitePath: "reactions.sqlite",
		},
		WhatsApp: WhatsAppConfig{SessionDB: "file:whatsmeow.db?_foreign_keys=on"},
	}
}

// Carica la configurazione dal file. Un file mancante restituisce i default,
// i campi assenti nel file mantengono il valore di default.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("errore nell'apertura del file di configurazione: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("errore nella decodifica del file di configurazione: %w", err)
	}

	switch config.Storage.Backend {
	case BackendBolt, BackendMySQL, BackendSQLite, BackendMemory:
	case "":
		config.Storage.Backend = BackendBolt
	default:
		return nil, fmt.Errorf("backend di storage sconosciuto: %q", config.Storage.Backend)
	}

	if _, err := config.Location(); err != nil {
		return nil, err
	}
	return config, nil
}

// Location restituisce il fuso orario configurato, time.Local se vuoto
func (c *Config) Location() (*time.Location, error) {
	if c.Analytics.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso orario non valido %q: %w", c.Analytics.Timezone, err)
	}
	return loc, nil
}

// Ottieni la stringa di connessione al database
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

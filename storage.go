package main

import (
	"fmt"

	"whatsapp-reactions/db"
	"whatsapp-reactions/persistence"
	"whatsapp-reactions/store"
	"whatsapp-reactions/utils"
)

// openPersister apre il backend configurato; "memory" restituisce nil
func openPersister(config *utils.Config) (store.Persister, error) {
	switch config.Storage.Backend {
	case utils.BackendMemory:
		return nil, nil

	case utils.BackendMySQL:
		manager, err := db.NewMySQLManager(config.Database.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("errore nella connessione al database MySQL: %w", err)
		}
		return prepareSQL(manager)

	case utils.BackendSQLite:
		manager, err := db.NewSQLiteManager(config.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("errore nell'apertura del database SQLite: %w", err)
		}
		return prepareSQL(manager)

	default:
		pm, err := persistence.NewPersistenceManager(config.Storage.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("errore nell'apertura del database bolt: %w", err)
		}
		return pm, nil
	}
}

func prepareSQL(manager *db.SQLManager) (store.Persister, error) {
	if err := manager.InitTables(); err != nil {
		manager.Close()
		return nil, err
	}
	if err := manager.ApplyMigrations(); err != nil {
		manager.Close()
		return nil, err
	}
	return manager, nil
}

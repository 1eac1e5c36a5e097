package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"whatsapp-reactions/models"
)

var (
	messagesBucket = []byte("messages")
	metaBucket     = []byte("meta")
	orderKey       = []byte("order")
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("persistence: database chiuso")

// PersistenceManager keeps the corpus in a bbolt file: one JSON value per
// message plus the id order in the meta bucket.
type PersistenceManager struct {
	db     *bbolt.DB
	mu     sync.RWMutex
	closed bool
}

func NewPersistenceManager(path string) (*PersistenceManager, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(messagesBucket)
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists(metaBucket)
		return err
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &PersistenceManager{db: db}, nil
}

// Salva l'intero corpus sostituendo quello precedente
func (pm *PersistenceManager) Save(corpus *models.Corpus) error {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.closed {
		return ErrClosed
	}

	return pm.db.Update(func(tx *bbolt.Tx) error {
		if err := resetBuckets(tx); err != nil {
			return err
		}
		messages := tx.Bucket(messagesBucket)

		order := corpus.Keys()
		for _, id := range order {
			rec, _ := corpus.Get(id)
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("errore nella codifica del messaggio %s: %w", id, err)
			}
			if err := messages.Put([]byte(id), data); err != nil {
				return err
			}
		}

		data, err := json.Marshal(order)
		if err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(orderKey, data)
	})
}

// Carica tutti i messaggi nell'ordine in cui sono stati salvati
func (pm *PersistenceManager) Load() (*models.Corpus, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.closed {
		return nil, ErrClosed
	}

	corpus := models.NewCorpus()
	err := pm.db.View(func(tx *bbolt.Tx) error {
		messages := tx.Bucket(messagesBucket)
		meta := tx.Bucket(metaBucket)
		if messages == nil || meta == nil {
			return nil
		}

		var order []string
		if raw := meta.Get(orderKey); raw != nil {
			if err := json.Unmarshal(raw, &order); err != nil {
				return fmt.Errorf("errore nella decodifica dell'ordine: %w", err)
			}
		}

		for _, id := range order {
			data := messages.Get([]byte(id))
			if data == nil {
				continue
			}
			rec, err := decodeRecord(data)
			if err != nil {
				return fmt.Errorf("errore nella decodifica del messaggio %s: %w", id, err)
			}
			corpus.Set(id, rec)
		}

		// Messaggi senza posizione registrata: ordine delle chiavi
		cursor := messages.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if corpus.Has(string(k)) {
				continue
			}
			rec, err := decodeRecord(v)
			if err != nil {
				return fmt.Errorf("errore nella decodifica del messaggio %s: %w", k, err)
			}
			corpus.Set(string(k), rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return corpus, nil
}

// Cancella tutti i messaggi salvati
func (pm *PersistenceManager) Clear() error {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.closed {
		return ErrClosed
	}
	return pm.db.Update(resetBuckets)
}

func (pm *PersistenceManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.closed {
		return nil
	}
	pm.closed = true
	return pm.db.Close()
}

func resetBuckets(tx *bbolt.Tx) error {
	for _, name := range [][]byte{messagesBucket, metaBucket} {
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		if _, err := tx.CreateBucket(name); err != nil {
			return err
		}
	}
	return nil
}

func decodeRecord(data []byte) (*models.MessageRecord, error) {
	var rec models.MessageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Reactions == nil {
		rec.Reactions = models.NewReactions()
	}
	return &rec, nil
}

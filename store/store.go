package store

import (
	"log"
	"sync"

	"whatsapp-reactions/models"
)

// Persister salva e ricarica il corpus completo
type Persister interface {
	Save(corpus *models.Corpus) error
	Load() (*models.Corpus, error)
	Clear() error
	Close() error
}

// Store keeps every scraped message in memory, in first-seen order.
// Mutations are serialized; persistence runs behind them on a single worker.
type Store struct {
	mu        sync.RWMutex
	records   *models.Corpus
	persister Persister
	queue     *jobQueue

	listenersMu sync.Mutex
	listeners   []func(total int)
}

// New crea uno store. p può essere nil (solo memoria).
func New(p Persister) *Store {
	s := &Store{
		records:   models.NewCorpus(),
		persister: p,
	}
	if p != nil {
		s.queue = newJobQueue()
		go s.runPersistence()
	}
	return s
}

// Restore loads the persisted corpus into memory without writing it back.
func (s *Store) Restore() error {
	if s.persister == nil {
		return nil
	}
	corpus, err := s.persister.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = models.NewCorpus()
	corpus.Range(func(id string, rec *models.MessageRecord) bool {
		if rec != nil {
			mergeRecord(s.records, id, rec)
		}
		return true
	})
	total := s.records.Len()
	s.mu.Unlock()

	log.Printf("✅ Caricati %d messaggi dallo storage", total)
	return nil
}

// Merge applies a scraped batch and schedules a save. It returns the store size.
func (s *Store) Merge(batch *models.Batch) int {
	return s.apply(batch)
}

// ImportCorpus merges an exported corpus with the same rules as Merge.
func (s *Store) ImportCorpus(doc *models.Corpus) int {
	return s.apply(doc)
}

func (s *Store) apply(doc *models.Corpus) int {
	s.mu.Lock()
	doc.Range(func(id string, rec *models.MessageRecord) bool {
		if id != "" && rec != nil {
			mergeRecord(s.records, id, rec)
		}
		return true
	})
	total := s.records.Len()
	s.enqueue(jobSave)
	s.mu.Unlock()

	s.notify(total)
	return total
}

// ExportCorpus returns a deep copy of every record.
func (s *Store) ExportCorpus() *models.Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.NewCorpus()
	s.records.Range(func(id string, rec *models.MessageRecord) bool {
		out.Set(id, rec.Clone())
		return true
	})
	return out
}

// Clear empties memory and discards the persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = models.NewCorpus()
	s.enqueue(jobClear)
	s.mu.Unlock()

	log.Println("🗑️ Store svuotato")
	s.notify(0)
}

// StoredChats lists every chat id with the last name seen for it.
func (s *Store) StoredChats() []models.ChatInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := models.NewOrderedMap[string]()
	s.records.Range(func(_ string, rec *models.MessageRecord) bool {
		if rec.ChatID == "" {
			return true
		}
		name := rec.ChatName
		if name == "" {
			name = rec.ChatID
		}
		names.Set(rec.ChatID, name)
		return true
	})

	chats := make([]models.ChatInfo, 0, names.Len())
	names.Range(func(id, name string) bool {
		chats = append(chats, models.ChatInfo{ID: id, Name: name, Type: models.ChatTypeStored})
		return true
	})
	return chats
}

// Snapshot returns copies of the records of one chat, or of all chats when chatID is empty.
func (s *Store) Snapshot(chatID string) []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.Entry, 0, s.records.Len())
	s.records.Range(func(id string, rec *models.MessageRecord) bool {
		if chatID == "" || rec.ChatID == chatID {
			entries = append(entries, models.Entry{ID: id, Record: rec.Clone()})
		}
		return true
	})
	return entries
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Len()
}

// OnChange registers fn to be called with the store size after every mutation.
func (s *Store) OnChange(fn func(total int)) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

func (s *Store) notify(total int) {
	s.listenersMu.Lock()
	listeners := append([]func(int){}, s.listeners...)
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(total)
	}
}

// mergeRecord applies the create-or-merge rule for one incoming record.
// Scalar fields only overwrite when the incoming value is non-empty;
// reactions are set per (emoji, reactor) pair, never summed.
func mergeRecord(records *models.Corpus, id string, in *models.MessageRecord) {
	rec, ok := records.Get(id)
	if !ok || rec == nil {
		rec = &models.MessageRecord{
			Sender:    models.UnknownSender,
			Reactions: models.NewReactions(),
			ChatID:    models.DefaultChatID,
			ChatName:  models.DefaultChatName,
		}
		records.Set(id, rec)
	}

	if in.Sender != "" {
		rec.Sender = in.Sender
	}
	if in.Timestamp > 0 {
		rec.Timestamp = in.Timestamp
	}
	if in.ChatID != "" {
		rec.ChatID = in.ChatID
	}
	if in.ChatName != "" {
		rec.ChatName = in.ChatName
	}
	if in.ReplyTo != nil && *in.ReplyTo != "" {
		rec.ReplyTo = models.StringPtr(*in.ReplyTo)
	}
	if in.MessageLength > 0 {
		rec.MessageLength = in.MessageLength
	}

	in.Reactions.Range(func(emoji string, reactors *models.ReactorCounts) bool {
		target := rec.EmojiReactors(emoji)
		reactors.Range(func(reactor string, count int) bool {
			target.Set(reactor, count)
			return true
		})
		return true
	})
}

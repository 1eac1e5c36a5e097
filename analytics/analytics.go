package analytics

import (
	"errors"
	"fmt"
	"log"
	"time"

	"whatsapp-reactions/models"
	"whatsapp-reactions/serialize"
	"whatsapp-reactions/stats"
)

// ErrComputation is returned when the engine fails on a snapshot.
var ErrComputation = errors.New("errore nel calcolo delle statistiche")

// Source is the part of the store the analytics read from.
type Source interface {
	Snapshot(chatID string) []models.Entry
	StoredChats() []models.ChatInfo
	Len() int
}

// Service answers stats queries against a store snapshot.
type Service struct {
	source  Source
	loc     *time.Location
	now     func() time.Time
	metrics *MetricSet
}

type Option func(*Service)

// WithLocation sets the zone used for hourly, weekly and daily buckets.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics adds JavaScript metrics evaluated on every stats document.
func WithMetrics(m *MetricSet) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{source: source, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats computes the full document for one chat, or for every chat when
// chatID is empty. noData is true when the store holds nothing at all.
func (s *Service) Stats(chatID string) (doc serialize.Document, noData bool, err error) {
	if s.source.Len() == 0 {
		return nil, true, nil
	}

	entries := s.source.Snapshot(chatID)
	err = s.guard(func() {
		result := stats.Calculate(entries, stats.Options{ChatID: chatID, Location: s.loc, Now: s.now})
		doc = serialize.Stats(result)
	})
	if err != nil {
		return nil, false, err
	}

	if s.metrics.Len() > 0 {
		doc["customMetrics"] = s.metrics.Evaluate(doc)
	}
	log.Printf("📊 Statistiche calcolate su %d messaggi (chat: %q)", len(entries), chatID)
	return doc, false, nil
}

// QuickStats returns the headline counters for one chat or all chats.
func (s *Service) QuickStats(chatID string) (doc serialize.Document, noData bool, err error) {
	if s.source.Len() == 0 {
		return nil, true, nil
	}
	entries := s.source.Snapshot(chatID)
	err = s.guard(func() {
		doc = serialize.Quick(stats.Quick(entries))
	})
	return doc, false, err
}

// Temporal returns only the time buckets, used by the chart endpoint.
func (s *Service) Temporal(chatID string) (ta stats.TemporalAnalysis, noData bool, err error) {
	if s.source.Len() == 0 {
		return ta, true, nil
	}
	entries := s.source.Snapshot(chatID)
	err = s.guard(func() {
		ta = stats.Calculate(entries, stats.Options{ChatID: chatID, Location: s.loc, Now: s.now}).Temporal
	})
	return ta, false, err
}

func (s *Service) Chats() []models.ChatInfo {
	return s.source.StoredChats()
}

// guard turns a panic inside the engine into ErrComputation.
func (s *Service) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Errore nel calcolo delle statistiche: %v", r)
			err = fmt.Errorf("%w: %v", ErrComputation, r)
		}
	}()
	fn()
	return nil
}

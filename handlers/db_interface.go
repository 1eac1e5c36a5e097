package handlers

import (
	"whatsapp-reactions/models"
	"whatsapp-reactions/serialize"
	"whatsapp-reactions/stats"
)

// StoreManager è l'interfaccia dello store usata dalle route
type StoreManager interface {
	Merge(batch *models.Batch) int
	ImportCorpus(doc *models.Corpus) int
	ExportCorpus() *models.Corpus
	Clear()
	Len() int
}

// StatsProvider calcola le statistiche servite dalle route /api/stats
type StatsProvider interface {
	Stats(chatID string) (serialize.Document, bool, error)
	QuickStats(chatID string) (serialize.Document, bool, error)
	Temporal(chatID string) (stats.TemporalAnalysis, bool, error)
	Chats() []models.ChatInfo
}

package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-reactions/models"
)

type memPersister struct {
	mu      sync.Mutex
	saved   *models.Corpus
	saves   int
	clears  int
	failing bool
	closed  bool
}

func (m *memPersister) Save(c *models.Corpus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failing {
		return errors.New("disk full")
	}
	m.saved = c
	return nil
}

func (m *memPersister) Load() (*models.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return models.NewCorpus(), nil
	}
	return m.saved, nil
}

func (m *memPersister) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.saved = nil
	return nil
}

func (m *memPersister) Close() error {
	m.closed = true
	return nil
}

func batchOf(id string, rec *models.MessageRecord) *models.Batch {
	b := models.NewCorpus()
	b.Set(id, rec)
	return b
}

func TestMergeCreatesWithDefaults(t *testing.T) {
	s := New(nil)
	s.Merge(batchOf("m1", &models.MessageRecord{Sender: "A"}))

	rec, ok := s.ExportCorpus().Get("m1")
	require.True(t, ok)
	assert.Equal(t, "A", rec.Sender)
	assert.Equal(t, models.DefaultChatID, rec.ChatID)
	assert.Equal(t, models.DefaultChatName, rec.ChatName)
	assert.Nil(t, rec.ReplyTo)
	assert.Equal(t, 0, rec.MessageLength)
	assert.Equal(t, 0, rec.Reactions.Len())
}

func TestMergeKeepsGoodFields(t *testing.T) {
	s := New(nil)
	first := &models.MessageRecord{
		Sender:        "A",
		Timestamp:     1000,
		ChatID:        "family",
		ChatName:      "Family",
		ReplyTo:       models.StringPtr("B"),
		MessageLength: 12,
	}
	first.AddReaction("👍", "B", 1)
	s.Merge(batchOf("m1", first))

	second := &models.MessageRecord{ChatName: "Family 2", ReplyTo: models.StringPtr("")}
	second.AddReaction("👍", "B", 1)
	second.AddReaction("❤️", "C", 1)
	s.Merge(batchOf("m1", second))

	rec, _ := s.ExportCorpus().Get("m1")
	assert.Equal(t, "A", rec.Sender)
	assert.Equal(t, int64(1000), rec.Timestamp)
	assert.Equal(t, "family", rec.ChatID)
	assert.Equal(t, "Family 2", rec.ChatName)
	assert.Equal(t, "B", rec.ReplyTarget())
	assert.Equal(t, 12, rec.MessageLength)

	thumbs, _ := rec.Reactions.Get("👍")
	count, _ := thumbs.Get("B")
	assert.Equal(t, 1, count, "repeated scrape must not sum counts")
	assert.Equal(t, []string{"👍", "❤️"}, rec.Reactions.Keys())
}

func TestMergeIsIdempotent(t *testing.T) {
	s := New(nil)
	rec := &models.MessageRecord{Sender: "A", ChatID: "c", ChatName: "C", Timestamp: 5}
	rec.AddReaction("👍", "B", 1)

	s.Merge(batchOf("m1", rec))
	once := s.ExportCorpus()
	s.Merge(batchOf("m1", rec))
	twice := s.ExportCorpus()

	assert.Equal(t, once, twice)
}

func TestImportRoundTrip(t *testing.T) {
	src := New(nil)
	a := &models.MessageRecord{Sender: "A", ChatID: "c1", ChatName: "One", Timestamp: 10, ReplyTo: models.StringPtr("B"), MessageLength: 3}
	a.AddReaction("👍", "B", 2)
	a.EmojiReactors("🙏")
	b := &models.MessageRecord{Sender: "B", ChatID: "c2", ChatName: "Two", Timestamp: 20}
	src.Merge(batchOf("a", a))
	src.Merge(batchOf("b", b))

	dst := New(nil)
	dst.ImportCorpus(src.ExportCorpus())

	assert.Equal(t, src.ExportCorpus(), dst.ExportCorpus())
}

func TestImportDoesNotClobber(t *testing.T) {
	s := New(nil)
	s.Merge(batchOf("m1", &models.MessageRecord{Sender: "A", ChatName: "Chat", MessageLength: 9}))

	doc := models.NewCorpus()
	doc.Set("m1", &models.MessageRecord{})
	s.ImportCorpus(doc)

	rec, _ := s.ExportCorpus().Get("m1")
	assert.Equal(t, "A", rec.Sender)
	assert.Equal(t, "Chat", rec.ChatName)
	assert.Equal(t, 9, rec.MessageLength)
}

func TestStoredChatsKeepsLastName(t *testing.T) {
	s := New(nil)
	b := models.NewCorpus()
	b.Set("1", &models.MessageRecord{Sender: "A", ChatID: "fam", ChatName: "Family"})
	b.Set("2", &models.MessageRecord{Sender: "A", ChatID: "work", ChatName: "Work"})
	b.Set("3", &models.MessageRecord{Sender: "A", ChatID: "fam", ChatName: "Family ❤️"})
	s.Merge(b)

	assert.Equal(t, []models.ChatInfo{
		{ID: "fam", Name: "Family ❤️", Type: "stored"},
		{ID: "work", Name: "Work", Type: "stored"},
	}, s.StoredChats())
}

func TestSnapshotFiltersByChat(t *testing.T) {
	s := New(nil)
	b := models.NewCorpus()
	b.Set("1", &models.MessageRecord{Sender: "A", ChatID: "x"})
	b.Set("2", &models.MessageRecord{Sender: "B", ChatID: "y"})
	b.Set("3", &models.MessageRecord{Sender: "C", ChatID: "x"})
	s.Merge(b)

	entries := s.Snapshot("x")
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "3", entries[1].ID)
	assert.Len(t, s.Snapshot(""), 3)

	entries[0].Record.Sender = "mutated"
	assert.Equal(t, "A", s.Snapshot("x")[0].Record.Sender)
}

func TestPersistenceFollowsMutations(t *testing.T) {
	p := &memPersister{}
	s := New(p)
	s.Merge(batchOf("m1", &models.MessageRecord{Sender: "A"}))
	s.Sync()

	require.NotNil(t, p.saved)
	assert.Equal(t, 1, p.saved.Len())

	s.Clear()
	s.Sync()
	assert.Nil(t, p.saved)
	assert.Equal(t, 1, p.clears)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Close())
	assert.True(t, p.closed)
}

func TestPersistenceFailureDoesNotRollBack(t *testing.T) {
	p := &memPersister{failing: true}
	s := New(p)
	total := s.Merge(batchOf("m1", &models.MessageRecord{Sender: "A"}))
	s.Sync()

	assert.Equal(t, 1, total)
	assert.Equal(t, 1, s.Len())
	assert.GreaterOrEqual(t, p.saves, 1)
}

func TestRestoreDoesNotSave(t *testing.T) {
	seed := models.NewCorpus()
	seed.Set("m1", &models.MessageRecord{Sender: "A", ChatID: "c", ChatName: "C"})
	p := &memPersister{saved: seed}

	s := New(p)
	require.NoError(t, s.Restore())
	s.Sync()

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, p.saves)
}

func TestOnChangeReportsTotal(t *testing.T) {
	s := New(nil)
	var got []int
	s.OnChange(func(total int) { got = append(got, total) })

	s.Merge(batchOf("m1", &models.MessageRecord{Sender: "A"}))
	s.Merge(batchOf("m2", &models.MessageRecord{Sender: "B"}))
	s.Clear()

	assert.Equal(t, []int{1, 2, 0}, got)
}

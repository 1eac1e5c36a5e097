package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-reactions/models"
	"whatsapp-reactions/store"
)

var fixed = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func seeded(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(nil)

	batch := models.NewCorpus()
	a := &models.MessageRecord{Sender: "A", ChatID: "family", ChatName: "Family", Timestamp: fixed.UnixMilli()}
	a.AddReaction("👍", "B", 1)
	batch.Set("m1", a)
	batch.Set("m2", &models.MessageRecord{Sender: "B", ChatID: "family", ChatName: "Family", Timestamp: fixed.UnixMilli()})
	w := &models.MessageRecord{Sender: "C", ChatID: "work", ChatName: "Work", Timestamp: fixed.UnixMilli()}
	w.AddReaction("😂", "A", 1)
	w.AddReaction("😂", "B", 1)
	batch.Set("m3", w)
	s.Merge(batch)
	return s
}

func TestStatsOnEmptyStoreIsNoData(t *testing.T) {
	svc := NewService(store.New(nil))

	doc, noData, err := svc.Stats("")
	require.NoError(t, err)
	assert.True(t, noData)
	assert.Nil(t, doc)

	_, noData, err = svc.QuickStats("")
	require.NoError(t, err)
	assert.True(t, noData)

	_, noData, err = svc.Temporal("")
	require.NoError(t, err)
	assert.True(t, noData)
}

func TestStatsAllChatsAndOneChat(t *testing.T) {
	svc := NewService(seeded(t), WithLocation(time.UTC), WithClock(func() time.Time { return fixed }))

	all, noData, err := svc.Stats("")
	require.NoError(t, err)
	assert.False(t, noData)
	assert.Equal(t, 3, all["totalMessages"])
	assert.Equal(t, 3, all["totalReactions"])
	assert.Nil(t, all["chatId"])
	assert.NotContains(t, all, "customMetrics")

	family, _, err := svc.Stats("family")
	require.NoError(t, err)
	assert.Equal(t, "family", family["chatId"])
	assert.Equal(t, 2, family["totalMessages"])
	assert.Equal(t, 1, family["totalReactions"])
}

func TestStatsUnknownChatIsZeroNotNoData(t *testing.T) {
	svc := NewService(seeded(t))
	doc, noData, err := svc.Stats("nope")
	require.NoError(t, err)
	assert.False(t, noData)
	assert.Equal(t, 0, doc["totalMessages"])
}

func TestQuickStats(t *testing.T) {
	svc := NewService(seeded(t))
	doc, _, err := svc.QuickStats("")
	require.NoError(t, err)
	assert.Equal(t, 3, doc["totalMessages"])
	assert.Equal(t, 3, doc["totalReactions"])
	assert.Equal(t, 3, doc["participants"])
	assert.Equal(t, 67, doc["dataQuality"])
}

func TestTemporalUsesLocation(t *testing.T) {
	svc := NewService(seeded(t), WithLocation(time.FixedZone("CET", 3600)))
	ta, _, err := svc.Temporal("")
	require.NoError(t, err)
	assert.Equal(t, 3, ta.HourlyActivity[13].Messages)
}

func TestChats(t *testing.T) {
	svc := NewService(seeded(t))
	assert.Equal(t, []models.ChatInfo{
		{ID: "family", Name: "Family", Type: models.ChatTypeStored},
		{ID: "work", Name: "Work", Type: models.ChatTypeStored},
	}, svc.Chats())
}

func TestGuardRecoversPanics(t *testing.T) {
	svc := NewService(store.New(nil))
	err := svc.guard(func() { panic("boom") })
	assert.ErrorIs(t, err, ErrComputation)
	assert.NoError(t, svc.guard(func() {}))
}

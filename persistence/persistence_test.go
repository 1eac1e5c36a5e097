package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-reactions/models"
)

func openTemp(t *testing.T) *PersistenceManager {
	t.Helper()
	pm, err := NewPersistenceManager(filepath.Join(t.TempDir(), "reactions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pm.Close() })
	return pm
}

func sampleCorpus() *models.Corpus {
	c := models.NewCorpus()
	z := &models.MessageRecord{Sender: "Zoe", ChatID: "fam", ChatName: "Family", Timestamp: 1700000000000, ReplyTo: models.StringPtr("Al"), MessageLength: 7}
	z.AddReaction("👍", "Al", 1)
	z.AddReaction("👍", "Bo", 1)
	c.Set("msg_zz", z)
	c.Set("msg_aa", &models.MessageRecord{Sender: "Al", ChatID: "fam", ChatName: "Family", Reactions: models.NewReactions()})
	return c
}

func TestSaveLoadKeepsOrderAndFields(t *testing.T) {
	pm := openTemp(t)
	require.NoError(t, pm.Save(sampleCorpus()))

	loaded, err := pm.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"msg_zz", "msg_aa"}, loaded.Keys())

	rec, _ := loaded.Get("msg_zz")
	assert.Equal(t, "Al", rec.ReplyTarget())
	assert.Equal(t, 7, rec.MessageLength)
	reactors, _ := rec.Reactions.Get("👍")
	assert.Equal(t, []string{"Al", "Bo"}, reactors.Keys())
}

func TestSaveReplacesPreviousContent(t *testing.T) {
	pm := openTemp(t)
	require.NoError(t, pm.Save(sampleCorpus()))

	small := models.NewCorpus()
	small.Set("only", &models.MessageRecord{Sender: "X"})
	require.NoError(t, pm.Save(small))

	loaded, err := pm.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, loaded.Keys())
}

func TestClear(t *testing.T) {
	pm := openTemp(t)
	require.NoError(t, pm.Save(sampleCorpus()))
	require.NoError(t, pm.Clear())

	loaded, err := pm.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestClosedManager(t *testing.T) {
	pm := openTemp(t)
	require.NoError(t, pm.Close())
	assert.ErrorIs(t, pm.Save(sampleCorpus()), ErrClosed)
	_, err := pm.Load()
	assert.ErrorIs(t, err, ErrClosed)
}

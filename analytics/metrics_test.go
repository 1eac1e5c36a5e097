package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-reactions/serialize"
)

func TestMetricSetEvaluates(t *testing.T) {
	m, err := NewMetricSet(map[string]string{
		"double":   "stats.totalReactions * 2",
		"senders":  "Object.keys(stats.messageCount).sort()",
		"missing":  "stats.nothing",
		"explodes": "stats.nothing.deeper",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())

	out := m.Evaluate(serialize.Document{
		"totalReactions": 3,
		"messageCount":   map[string]interface{}{"B": 1, "A": 2},
	})

	assert.EqualValues(t, 6, out["double"])
	assert.Equal(t, []interface{}{"A", "B"}, out["senders"])
	assert.Nil(t, out["missing"])
	assert.Contains(t, out["explodes"], "error")
}

func TestMetricSetRejectsSyntaxErrors(t *testing.T) {
	_, err := NewMetricSet(map[string]string{"bad": "stats.("})
	assert.Error(t, err)
}

func TestMetricSetTimesOut(t *testing.T) {
	m, err := NewMetricSet(map[string]string{"loop": "(function(){ for(;;){} })()"})
	require.NoError(t, err)
	m.timeout = 50 * time.Millisecond

	out := m.Evaluate(serialize.Document{})
	assert.Contains(t, out["loop"], "error")
}

func TestNilMetricSet(t *testing.T) {
	var m *MetricSet
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Evaluate(serialize.Document{}))
}

func TestStatsIncludesCustomMetrics(t *testing.T) {
	m, err := NewMetricSet(map[string]string{"messages": "stats.totalMessages"})
	require.NoError(t, err)

	svc := NewService(seeded(t), WithMetrics(m))
	doc, _, err := svc.Stats("")
	require.NoError(t, err)
	assert.EqualValues(t, 3, doc["customMetrics"].(map[string]interface{})["messages"])
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMapKeepsInsertionOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 10)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	m.Delete("alpha")
	assert.Equal(t, []string{"zeta", "mid"}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestOrderedMapJSONOrder(t *testing.T) {
	var m OrderedMap[int]
	require.NoError(t, json.Unmarshal([]byte(`{"b":2,"a":1,"c":3}`), &m))
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())

	out, err := json.Marshal(&m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2,"a":1,"c":3}`, string(out))
	assert.Equal(t, `{"b":2,"a":1,"c":3}`, string(out))
}

func TestOrderedMapRejectsArrays(t *testing.T) {
	var m OrderedMap[int]
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &m))
}

func TestNilOrderedMapIsEmpty(t *testing.T) {
	var m *OrderedMap[string]
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)
	m.Range(func(string, string) bool {
		t.Fatal("range over nil map")
		return true
	})
}

func TestMessageRecordClone(t *testing.T) {
	rec := &MessageRecord{Sender: "A", ReplyTo: StringPtr("B"), MessageLength: 4}
	rec.AddReaction("👍", "B", 1)

	cp := rec.Clone()
	cp.AddReaction("👍", "C", 1)
	*cp.ReplyTo = "Z"

	reactors, _ := rec.Reactions.Get("👍")
	assert.Equal(t, 1, reactors.Len())
	assert.Equal(t, "B", rec.ReplyTarget())
	assert.Equal(t, "Z", cp.ReplyTarget())
}

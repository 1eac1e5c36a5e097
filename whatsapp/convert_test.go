package whatsapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waCommon"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

type staticNames map[string]string

func (n staticNames) ChatName(chat types.JID, _ bool) string {
	if name, ok := n[chat.User]; ok {
		return name
	}
	return fallbackName(chat)
}

func (n staticNames) ContactName(jid types.JID, pushName string) string {
	if pushName != "" {
		return pushName
	}
	if name, ok := n[jid.User]; ok {
		return name
	}
	return fallbackName(jid)
}

var (
	group = types.NewJID("1203630", types.GroupServer)
	alice = types.NewJID("39111", types.DefaultUserServer)
	bob   = types.NewJID("39222", types.DefaultUserServer)
	names = staticNames{"1203630": "Calcetto Giovedì", "39111": "Alice", "39222": "Bob"}
	sent  = time.Date(2024, 5, 1, 20, 15, 0, 0, time.UTC)
)

func event(id string, sender types.JID, msg *waE2E.Message) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: group, Sender: sender, IsGroup: true},
			ID:            types.MessageID(id),
			Timestamp:     sent,
		},
		Message: msg,
	}
}

func TestConvertTextMessage(t *testing.T) {
	batch, ok := Convert(event("A1", alice, &waE2E.Message{Conversation: proto.String("ciao  a tutti")}), names)
	require.True(t, ok)
	require.Equal(t, []string{"A1"}, batch.Keys())

	rec, _ := batch.Get("A1")
	assert.Equal(t, "Alice", rec.Sender)
	assert.Equal(t, "calcetto-giovedi", rec.ChatID)
	assert.Equal(t, "Calcetto Giovedì", rec.ChatName)
	assert.Equal(t, sent.UnixMilli(), rec.Timestamp)
	assert.Equal(t, 12, rec.MessageLength)
	assert.Nil(t, rec.ReplyTo)
	assert.Equal(t, 0, rec.Reactions.Len())
}

func TestConvertReply(t *testing.T) {
	msg := &waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{
		Text: proto.String("vero"),
		ContextInfo: &waE2E.ContextInfo{
			StanzaID:    proto.String("A1"),
			Participant: proto.String(alice.String()),
		},
	}}
	batch, ok := Convert(event("B1", bob, msg), names)
	require.True(t, ok)

	rec, _ := batch.Get("B1")
	assert.Equal(t, "Bob", rec.Sender)
	assert.Equal(t, "Alice", rec.ReplyTarget())
	assert.Equal(t, 4, rec.MessageLength)
}

func TestConvertReactionPatchesTarget(t *testing.T) {
	msg := &waE2E.Message{ReactionMessage: &waE2E.ReactionMessage{
		Key:  &waCommon.MessageKey{ID: proto.String("A1")},
		Text: proto.String("😂"),
	}}
	batch, ok := Convert(event("R1", bob, msg), names)
	require.True(t, ok)
	require.Equal(t, []string{"A1"}, batch.Keys())

	patch, _ := batch.Get("A1")
	assert.Empty(t, patch.Sender)
	assert.Zero(t, patch.Timestamp)
	reactors, _ := patch.Reactions.Get("😂")
	assert.Equal(t, []string{"Bob"}, reactors.Keys())
}

func TestConvertSkips(t *testing.T) {
	removal := &waE2E.Message{ReactionMessage: &waE2E.ReactionMessage{
		Key:  &waCommon.MessageKey{ID: proto.String("A1")},
		Text: proto.String(""),
	}}
	revoke := &waE2E.Message{ProtocolMessage: &waE2E.ProtocolMessage{
		Key: &waCommon.MessageKey{ID: proto.String("A1")},
	}}

	for name, evt := range map[string]*events.Message{
		"removal": event("R2", bob, removal),
		"revoke":  event("P1", alice, revoke),
		"empty":   event("E1", alice, nil),
		"nil":     nil,
	} {
		_, ok := Convert(evt, names)
		assert.False(t, ok, name)
	}
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "39333", fallbackName(types.NewJID("39333", types.DefaultUserServer)))
}

package whatsapp

import (
	"strings"
	"unicode/utf8"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"whatsapp-reactions/models"
	"whatsapp-reactions/utils"
)

// Resolver trova i nomi leggibili di chat e contatti
type Resolver interface {
	ChatName(chat types.JID, isGroup bool) string
	ContactName(jid types.JID, pushName string) string
}

// Convert turns a live message event into a batch for the store.
//
// Text and media messages become a record keyed by the WhatsApp message id.
// Reactions become a patch on the target id carrying only the reaction, so
// merging keeps whatever the store already knows about that message.
// Reaction removals, protocol messages and empty events yield ok=false.
func Convert(evt *events.Message, names Resolver) (batch *models.Batch, ok bool) {
	if evt == nil || evt.Message == nil {
		return nil, false
	}
	msg := evt.Message
	if msg.GetProtocolMessage() != nil {
		return nil, false
	}

	chatName := names.ChatName(evt.Info.Chat, evt.Info.IsGroup)
	chatID := utils.Slugify(chatName)
	sender := names.ContactName(evt.Info.Sender, evt.Info.PushName)

	batch = models.NewCorpus()

	if reaction := msg.GetReactionMessage(); reaction != nil {
		target := reaction.GetKey().GetID()
		emoji := reaction.GetText()
		if target == "" || emoji == "" {
			return nil, false
		}
		patch := &models.MessageRecord{ChatID: chatID, ChatName: chatName}
		patch.AddReaction(emoji, sender, 1)
		batch.Set(target, patch)
		return batch, true
	}

	if evt.Info.ID == "" {
		return nil, false
	}
	var ts int64
	if !evt.Info.Timestamp.IsZero() {
		ts = evt.Info.Timestamp.UnixMilli()
	}
	rec := &models.MessageRecord{
		Sender:        sender,
		Reactions:     models.NewReactions(),
		Timestamp:     ts,
		ChatID:        chatID,
		ChatName:      chatName,
		MessageLength: utf8.RuneCountInString(utils.NormalizeText(messageText(msg))),
	}
	if quoted := contextInfo(msg); quoted.GetStanzaID() != "" {
		if participant := quoted.GetParticipant(); participant != "" {
			if jid, err := types.ParseJID(participant); err == nil {
				rec.ReplyTo = models.StringPtr(names.ContactName(jid, ""))
			}
		}
	}
	batch.Set(string(evt.Info.ID), rec)
	return batch, true
}

// messageText restituisce il testo o la didascalia del messaggio
func messageText(msg *waE2E.Message) string {
	switch {
	case msg.GetConversation() != "":
		return msg.GetConversation()
	case msg.GetExtendedTextMessage() != nil:
		return msg.GetExtendedTextMessage().GetText()
	case msg.GetImageMessage() != nil:
		return msg.GetImageMessage().GetCaption()
	case msg.GetVideoMessage() != nil:
		return msg.GetVideoMessage().GetCaption()
	}
	return ""
}

func contextInfo(msg *waE2E.Message) *waE2E.ContextInfo {
	switch {
	case msg.GetExtendedTextMessage() != nil:
		return msg.GetExtendedTextMessage().GetContextInfo()
	case msg.GetImageMessage() != nil:
		return msg.GetImageMessage().GetContextInfo()
	case msg.GetVideoMessage() != nil:
		return msg.GetVideoMessage().GetContextInfo()
	}
	return nil
}

// fallbackName is used when neither the store nor the server know a name.
func fallbackName(jid types.JID) string {
	if jid.User != "" {
		return jid.User
	}
	return strings.TrimSpace(jid.String())
}

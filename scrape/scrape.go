package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"whatsapp-reactions/models"
	"whatsapp-reactions/utils"
)

// Row is one message as read from the WhatsApp Web DOM.
type Row struct {
	ChatName     string            `json:"chatName"`
	PrePlainText string            `json:"prePlainText"`
	Sender       string            `json:"sender"`
	Text         string            `json:"text"`
	Reactions    *models.Reactions `json:"reactions"`
	ReplyTo      string            `json:"replyTo"`
	Timestamp    int64             `json:"timestamp"`
}

// MessageID derives a stable id from what identifies a message on screen,
// so re-scraping the same row yields the same id.
func MessageID(chatID, prePlainText, sender, text string) string {
	base := chatID + "|" + prePlainText + "|" + sender + "|" + utils.NormalizeText(text)
	return "msg_" + strconv.FormatUint(uint64(djb2(base)), 36)
}

// djb2 over UTF-16 code units, wrapping at 32 bits.
func djb2(s string) uint32 {
	h := uint32(5381)
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 + h + uint32(c)
	}
	return h
}

var (
	bracketSender = regexp.MustCompile(`\[.*?\]\s([^:]+):`)
	plainSender   = regexp.MustCompile(`^([^:]+):`)
	bracketStamp  = regexp.MustCompile(`\[([^\]]+)\]`)
)

// SenderFromPrePlainText legge l'autore da "[14:30, 12/25/23] Nome: "
func SenderFromPrePlainText(pre string) string {
	if m := bracketSender.FindStringSubmatch(pre); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s
		}
	}
	if m := plainSender.FindStringSubmatch(pre); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// TimestampFromPrePlainText parses the bracketed part of a pre-plain-text attribute.
func TimestampFromPrePlainText(pre string, now time.Time, loc *time.Location) (int64, bool) {
	m := bracketStamp.FindStringSubmatch(pre)
	if m == nil {
		return 0, false
	}
	return ParseTimestamp(strings.TrimSpace(m[1]), now, loc)
}

// BuildBatch converts scraped rows into a batch keyed by message id.
// Rows without a readable sender are kept under "Unknown"; rows without a
// readable time get now.
func BuildBatch(rows []Row, now time.Time, loc *time.Location) *models.Batch {
	batch := models.NewCorpus()
	for _, row := range rows {
		chatID, chatName := models.DefaultChatID, models.DefaultChatName
		if name := strings.TrimSpace(row.ChatName); name != "" {
			chatID, chatName = utils.Slugify(name), name
		}

		sender := strings.TrimSpace(row.Sender)
		if sender == "" {
			sender = SenderFromPrePlainText(row.PrePlainText)
		}
		if sender == "" {
			sender = models.UnknownSender
		}

		ts := row.Timestamp
		if ts <= 0 {
			parsed, ok := TimestampFromPrePlainText(row.PrePlainText, now, loc)
			if !ok {
				parsed = now.UnixMilli()
			}
			ts = parsed
		}

		text := utils.NormalizeText(row.Text)
		rec := &models.MessageRecord{
			Sender:        sender,
			Reactions:     models.NewReactions(),
			Timestamp:     ts,
			ChatID:        chatID,
			ChatName:      chatName,
			MessageLength: utf8.RuneCountInString(text),
		}
		if reply := strings.TrimSpace(row.ReplyTo); reply != "" {
			rec.ReplyTo = models.StringPtr(reply)
		}
		row.Reactions.Range(func(emoji string, reactors *models.ReactorCounts) bool {
			target := rec.EmojiReactors(emoji)
			reactors.Range(func(reactor string, count int) bool {
				target.Set(reactor, count)
				return true
			})
			return true
		})

		batch.Set(MessageID(chatID, row.PrePlainText, sender, text), rec)
	}
	return batch
}

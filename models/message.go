package models

// UnknownSender is the name recorded when the author of a message could not be read.
const UnknownSender = "Unknown"

const (
	DefaultChatID   = "unknown"
	DefaultChatName = "Unknown Chat"
)

// ReactorCounts maps a reactor to how many times they used one emoji on one message.
type ReactorCounts = OrderedMap[int]

// Reactions maps an emoji to its reactors.
type Reactions = OrderedMap[*ReactorCounts]

// MessageRecord is one scraped message as kept by the store.
// Zero values mean "unknown": Timestamp 0, nil ReplyTo, MessageLength 0.
type MessageRecord struct {
	Sender        string     `json:"sender"`
	Reactions     *Reactions `json:"reactions"`
	Timestamp     int64      `json:"timestamp"`
	ChatID        string     `json:"chatId"`
	ChatName      string     `json:"chatName"`
	ReplyTo       *string    `json:"replyTo"`
	MessageLength int        `json:"messageLength"`
}

// Corpus is the id → record document shared by batches, exports and persistence.
type Corpus = OrderedMap[*MessageRecord]

// Batch is a partial corpus delivered by a scraper.
type Batch = Corpus

// Entry pairs a record with its id, in store order.
type Entry struct {
	ID     string
	Record *MessageRecord
}

func NewReactions() *Reactions {
	return NewOrderedMap[*ReactorCounts]()
}

func NewCorpus() *Corpus {
	return NewOrderedMap[*MessageRecord]()
}

// EmojiReactors returns the reactor map of an emoji, creating it when missing.
func (r *MessageRecord) EmojiReactors(emoji string) *ReactorCounts {
	if r.Reactions == nil {
		r.Reactions = NewReactions()
	}
	reactors, ok := r.Reactions.Get(emoji)
	if !ok || reactors == nil {
		reactors = NewOrderedMap[int]()
		r.Reactions.Set(emoji, reactors)
	}
	return reactors
}

// AddReaction imposta il conteggio di una coppia (emoji, reactor)
func (r *MessageRecord) AddReaction(emoji, reactor string, count int) {
	r.EmojiReactors(emoji).Set(reactor, count)
}

// ReplyTarget returns the reply target or "" when the message is not a reply.
func (r *MessageRecord) ReplyTarget() string {
	if r.ReplyTo == nil {
		return ""
	}
	return *r.ReplyTo
}

// Clone returns a deep copy.
func (r *MessageRecord) Clone() *MessageRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.ReplyTo != nil {
		reply := *r.ReplyTo
		out.ReplyTo = &reply
	}
	out.Reactions = NewReactions()
	r.Reactions.Range(func(emoji string, reactors *ReactorCounts) bool {
		copied := NewOrderedMap[int]()
		reactors.Range(func(reactor string, count int) bool {
			copied.Set(reactor, count)
			return true
		})
		out.Reactions.Set(emoji, copied)
		return true
	})
	return &out
}

// StringPtr is a small helper for optional string fields.
func StringPtr(s string) *string {
	return &s
}

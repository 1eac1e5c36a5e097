package stats

import "whatsapp-reactions/models"

const (
	ReactionPositive = "positive"
	ReactionNegative = "negative"
	ReactionNeutral  = "neutral"
	ReactionOther    = "other"
)

var reactionCategories = map[string]string{
	"👍": ReactionPositive, "❤️": ReactionPositive, "😂": ReactionPositive, "😊": ReactionPositive,
	"🎉": ReactionPositive, "👏": ReactionPositive, "🔥": ReactionPositive, "💯": ReactionPositive,
	"😍": ReactionPositive, "🥰": ReactionPositive,

	"👎": ReactionNegative, "😢": ReactionNegative, "😡": ReactionNegative, "😠": ReactionNegative,
	"😞": ReactionNegative, "😔": ReactionNegative,

	"😮": ReactionNeutral, "🤔": ReactionNeutral, "😐": ReactionNeutral, "😑": ReactionNeutral,
	"🙄": ReactionNeutral,
}

// CategorizeReaction classifica un'emoji; quelle non in elenco sono "other"
func CategorizeReaction(emoji string) string {
	if c, ok := reactionCategories[emoji]; ok {
		return c
	}
	return ReactionOther
}

func contentAnalysis(records []*models.MessageRecord) ContentAnalysis {
	ca := ContentAnalysis{
		EmojiUsage:     models.NewOrderedMap[int](),
		ReactionTypes:  models.NewOrderedMap[int](),
		MessageLengths: models.NewOrderedMap[float64](),
		ReplyChains:    []ReplyChain{},
		TopicClusters:  []TopicCluster{},
	}

	lengthTotals := models.NewOrderedMap[int]()
	lengthCounts := models.NewOrderedMap[int]()
	for _, rec := range records {
		increment(lengthCounts, rec.Sender, 1)
		increment(lengthTotals, rec.Sender, rec.MessageLength)

		// One occurrence per emoji per message, whatever the number of reactors.
		for _, emoji := range rec.Reactions.Keys() {
			increment(ca.EmojiUsage, emoji, 1)
			increment(ca.ReactionTypes, CategorizeReaction(emoji), 1)
		}
	}

	lengthCounts.Range(func(sender string, n int) bool {
		total, _ := lengthTotals.Get(sender)
		ca.MessageLengths.Set(sender, float64(total)/float64(n))
		return true
	})
	return ca
}

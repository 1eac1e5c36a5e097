package stats

import (
	"sort"

	"whatsapp-reactions/models"
)

const (
	topPairsLimit     = 10
	topReactorsLimit  = 5
	topTargetsLimit   = 5
	shareFloor        = 0.00001
	unknownSenderName = models.UnknownSender
)

// Calculate computes every metric over entries. It holds no state between
// calls and never mutates its input.
func Calculate(entries []models.Entry, opts Options) *Stats {
	opts = opts.withDefaults()

	records := make([]*models.MessageRecord, 0, len(entries))
	for _, e := range entries {
		if e.Record != nil {
			records = append(records, e.Record)
		}
	}

	s := &Stats{
		ChatID:            opts.ChatID,
		TotalMessages:     len(records),
		BySender:          models.NewOrderedMap[*Counts](),
		ByReactor:         models.NewOrderedMap[*Counts](),
		TopReactions:      models.NewOrderedMap[*Counts](),
		MessageCount:      models.NewOrderedMap[int](),
		MessageShare:      models.NewOrderedMap[float64](),
		ReactionRates:     models.NewOrderedMap[float64](),
		RespondsByReplier: models.NewOrderedMap[*Counts](),
		RespondsByTarget:  models.NewOrderedMap[*Counts](),
	}

	aggregateReactions(s, records)
	computeMessageShare(s, records)
	computeReactionRates(s)
	computeRelationships(s)
	computeTopReactions(s)

	s.Selectivity, s.BiasedReactors = biasScores(s.ByReactor, s.MessageShare)
	aggregateReplies(s, records)
	s.RespondSelectivity, s.BiasedResponders = biasScores(s.RespondsByReplier, s.MessageShare)

	s.SimpleRelationships = simpleRelationships(s)
	s.Temporal = temporalAnalysis(records, opts.Location)
	s.Engagement = engagementMetrics(records)
	s.Content = contentAnalysis(records)
	s.Quality = dataQuality(records, opts.Now())
	s.Quality.CoverageStartTs, s.Quality.CoverageEndTs = coverage(records)

	return s
}

// Filter keeps the entries of one chat; an empty chatID keeps everything.
func Filter(entries []models.Entry, chatID string) []models.Entry {
	if chatID == "" {
		return entries
	}
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Record != nil && e.Record.ChatID == chatID {
			out = append(out, e)
		}
	}
	return out
}

// uniqueReactors lists each reactor once per message, across all emoji.
func uniqueReactors(rec *models.MessageRecord) []string {
	seen := NewSet()
	rec.Reactions.Range(func(_ string, reactors *models.ReactorCounts) bool {
		reactors.Range(func(reactor string, _ int) bool {
			seen.Add(reactor)
			return true
		})
		return true
	})
	return seen.Items()
}

// rawReactionCount sums every count on the message, with no dedup.
func rawReactionCount(rec *models.MessageRecord) int {
	total := 0
	rec.Reactions.Range(func(_ string, reactors *models.ReactorCounts) bool {
		reactors.Range(func(_ string, count int) bool {
			total += count
			return true
		})
		return true
	})
	return total
}

func row(m *Matrix, key string) *Counts {
	c, ok := m.Get(key)
	if !ok {
		c = models.NewOrderedMap[int]()
		m.Set(key, c)
	}
	return c
}

func increment(c *Counts, key string, by int) {
	v, _ := c.Get(key)
	c.Set(key, v+by)
}

func sum(c *Counts) int {
	total := 0
	c.Range(func(_ string, v int) bool {
		total += v
		return true
	})
	return total
}

func aggregateReactions(s *Stats, records []*models.MessageRecord) {
	for _, rec := range records {
		sender := rec.Sender
		received := row(s.BySender, sender)

		for _, reactor := range uniqueReactors(rec) {
			increment(received, reactor, 1)
			increment(row(s.ByReactor, reactor), sender, 1)
			s.TotalReactions++
		}
	}
}

// coverage returns the smallest and largest known timestamps, 0 when none.
func coverage(records []*models.MessageRecord) (int64, int64) {
	var minTs, maxTs int64
	for _, rec := range records {
		t := rec.Timestamp
		if t <= 0 {
			continue
		}
		if minTs == 0 || t < minTs {
			minTs = t
		}
		if t > maxTs {
			maxTs = t
		}
	}
	return minTs, maxTs
}

func computeMessageShare(s *Stats, records []*models.MessageRecord) {
	for _, rec := range records {
		increment(s.MessageCount, rec.Sender, 1)
	}
	total := s.TotalMessages
	if total == 0 {
		total = 1
	}
	s.MessageCount.Range(func(sender string, n int) bool {
		s.MessageShare.Set(sender, float64(n)/float64(total))
		return true
	})
}

func messagesBy(s *Stats, sender string) int {
	n, _ := s.MessageCount.Get(sender)
	if n < 1 {
		return 1
	}
	return n
}

func computeReactionRates(s *Stats) {
	s.BySender.Range(func(sender string, reactors *Counts) bool {
		s.ReactionRates.Set(sender, float64(sum(reactors))/float64(messagesBy(s, sender)))
		return true
	})
}

func computeRelationships(s *Stats) {
	reactorTotals := make(map[string]int, s.ByReactor.Len())
	s.ByReactor.Range(func(reactor string, targets *Counts) bool {
		reactorTotals[reactor] = sum(targets)
		return true
	})

	s.Relationships = []Relationship{}
	s.BySender.Range(func(sender string, reactors *Counts) bool {
		senderMessages := messagesBy(s, sender)
		reactors.Range(func(reactor string, reactions int) bool {
			likelihood := float64(reactions) / float64(senderMessages)
			focus := 0.0
			if total := reactorTotals[reactor]; total > 0 {
				focus = float64(reactions) / float64(total)
			}
			s.Relationships = append(s.Relationships, Relationship{
				From:              reactor,
				To:                sender,
				Reactions:         reactions,
				Likelihood:        likelihood,
				Focus:             focus,
				Strength:          (likelihood + focus) / 2,
				MessagesReactedTo: reactions,
				TotalMessagesBy:   senderMessages,
			})
			return true
		})
		return true
	})

	sort.SliceStable(s.Relationships, func(i, j int) bool {
		return s.Relationships[i].Strength > s.Relationships[j].Strength
	})

	n := len(s.Relationships)
	if n > topPairsLimit {
		n = topPairsLimit
	}
	s.TopPairs = append([]Relationship{}, s.Relationships[:n]...)
}

type countEntry struct {
	name  string
	count int
}

// sortedCounts returns the entries of c by descending count, ties in insertion order.
func sortedCounts(c *Counts) []countEntry {
	entries := make([]countEntry, 0, c.Len())
	c.Range(func(name string, n int) bool {
		entries = append(entries, countEntry{name, n})
		return true
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	return entries
}

func computeTopReactions(s *Stats) {
	s.BySender.Range(func(sender string, reactors *Counts) bool {
		top := models.NewOrderedMap[int]()
		for i, e := range sortedCounts(reactors) {
			if i == topReactorsLimit {
				break
			}
			top.Set(e.name, e.count)
		}
		s.TopReactions.Set(sender, top)
		return true
	})
}

package stats

import (
	"sort"

	"whatsapp-reactions/models"
)

// aggregateReplies counts who replies to whom. The target is whatever the
// scraper recorded as replyTo.
func aggregateReplies(s *Stats, records []*models.MessageRecord) {
	for _, rec := range records {
		target := rec.ReplyTarget()
		if target == "" {
			continue
		}
		increment(row(s.RespondsByReplier, rec.Sender), target, 1)
		increment(row(s.RespondsByTarget, target), rec.Sender, 1)
	}
}

// simpleRelationships merges reactions and replies into one outgoing and
// one incoming tally per person.
func simpleRelationships(s *Stats) []SimpleRelationship {
	people := NewSet()
	for _, m := range []*Matrix{s.BySender, s.ByReactor, s.RespondsByReplier, s.RespondsByTarget} {
		for _, name := range m.Keys() {
			people.Add(name)
		}
	}
	for _, name := range s.MessageCount.Keys() {
		people.Add(name)
	}

	out := make([]SimpleRelationship, 0, people.Len())
	for _, person := range people.Items() {
		outgoing := combine(s.ByReactor, s.RespondsByReplier, person)
		incoming := combine(s.BySender, s.RespondsByTarget, person)

		out = append(out, SimpleRelationship{
			Person:       person,
			MostOutgoing: strongest(outgoing),
			MostIncoming: strongest(incoming),
			Outgoing:     sum(outgoing),
			Incoming:     sum(incoming),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Outgoing+out[i].Incoming > out[j].Outgoing+out[j].Incoming
	})
	return out
}

func combine(a, b *Matrix, person string) *Counts {
	merged := models.NewOrderedMap[int]()
	for _, m := range []*Matrix{a, b} {
		counts, ok := m.Get(person)
		if !ok {
			continue
		}
		counts.Range(func(name string, n int) bool {
			increment(merged, name, n)
			return true
		})
	}
	return merged
}

// strongest returns the highest count, the first one on ties.
func strongest(c *Counts) *Link {
	entries := sortedCounts(c)
	if len(entries) == 0 {
		return nil
	}
	return &Link{Name: entries[0].name, Count: entries[0].count}
}

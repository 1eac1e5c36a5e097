package stats

import (
	"math"

	"whatsapp-reactions/models"
)

const (
	activeShareOfAverage = 0.3
	perMessageWeight     = 0.6
	volumeWeight         = 0.4
)

func engagementMetrics(records []*models.MessageRecord) EngagementMetrics {
	em := EngagementMetrics{
		ResponseTime:        models.NewOrderedMap[float64](),
		ConversationThreads: []ConversationThread{},
		ActiveParticipants:  NewSet(),
		Lurkers:             NewSet(),
		Influencers:         models.NewOrderedMap[Influence](),
	}

	senders := NewSet()
	messageCounts := models.NewOrderedMap[int]()
	received := models.NewOrderedMap[int]()
	for _, rec := range records {
		senders.Add(rec.Sender)
		increment(messageCounts, rec.Sender, 1)
		increment(received, rec.Sender, rawReactionCount(rec))
	}

	// "Unknown" is a scraping placeholder, not a person.
	var participants []string
	for _, name := range senders.Items() {
		if name != unknownSenderName {
			participants = append(participants, name)
		}
	}

	if len(participants) > 0 {
		avg := float64(len(records)) / float64(len(participants))
		threshold := math.Max(avg*activeShareOfAverage, 1)
		for _, p := range participants {
			n, _ := messageCounts.Get(p)
			if float64(n) >= threshold {
				em.ActiveParticipants.Add(p)
			} else {
				em.Lurkers.Add(p)
			}
		}
	}

	maxPerMessage := shareFloor
	maxTotal := 1.0
	details := make([]Influence, len(participants))
	for i, p := range participants {
		msgs, _ := messageCounts.Get(p)
		total, _ := received.Get(p)
		perMessage := 0.0
		if msgs > 0 {
			perMessage = float64(total) / float64(msgs)
		}
		details[i] = Influence{TotalReactions: total, PerMessage: perMessage, TotalMessages: msgs}
		maxPerMessage = math.Max(maxPerMessage, perMessage)
		maxTotal = math.Max(maxTotal, float64(total))
	}
	for i, p := range participants {
		d := details[i]
		norm := perMessageWeight*(d.PerMessage/maxPerMessage) + volumeWeight*(float64(d.TotalReactions)/maxTotal)
		d.Score = int(math.Round(100 * norm))
		em.Influencers.Set(p, d)
	}

	em.NetworkDensity = networkDensity(records, senders)
	return em
}

// networkDensity is the share of ordered sender pairs (A, B), A != B, where
// B reacted to at least one message written by A.
func networkDensity(records []*models.MessageRecord, senders *Set) float64 {
	n := senders.Len()
	possible := n * (n - 1)
	if possible <= 0 {
		return 0
	}

	edges := make(map[[2]string]struct{})
	for _, rec := range records {
		author := rec.Sender
		for _, reactor := range uniqueReactors(rec) {
			if reactor != author && senders.Has(reactor) {
				edges[[2]string{author, reactor}] = struct{}{}
			}
		}
	}
	return float64(len(edges)) / float64(possible)
}

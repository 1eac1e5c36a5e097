package stats

import (
	"math"
	"time"

	"whatsapp-reactions/models"
)

func dataQuality(records []*models.MessageRecord, now time.Time) DataQuality {
	withReactions := 0
	for _, rec := range records {
		if rec.Reactions.Len() > 0 {
			withReactions++
		}
	}

	dq := DataQuality{
		LastUpdated: now.UnixMilli(),
		SampleSize:  len(records),
	}
	if len(records) > 0 {
		dq.ExtractionRate = float64(withReactions) / float64(len(records)) * 100
	}
	dq.CompletenessScore = math.Min(dq.ExtractionRate*1.2, 100)
	dq.ConfidenceLevel = math.Min(dq.CompletenessScore*0.9, 95)
	return dq
}

// Quick computes the headline counters: raw reaction total, distinct named
// senders and the rounded share of messages carrying reactions.
func Quick(entries []models.Entry) QuickStats {
	var q QuickStats
	participants := NewSet()
	withReactions := 0

	for _, e := range entries {
		rec := e.Record
		if rec == nil {
			continue
		}
		q.TotalMessages++
		if rec.Sender != "" {
			participants.Add(rec.Sender)
		}
		if rec.Reactions.Len() > 0 {
			withReactions++
			q.TotalReactions += rawReactionCount(rec)
		}
	}

	q.Participants = participants.Len()
	if q.TotalMessages > 0 {
		q.DataQuality = int(math.Round(float64(withReactions) / float64(q.TotalMessages) * 100))
	}
	return q
}

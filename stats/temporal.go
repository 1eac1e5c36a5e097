package stats

import (
	"sort"
	"time"

	"whatsapp-reactions/models"
)

const peakLimit = 3

// temporalAnalysis buckets messages by hour, weekday and date in loc.
// A zero timestamp lands on the epoch, like any other value.
func temporalAnalysis(records []*models.MessageRecord, loc *time.Location) TemporalAnalysis {
	ta := TemporalAnalysis{
		DailyActivity: models.NewOrderedMap[*DayBucket](),
	}

	for _, rec := range records {
		t := time.UnixMilli(rec.Timestamp).In(loc)
		reactions := rawReactionCount(rec)

		hour := &ta.HourlyActivity[t.Hour()]
		hour.Messages++
		hour.Reactions += reactions

		day := &ta.WeeklyPatterns[int(t.Weekday())]
		day.Messages++
		day.Reactions += reactions

		dateKey := t.Format("2006-01-02")
		daily, ok := ta.DailyActivity.Get(dateKey)
		if !ok {
			daily = &DayBucket{Participants: NewSet()}
			ta.DailyActivity.Set(dateKey, daily)
		}
		daily.Messages++
		daily.Reactions += reactions
		daily.Participants.Add(rec.Sender)
	}

	dates := ta.DailyActivity.Keys()
	sort.Strings(dates)
	ta.ActivityTrends = make([]Trend, 0, len(dates))
	for _, date := range dates {
		d, _ := ta.DailyActivity.Get(date)
		ta.ActivityTrends = append(ta.ActivityTrends, Trend{
			Date:         date,
			Messages:     d.Messages,
			Reactions:    d.Reactions,
			Participants: d.Participants.Len(),
		})
	}

	for _, i := range peakIndexes(ta.HourlyActivity[:]) {
		b := ta.HourlyActivity[i]
		ta.PeakHours = append(ta.PeakHours, PeakHour{Hour: i, Messages: b.Messages, Reactions: b.Reactions})
	}
	for _, i := range peakIndexes(ta.WeeklyPatterns[:]) {
		b := ta.WeeklyPatterns[i]
		ta.PeakDays = append(ta.PeakDays, PeakDay{
			Day:       i,
			DayName:   time.Weekday(i).String(),
			Messages:  b.Messages,
			Reactions: b.Reactions,
		})
	}

	return ta
}

// peakIndexes returns the indexes of the busiest buckets, lowest index first on ties.
func peakIndexes(buckets []Bucket) []int {
	idx := make([]int, len(buckets))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return buckets[idx[a]].Messages > buckets[idx[b]].Messages
	})
	if len(idx) > peakLimit {
		idx = idx[:peakLimit]
	}
	return idx
}

package serialize

import (
	"strconv"

	"whatsapp-reactions/models"
	"whatsapp-reactions/stats"
)

// Document is a JSON-ready tree of maps, slices and scalars.
type Document = map[string]interface{}

// Stats flattens a result into plain maps and arrays. Nested tallies become
// maps, sets become arrays in insertion order; no field is left out.
func Stats(s *stats.Stats) Document {
	var chatID interface{}
	if s.ChatID != "" {
		chatID = s.ChatID
	}

	return Document{
		"chatId":         chatID,
		"totalMessages":  s.TotalMessages,
		"totalReactions": s.TotalReactions,

		"bySender":      matrix(s.BySender),
		"byReactor":     matrix(s.ByReactor),
		"topReactions":  matrix(s.TopReactions),
		"messageCount":  ordered(s.MessageCount),
		"messageShare":  ordered(s.MessageShare),
		"reactionRates": ordered(s.ReactionRates),

		"relationships": relationships(s.Relationships),
		"topPairs":      relationships(s.TopPairs),

		"selectivity":    pairScores(s.Selectivity, "reactor", "reactions"),
		"biasedReactors": biasSummaries(s.BiasedReactors, "reactor", "reactions", "totalReactions"),

		"respondsByReplier":  matrix(s.RespondsByReplier),
		"respondsByTarget":   matrix(s.RespondsByTarget),
		"respondSelectivity": pairScores(s.RespondSelectivity, "replier", "replies"),
		"biasedResponders":   biasSummaries(s.BiasedResponders, "replier", "replies", "totalReplies"),

		"simpleRelationships": simpleRelationships(s.SimpleRelationships),

		"temporalAnalysis":  temporal(s.Temporal),
		"engagementMetrics": engagement(s.Engagement),
		"contentAnalysis":   content(s.Content),
		"dataQuality":       quality(s.Quality),
	}
}

// Quick flattens the headline counters.
func Quick(q stats.QuickStats) Document {
	return Document{
		"totalMessages":  q.TotalMessages,
		"totalReactions": q.TotalReactions,
		"participants":   q.Participants,
		"dataQuality":    q.DataQuality,
	}
}

func ordered[V any](m *models.OrderedMap[V]) map[string]interface{} {
	out := make(map[string]interface{}, m.Len())
	m.Range(func(k string, v V) bool {
		out[k] = v
		return true
	})
	return out
}

func matrix(m *stats.Matrix) map[string]interface{} {
	out := make(map[string]interface{}, m.Len())
	m.Range(func(k string, inner *stats.Counts) bool {
		out[k] = ordered(inner)
		return true
	})
	return out
}

func relationships(rs []stats.Relationship) []interface{} {
	out := make([]interface{}, 0, len(rs))
	for _, r := range rs {
		out = append(out, Document{
			"from":              r.From,
			"to":                r.To,
			"reactions":         r.Reactions,
			"likelihood":        r.Likelihood,
			"focus":             r.Focus,
			"strength":          r.Strength,
			"messagesReactedTo": r.MessagesReactedTo,
			"totalMessagesBy":   r.TotalMessagesBy,
		})
	}
	return out
}

func pairScores(ps []stats.PairScore, sourceKey, countKey string) []interface{} {
	out := make([]interface{}, 0, len(ps))
	for _, p := range ps {
		out = append(out, Document{
			sourceKey:            p.Source,
			"target":             p.Target,
			countKey:             p.Count,
			"focus":              p.Focus,
			"lift":               p.Lift,
			"selectivity":        p.Selectivity,
			"targetMessageShare": p.TargetMessageShare,
		})
	}
	return out
}

func biasSummaries(bs []stats.BiasSummary, sourceKey, countKey, totalKey string) []interface{} {
	out := make([]interface{}, 0, len(bs))
	for _, b := range bs {
		out = append(out, Document{
			sourceKey:    b.Source,
			"biasIndex":  b.BiasIndex,
			totalKey:     b.Total,
			"topTargets": pairScores(b.TopTargets, sourceKey, countKey),
		})
	}
	return out
}

func simpleRelationships(rs []stats.SimpleRelationship) []interface{} {
	out := make([]interface{}, 0, len(rs))
	for _, r := range rs {
		var outgoing, incoming interface{}
		if r.MostOutgoing != nil {
			outgoing = Document{"target": r.MostOutgoing.Name, "count": r.MostOutgoing.Count}
		}
		if r.MostIncoming != nil {
			incoming = Document{"from": r.MostIncoming.Name, "count": r.MostIncoming.Count}
		}
		out = append(out, Document{
			"person":       r.Person,
			"mostOutgoing": outgoing,
			"mostIncoming": incoming,
			"totals":       Document{"outgoing": r.Outgoing, "incoming": r.Incoming},
		})
	}
	return out
}

func bucket(b stats.Bucket) Document {
	return Document{"messages": b.Messages, "reactions": b.Reactions}
}

func temporal(ta stats.TemporalAnalysis) Document {
	hourly := make(map[string]interface{}, len(ta.HourlyActivity))
	for h, b := range ta.HourlyActivity {
		hourly[strconv.Itoa(h)] = bucket(b)
	}
	weekly := make(map[string]interface{}, len(ta.WeeklyPatterns))
	for d, b := range ta.WeeklyPatterns {
		weekly[strconv.Itoa(d)] = bucket(b)
	}

	daily := make(map[string]interface{}, ta.DailyActivity.Len())
	ta.DailyActivity.Range(func(date string, d *stats.DayBucket) bool {
		daily[date] = Document{
			"messages":     d.Messages,
			"reactions":    d.Reactions,
			"participants": d.Participants.Items(),
		}
		return true
	})

	trends := make([]interface{}, 0, len(ta.ActivityTrends))
	for _, t := range ta.ActivityTrends {
		trends = append(trends, Document{
			"date":         t.Date,
			"messages":     t.Messages,
			"reactions":    t.Reactions,
			"participants": t.Participants,
		})
	}

	peakHours := make([]interface{}, 0, len(ta.PeakHours))
	for _, p := range ta.PeakHours {
		peakHours = append(peakHours, Document{"hour": p.Hour, "messages": p.Messages, "reactions": p.Reactions})
	}
	peakDays := make([]interface{}, 0, len(ta.PeakDays))
	for _, p := range ta.PeakDays {
		peakDays = append(peakDays, Document{"day": p.Day, "dayName": p.DayName, "messages": p.Messages, "reactions": p.Reactions})
	}

	return Document{
		"hourlyActivity": hourly,
		"dailyActivity":  daily,
		"weeklyPatterns": weekly,
		"activityTrends": trends,
		"peakHours":      peakHours,
		"peakDays":       peakDays,
	}
}

func engagement(em stats.EngagementMetrics) Document {
	influencers := make(map[string]interface{}, em.Influencers.Len())
	em.Influencers.Range(func(name string, inf stats.Influence) bool {
		influencers[name] = Document{
			"score":          inf.Score,
			"totalReactions": inf.TotalReactions,
			"perMessage":     inf.PerMessage,
			"totalMessages":  inf.TotalMessages,
		}
		return true
	})

	threads := make([]interface{}, 0, len(em.ConversationThreads))
	for _, t := range em.ConversationThreads {
		threads = append(threads, Document{"participants": t.Participants, "messages": t.Messages, "duration": t.Duration})
	}

	return Document{
		"responseTime":          ordered(em.ResponseTime),
		"conversationThreads":   threads,
		"activeParticipants":    em.ActiveParticipants.Items(),
		"lurkers":               em.Lurkers.Items(),
		"influencers":           influencers,
		"networkDensity":        em.NetworkDensity,
		"clusteringCoefficient": em.ClusteringCoefficient,
	}
}

func content(ca stats.ContentAnalysis) Document {
	chains := make([]interface{}, 0, len(ca.ReplyChains))
	for _, c := range ca.ReplyChains {
		chains = append(chains, Document{"chainId": c.ChainID, "participants": c.Participants, "length": c.Length})
	}
	clusters := make([]interface{}, 0, len(ca.TopicClusters))
	for _, c := range ca.TopicClusters {
		clusters = append(clusters, Document{"participants": c.Participants, "frequency": c.Frequency})
	}

	return Document{
		"emojiUsage":     ordered(ca.EmojiUsage),
		"reactionTypes":  ordered(ca.ReactionTypes),
		"messageLengths": ordered(ca.MessageLengths),
		"replyChains":    chains,
		"topicClusters":  clusters,
	}
}

func quality(dq stats.DataQuality) Document {
	return Document{
		"extractionRate":    dq.ExtractionRate,
		"completenessScore": dq.CompletenessScore,
		"confidenceLevel":   dq.ConfidenceLevel,
		"lastUpdated":       dq.LastUpdated,
		"sampleSize":        dq.SampleSize,
		"coverageStartTs":   dq.CoverageStartTs,
		"coverageEndTs":     dq.CoverageEndTs,
	}
}

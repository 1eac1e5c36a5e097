package stats

import (
	"time"

	"whatsapp-reactions/models"
)

// Counts maps a name to an integer tally, in first-seen order.
type Counts = models.OrderedMap[int]

// Matrix is a two-level tally: outer name → inner name → count.
type Matrix = models.OrderedMap[*Counts]

// Ratios maps a name to a float value, in first-seen order.
type Ratios = models.OrderedMap[float64]

// Options controls a single computation.
type Options struct {
	ChatID   string
	Location *time.Location
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Stats is the full analytics result for a set of messages.
type Stats struct {
	ChatID         string
	TotalMessages  int
	TotalReactions int

	BySender      *Matrix
	ByReactor     *Matrix
	TopReactions  *Matrix
	MessageCount  *Counts
	MessageShare  *Ratios
	ReactionRates *Ratios

	Relationships []Relationship
	TopPairs      []Relationship

	Selectivity    []PairScore
	BiasedReactors []BiasSummary

	RespondsByReplier  *Matrix
	RespondsByTarget   *Matrix
	RespondSelectivity []PairScore
	BiasedResponders   []BiasSummary

	SimpleRelationships []SimpleRelationship

	Temporal   TemporalAnalysis
	Engagement EngagementMetrics
	Content    ContentAnalysis
	Quality    DataQuality
}

// Relationship describes how much From reacts to To.
type Relationship struct {
	From              string
	To                string
	Reactions         int
	Likelihood        float64
	Focus             float64
	Strength          float64
	MessagesReactedTo int
	TotalMessagesBy   int
}

// PairScore is a directed source → target selectivity entry. Source is a
// reactor for reaction bias and a replier for reply bias.
type PairScore struct {
	Source             string
	Target             string
	Count              int
	Focus              float64
	Lift               float64
	Selectivity        float64
	TargetMessageShare float64
}

// BiasSummary is the concentration of one source across its targets.
type BiasSummary struct {
	Source     string
	BiasIndex  float64
	Total      int
	TopTargets []PairScore
}

type Link struct {
	Name  string
	Count int
}

type SimpleRelationship struct {
	Person       string
	MostOutgoing *Link
	MostIncoming *Link
	Outgoing     int
	Incoming     int
}

type Bucket struct {
	Messages  int
	Reactions int
}

type DayBucket struct {
	Messages     int
	Reactions    int
	Participants *Set
}

type Trend struct {
	Date         string
	Messages     int
	Reactions    int
	Participants int
}

type PeakHour struct {
	Hour      int
	Messages  int
	Reactions int
}

type PeakDay struct {
	Day       int
	DayName   string
	Messages  int
	Reactions int
}

type TemporalAnalysis struct {
	HourlyActivity [24]Bucket
	WeeklyPatterns [7]Bucket
	DailyActivity  *models.OrderedMap[*DayBucket]
	ActivityTrends []Trend
	PeakHours      []PeakHour
	PeakDays       []PeakDay
}

type Influence struct {
	Score          int
	TotalReactions int
	PerMessage     float64
	TotalMessages  int
}

// ConversationThread is reserved; threads are not detected yet.
type ConversationThread struct {
	Participants []string
	Messages     int
	Duration     int64
}

type EngagementMetrics struct {
	ResponseTime          *Ratios
	ConversationThreads   []ConversationThread
	ActiveParticipants    *Set
	Lurkers               *Set
	Influencers           *models.OrderedMap[Influence]
	NetworkDensity        float64
	ClusteringCoefficient float64
}

type ReplyChain struct {
	ChainID      string
	Participants []string
	Length       int
}

type TopicCluster struct {
	Participants []string
	Frequency    int
}

type ContentAnalysis struct {
	EmojiUsage     *Counts
	ReactionTypes  *Counts
	MessageLengths *Ratios
	ReplyChains    []ReplyChain
	TopicClusters  []TopicCluster
}

type DataQuality struct {
	ExtractionRate    float64
	CompletenessScore float64
	ConfidenceLevel   float64
	LastUpdated       int64
	SampleSize        int
	CoverageStartTs   int64
	CoverageEndTs     int64
}

// QuickStats are the headline numbers shown before the full dashboard.
type QuickStats struct {
	TotalMessages  int
	TotalReactions int
	Participants   int
	DataQuality    int
}

// Set is a set of names that remembers insertion order.
type Set struct {
	items *models.OrderedMap[struct{}]
}

func NewSet() *Set {
	return &Set{items: models.NewOrderedMap[struct{}]()}
}

func (s *Set) Add(name string) {
	s.items.Set(name, struct{}{})
}

func (s *Set) Has(name string) bool {
	return s.items.Has(name)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.items.Len()
}

// Items restituisce gli elementi in ordine di inserimento
func (s *Set) Items() []string {
	if s == nil {
		return []string{}
	}
	keys := s.items.Keys()
	if keys == nil {
		return []string{}
	}
	return keys
}

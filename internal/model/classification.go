package model

// Quality is the judged depth of a single answer
type Quality string

const (
	QualityVague     Quality = "vague"
	QualityShallow   Quality = "shallow"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// Valid reports whether q is one of the declared quality tiers
func (q Quality) Valid() bool {
	switch q {
	case QualityVague, QualityShallow, QualityGood, QualityExcellent:
		return true
	}
	return false
}

// NeedsProbe is true for tiers that warrant a follow-up on the same topic
func (q Quality) NeedsProbe() bool {
	return q == QualityVague || q == QualityShallow
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Score maps a sentiment onto the 0..1 scale used in summaries
func (s Sentiment) Score() float64 {
	switch s {
	case SentimentPositive:
		return 0.8
	case SentimentNegative:
		return 0.2
	default:
		return 0.5
	}
}

// ClassificationSource records which strategy produced a verdict
type ClassificationSource string

const (
	SourceLexical  ClassificationSource = "lexical"
	SourceJudgment ClassificationSource = "judgment"
	SourceFallback ClassificationSource = "fallback"
)

// Classification is the verdict for one answer turn
type Classification struct {
	Quality   Quality              `json:"quality" bson:"quality"`
	Sentiment Sentiment            `json:"sentiment" bson:"sentiment"`
	WordCount int                  `json:"wordCount" bson:"wordCount"`
	Insights  []string             `json:"insights" bson:"insights"`
	Source    ClassificationSource `json:"source" bson:"source"`
}

// Termination reasons
const (
	ReasonExplicitExit       = "explicit_exit"
	ReasonProbeLimitReached  = "probe_limit_reached"
	ReasonShortNegative      = "disengagement_short_negative"
	ReasonRepeatedDismissive = "disengagement_repeated_dismissive"
	ReasonEndedByRespondent  = "ended_by_respondent"
)

// TerminationDecision is computed once per turn before any question is generated
type TerminationDecision struct {
	ShouldTerminate bool   `json:"shouldTerminate"`
	Reason          string `json:"reason,omitempty"`
	// Detail carries the matched phrase or streak length behind Reason
	Detail string `json:"detail,omitempty"`
}

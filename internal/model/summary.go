package model

import "time"

// Summary is the write-once report produced when a session reaches a terminal status
type Summary struct {
	SessionID             string            `json:"sessionId" bson:"_id"`
	Topic                 string            `json:"topic" bson:"topic"`
	TurnsAsked            int               `json:"turnsAsked" bson:"turnsAsked"`
	TotalExchanges        int               `json:"totalExchanges" bson:"totalExchanges"`
	SentimentDistribution map[Sentiment]int `json:"sentimentDistribution" bson:"sentimentDistribution"`
	AverageSentimentScore float64           `json:"averageSentimentScore" bson:"averageSentimentScore"`
	Insights              []string          `json:"insights" bson:"insights"`
	KeyThemes             []string          `json:"keyThemes" bson:"keyThemes"`
	Narrative             string            `json:"narrative" bson:"narrative"`
	EarlyTermination      bool              `json:"earlyTermination" bson:"earlyTermination"`
	TerminationReason     string            `json:"terminationReason,omitempty" bson:"terminationReason,omitempty"`
	GeneratedAt           time.Time         `json:"generatedAt" bson:"generatedAt"`
}

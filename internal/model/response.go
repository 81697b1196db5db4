package model

import "time"

// ResponseRecord is the analyzed form of one respondent answer
type ResponseRecord struct {
	ID        string    `json:"id" bson:"_id"`
	SessionID string    `json:"sessionId" bson:"sessionId"`
	TurnIndex int       `json:"turnIndex" bson:"turnIndex"`
	Ordinal   int       `json:"ordinal" bson:"ordinal"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer" bson:"answer"`
	Quality   Quality   `json:"quality" bson:"quality"`
	Sentiment Sentiment `json:"sentiment" bson:"sentiment"`
	WordCount int       `json:"wordCount" bson:"wordCount"`
	Source    string    `json:"source" bson:"source"`
	// Outcome is the branch the orchestrator took for this answer
	Outcome   string    `json:"outcome" bson:"outcome"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// InsightRecord is one entry of the permanent per-session insight log
type InsightRecord struct {
	SessionID string    `json:"sessionId" bson:"sessionId"`
	TurnIndex int       `json:"turnIndex" bson:"turnIndex"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

package model

import "time"

// Template holds the immutable session-start inputs for a topic
type Template struct {
	ID               string    `json:"id" bson:"_id" yaml:"id"`
	OwnerID          string    `json:"ownerId,omitempty" bson:"ownerId,omitempty" yaml:"-"`
	Name             string    `json:"name" bson:"name" yaml:"name"`
	Topic            string    `json:"topic" bson:"topic" yaml:"topic"`
	StarterQuestions []string  `json:"starterQuestions" bson:"starterQuestions" yaml:"starter_questions"`
	MaxTurns         int       `json:"maxTurns" bson:"maxTurns" yaml:"max_turns"`
	ProbeBudget      *int      `json:"probeBudget,omitempty" bson:"probeBudget,omitempty" yaml:"probe_budget,omitempty"`
	BuiltIn          bool      `json:"builtIn" bson:"builtIn" yaml:"-"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

package model

import "time"

type SessionStatus string

const (
	SessionActive          SessionStatus = "active"
	SessionTerminatedEarly SessionStatus = "terminated_early"
	SessionCompleted       SessionStatus = "completed"
)

// TurnRole distinguishes questions asked by the interviewer from respondent answers
type TurnRole string

const (
	RoleQuestion TurnRole = "question"
	RoleAnswer   TurnRole = "answer"
)

// Turn is one entry of the append-only conversation history
type Turn struct {
	Role           TurnRole        `json:"role" bson:"role"`
	Text           string          `json:"text" bson:"text"`
	Ordinal        int             `json:"ordinal" bson:"ordinal"`
	TurnIndex      int             `json:"turnIndex" bson:"turnIndex"`
	IsProbe        bool            `json:"isProbe,omitempty" bson:"isProbe,omitempty"`
	Classification *Classification `json:"classification,omitempty" bson:"classification,omitempty"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdAt"`
}

// Session is the externally persisted interview state record
type Session struct {
	ID               string        `json:"id" bson:"_id"`
	TemplateID       string        `json:"templateId,omitempty" bson:"templateId,omitempty"`
	Topic            string        `json:"topic" bson:"topic"`
	StarterQuestions []string      `json:"starterQuestions" bson:"starterQuestions"`
	MaxTurns         int           `json:"maxTurns" bson:"maxTurns"`
	ProbeBudget      int           `json:"probeBudget" bson:"probeBudget"`
	TurnIndex        int           `json:"turnIndex" bson:"turnIndex"`
	ProbeCount       int           `json:"probeCountInCurrentTopic" bson:"probeCountInCurrentTopic"`
	Status           SessionStatus `json:"status" bson:"status"`
	// TopicQuestion is the question that opened the current topic; redirects restate it.
	TopicQuestion     string    `json:"topicQuestion" bson:"topicQuestion"`
	TerminationReason string    `json:"terminationReason,omitempty" bson:"terminationReason,omitempty"`
	TerminationDetail string    `json:"terminationDetail,omitempty" bson:"terminationDetail,omitempty"`
	PendingInsights   []string  `json:"pendingInsights,omitempty" bson:"pendingInsights,omitempty"`
	History           []Turn    `json:"history" bson:"history"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a copy that shares no slices with the receiver
func (s Session) Clone() Session {
	out := s
	out.StarterQuestions = append([]string(nil), s.StarterQuestions...)
	out.PendingInsights = append([]string(nil), s.PendingInsights...)
	out.History = make([]Turn, len(s.History))
	copy(out.History, s.History)
	for i, t := range out.History {
		if t.Classification != nil {
			c := *t.Classification
			c.Insights = append([]string(nil), c.Insights...)
			out.History[i].Classification = &c
		}
	}
	return out
}

// IsTerminal reports whether the session has finished
func (s Session) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionTerminatedEarly
}

// NextOrdinal returns the ordinal for the next appended turn
func (s Session) NextOrdinal() int {
	if len(s.History) == 0 {
		return 1
	}
	return s.History[len(s.History)-1].Ordinal + 1
}

// AppendTurn adds a turn to the history with the next ordinal
func (s *Session) AppendTurn(role TurnRole, text string, isProbe bool, now time.Time) *Turn {
	s.History = append(s.History, Turn{
		Role:      role,
		Text:      text,
		Ordinal:   s.NextOrdinal(),
		TurnIndex: s.TurnIndex,
		IsProbe:   isProbe,
		CreatedAt: now,
	})
	return &s.History[len(s.History)-1]
}

// LastQuestion returns the most recent question asked, or "" when none was
func (s Session) LastQuestion() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleQuestion {
			return s.History[i].Text
		}
	}
	return ""
}

// Answers returns the answer turns in order
func (s Session) Answers() []Turn {
	var out []Turn
	for _, t := range s.History {
		if t.Role == RoleAnswer {
			out = append(out, t)
		}
	}
	return out
}

// AskedQuestions returns the text of every question asked so far
func (s Session) AskedQuestions() []string {
	var out []string
	for _, t := range s.History {
		if t.Role == RoleQuestion {
			out = append(out, t.Text)
		}
	}
	return out
}

// Progress reports the current turn against the session budget
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

func (s Session) Progress() Progress {
	return Progress{Current: s.TurnIndex, Total: s.MaxTurns}
}

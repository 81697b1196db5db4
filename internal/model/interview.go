package model

// StartInterviewRequest selects a template or supplies ad-hoc start inputs
type StartInterviewRequest struct {
	TemplateID       string   `json:"templateId,omitempty"`
	Topic            string   `json:"topic,omitempty"`
	StarterQuestions []string `json:"starterQuestions,omitempty"`
	MaxTurns         int      `json:"maxTurns,omitempty"`
	// ProbeBudget overrides the template when set; 0 disables follow-ups
	ProbeBudget *int `json:"probeBudget,omitempty"`
}

type StartInterviewResponse struct {
	SessionID string   `json:"sessionId"`
	Token     string   `json:"token"`
	Topic     string   `json:"topic"`
	Question  string   `json:"question"`
	Progress  Progress `json:"progress"`
}

// MessageRequest carries one respondent answer
type MessageRequest struct {
	Message string `json:"message"`
}

// TurnResult carries exactly one of Question or Summary
type TurnResult struct {
	SessionID         string    `json:"sessionId"`
	Question          string    `json:"question,omitempty"`
	Summary           *Summary  `json:"summary,omitempty"`
	IsProbe           bool      `json:"isProbe"`
	Progress          Progress  `json:"progress"`
	IsComplete        bool      `json:"isComplete"`
	TerminatedEarly   bool      `json:"terminatedEarly"`
	TerminationReason string    `json:"terminationReason,omitempty"`
	Sentiment         Sentiment `json:"sentiment,omitempty"`
	Quality           Quality   `json:"quality,omitempty"`
}

// EndInterviewResponse is returned when a respondent ends a session
type EndInterviewResponse struct {
	SessionID  string   `json:"sessionId"`
	Status     string   `json:"status"`
	Transcript []Turn   `json:"transcript"`
	Summary    *Summary `json:"summary"`
}

package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToWatchers(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// Event types pushed to researchers watching a session
const (
	EventTurnProcessed      = "turn_processed"
	EventInterviewCompleted = "interview_completed"
)

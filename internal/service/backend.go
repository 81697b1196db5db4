package service

import (
	"context"

	"github.com/pkg/errors"

	"aiinterviewer/internal/config"
)

// Task names a judgment call; backends pick their model per task
type Task string

const (
	TaskClassify  Task = "classify"
	TaskRelevance Task = "relevance"
	TaskInsights  Task = "insights"
	TaskProbe     Task = "probe"
	TaskRedirect  Task = "redirect"
	TaskQuestion  Task = "question"
	TaskNarrative Task = "narrative"
	TaskThemes    Task = "themes"
)

// CompletionRequest is one text-in/text-out call to the completion backend
type CompletionRequest struct {
	Task        Task
	Prompt      string
	MaxTokens   int
	Temperature float32
	// JSON asks the backend for a JSON object response
	JSON bool
}

// Backend is the black-box completion service. Any error is a failure the
// caller must replace with its documented fallback; there are no retries.
type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

var ErrBackendDisabled = errors.New("completion backend disabled")

// DisabledBackend fails every call so all judgment sites take their fallback
type DisabledBackend struct{}

func (DisabledBackend) Complete(context.Context, CompletionRequest) (string, error) {
	return "", ErrBackendDisabled
}

func (DisabledBackend) Name() string { return config.ProviderNone }

// NewBackend selects the completion backend named by cfg.Provider
func NewBackend(cfg *config.AIConfig) Backend {
	if cfg == nil || !cfg.IsEnabled() {
		return DisabledBackend{}
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIBackend(cfg)
	case config.ProviderGemini:
		return NewGeminiBackend(cfg)
	}
	return DisabledBackend{}
}

func modelForTask(m config.TaskModels, task Task) string {
	switch task {
	case TaskClassify:
		return m.Classify
	case TaskRelevance:
		return m.Relevance
	case TaskInsights:
		return m.Insights
	case TaskProbe, TaskRedirect:
		return m.Probe
	case TaskQuestion:
		return m.Question
	default:
		return m.Summary
	}
}

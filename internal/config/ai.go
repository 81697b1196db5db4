package config

import "strings"

// Providers understood by the completion backend factory
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// TaskModels defines which model serves each judgment task
type TaskModels struct {
	// Classify runs once per undetermined answer (needs to be fast)
	Classify string `json:"classify" yaml:"classify"`

	// Relevance confirms deviation candidates (needs to be fast)
	Relevance string `json:"relevance" yaml:"relevance"`

	Insights string `json:"insights" yaml:"insights"`
	Probe    string `json:"probe" yaml:"probe"`
	Question string `json:"question" yaml:"question"`

	// Summary is for narrative and theme generation once per session (quality over speed)
	Summary string `json:"summary" yaml:"summary"`
}

// AIConfig holds all completion-backend configuration
type AIConfig struct {
	Provider    string     `json:"provider" yaml:"provider"`
	APIKey      string     `json:"-" yaml:"api_key"` // Never serialize
	BaseURL     string     `json:"baseUrl" yaml:"base_url"`
	Models      TaskModels `json:"models" yaml:"models"`
	TimeoutMS   int        `json:"timeoutMs" yaml:"timeout_ms"`
	Temperature float32    `json:"temperature" yaml:"temperature"`
}

// DefaultAIConfig returns the AI configuration from the environment.
// AI_PROVIDER picks the backend; Groq and other OpenAI-compatible services use "openai" with AI_BASE_URL.
func DefaultAIConfig() *AIConfig {
	provider := strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini))
	cfg := &AIConfig{
		Provider:    provider,
		TimeoutMS:   getEnvInt("AI_TIMEOUT_MS", 10000),
		Temperature: 0.3,
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = firstEnv("OPENAI_API_KEY", "GROQ_API_KEY")
		cfg.BaseURL = getEnv("AI_BASE_URL", "https://api.groq.com/openai/v1")
		fast := getEnv("AI_MODEL_FAST", "llama-3.1-8b-instant")
		deep := getEnv("AI_MODEL_DEEP", "llama-3.3-70b-versatile")
		cfg.Models = TaskModels{
			Classify:  fast,
			Relevance: fast,
			Insights:  deep,
			Probe:     fast,
			Question:  deep,
			Summary:   deep,
		}
	default:
		cfg.APIKey = getEnv("GEMINI_API_KEY", "")
		cfg.BaseURL = getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models")
		fast := getEnv("AI_MODEL_FAST", "gemini-2.0-flash")
		deep := getEnv("AI_MODEL_DEEP", "gemini-2.5-flash")
		cfg.Models = TaskModels{
			Classify:  fast,
			Relevance: fast,
			Insights:  fast,
			Probe:     fast,
			Question:  deep,
			Summary:   deep,
		}
	}
	return cfg
}

// IsEnabled returns true if a completion backend is configured
func (c *AIConfig) IsEnabled() bool {
	return c.Provider != ProviderNone && c.APIKey != ""
}

// ModelEndpoint returns the Gemini endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + model + ":generateContent"
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := getEnv(k, ""); v != "" {
			return v
		}
	}
	return ""
}

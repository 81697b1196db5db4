package config

import "github.com/pkg/errors"

// Actions taken when a topic has used its whole probe budget
const (
	ExhaustedAdvance   = "advance"
	ExhaustedTerminate = "terminate"
)

// Policy holds the interview thresholds. None of them are structural.
type Policy struct {
	ProbeBudget          int    `yaml:"probe_budget"`
	ExhaustedProbeAction string `yaml:"exhausted_probe_action"`
	DefaultMaxTurns      int    `yaml:"default_max_turns"`

	ShallowMaxWords   int `yaml:"shallow_max_words"`
	VagueMaxWords     int `yaml:"vague_max_words"`
	ExcellentMinWords int `yaml:"excellent_min_words"`
	// FallbackGoodMinWords decides good vs shallow when the judgment call fails
	FallbackGoodMinWords int `yaml:"fallback_good_min_words"`
	ShortAnswerWords     int `yaml:"short_answer_words"`

	// ShortNegativeMaxWords bounds the negative answers that end a session on their own
	ShortNegativeMaxWords int `yaml:"short_negative_max_words"`
	DismissiveStreak      int `yaml:"dismissive_streak"`
	TemplateProbeMaxWords int `yaml:"template_probe_max_words"`
	RelevanceLongWords    int `yaml:"relevance_long_words"`
	KeywordLimit          int `yaml:"keyword_limit"`
}

func DefaultPolicy() Policy {
	return Policy{
		ProbeBudget:           getEnvInt("PROBE_BUDGET", 1),
		ExhaustedProbeAction:  getEnv("EXHAUSTED_PROBE_ACTION", ExhaustedAdvance),
		DefaultMaxTurns:       getEnvInt("DEFAULT_MAX_TURNS", 5),
		ShallowMaxWords:       2,
		VagueMaxWords:         8,
		ExcellentMinWords:     20,
		FallbackGoodMinWords:  5,
		ShortAnswerWords:      8,
		ShortNegativeMaxWords: 2,
		DismissiveStreak:      3,
		TemplateProbeMaxWords: 4,
		RelevanceLongWords:    10,
		KeywordLimit:          5,
	}
}

// TerminateOnExhaustedBudget reports whether an exhausted probe budget ends the session
func (p Policy) TerminateOnExhaustedBudget() bool {
	return p.ExhaustedProbeAction == ExhaustedTerminate
}

func (p Policy) Validate() error {
	switch {
	case p.ProbeBudget < 0:
		return errors.New("policy: probe_budget must be >= 0")
	case p.ExhaustedProbeAction != ExhaustedAdvance && p.ExhaustedProbeAction != ExhaustedTerminate:
		return errors.Errorf("policy: unknown exhausted_probe_action %q", p.ExhaustedProbeAction)
	case p.DefaultMaxTurns < 1:
		return errors.New("policy: default_max_turns must be >= 1")
	case p.ShallowMaxWords < 0 || p.VagueMaxWords < p.ShallowMaxWords:
		return errors.New("policy: vague_max_words must be >= shallow_max_words")
	case p.ShortNegativeMaxWords < 0:
		return errors.New("policy: short_negative_max_words must be >= 0")
	case p.DismissiveStreak < 1:
		return errors.New("policy: dismissive_streak must be >= 1")
	case p.KeywordLimit < 1:
		return errors.New("policy: keyword_limit must be >= 1")
	}
	return nil
}

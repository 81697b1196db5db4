package service

import (
	"context"
	"strings"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/heuristics"
	"aiinterviewer/internal/model"
)

const maxSalvagedRunes = 200

// InsightOutcome is the merged insight set for a topic that just concluded
type InsightOutcome struct {
	// Insights holds pending insights from earlier probes followed by new ones, deduplicated
	Insights      []string
	Fresh         []string
	Tone          model.Sentiment
	NeedsFollowUp bool
	FollowUpTopic string
	Fallback      bool
}

// InsightService extracts insights from accepted answers and carries
// insights salvaged during probes until the topic concludes.
type InsightService struct {
	evaluator *EvaluatorService
	policy    config.Policy
}

func NewInsightService(evaluator *EvaluatorService, policy config.Policy) *InsightService {
	return &InsightService{evaluator: evaluator, policy: policy}
}

// Extract runs only for accepted answers
func (s *InsightService) Extract(ctx context.Context, sess model.Session, question, answer string) InsightOutcome {
	res := s.evaluator.ExtractInsights(ctx, sess.Topic, question, answer)
	out := InsightOutcome{
		Insights:      MergeInsights(sess.PendingInsights, res.Insights),
		Fresh:         res.Insights,
		Tone:          res.Tone,
		NeedsFollowUp: res.NeedsFollowUp,
		FollowUpTopic: res.FollowUpTopic,
		Fallback:      res.Fallback,
	}
	if res.Fallback {
		out.NeedsFollowUp = heuristics.WordCount(answer) < s.policy.ShortAnswerWords
	}
	return out
}

// Salvage keeps what a vague answer did say so it is not lost while probing.
// Shallow answers carry nothing worth keeping.
func (s *InsightService) Salvage(answer string, c model.Classification) []string {
	if c.Quality != model.QualityVague {
		return nil
	}
	text := strings.TrimSpace(answer)
	if r := []rune(text); len(r) > maxSalvagedRunes {
		text = string(r[:maxSalvagedRunes])
	}
	if text == "" {
		return nil
	}
	return []string{"Respondent mentioned: " + text}
}

// MergeInsights appends b to a, dropping blanks and case-insensitive duplicates
func MergeInsights(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, it := range list {
			it = strings.TrimSpace(it)
			key := strings.ToLower(it)
			if it == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, it)
		}
	}
	return out
}

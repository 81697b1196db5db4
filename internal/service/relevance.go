package service

import (
	"context"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/heuristics"
)

// Relevance methods
const (
	RelevanceKeyword  = "keyword"
	RelevanceJudgment = "judgment"
	RelevanceFallback = "fallback"
)

// RelevanceVerdict tells whether an answer strayed from the question asked
type RelevanceVerdict struct {
	Deviated bool
	Method   string
}

// RelevanceDetector checks keyword overlap first and confirms misses with a judgment call
type RelevanceDetector struct {
	evaluator *EvaluatorService
	policy    config.Policy
}

func NewRelevanceDetector(evaluator *EvaluatorService, policy config.Policy) *RelevanceDetector {
	return &RelevanceDetector{evaluator: evaluator, policy: policy}
}

func (d *RelevanceDetector) Detect(ctx context.Context, topic, question, answer string) RelevanceVerdict {
	wc := heuristics.WordCount(answer)
	if wc <= d.policy.RelevanceLongWords {
		keywords := heuristics.Keywords(question, d.policy.KeywordLimit)
		if heuristics.Overlaps(keywords, answer) {
			return RelevanceVerdict{Method: RelevanceKeyword}
		}
	}
	// Short answers without overlap are only candidates; longer answers are
	// always confirmed since missing overlap says little about them.
	res := d.evaluator.CheckRelevance(ctx, topic, question, answer)
	if res.Fallback {
		return RelevanceVerdict{Method: RelevanceFallback}
	}
	return RelevanceVerdict{Deviated: !res.Relevant, Method: RelevanceJudgment}
}

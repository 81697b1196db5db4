package service

import (
	"context"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/heuristics"
	"aiinterviewer/internal/model"
)

// classificationStrategy produces a verdict for one answer. ok is false when
// the strategy cannot decide and the next one must run.
type classificationStrategy interface {
	classify(ctx context.Context, question, text string) (c model.Classification, ok bool)
}

// lexicalStrategy is the zero-latency path; it only decides shallow and vague answers
type lexicalStrategy struct {
	thresholds heuristics.Thresholds
}

func (l lexicalStrategy) classify(_ context.Context, _, text string) (model.Classification, bool) {
	q, ok := heuristics.QualityTier(text, l.thresholds)
	if !ok {
		return model.Classification{}, false
	}
	return model.Classification{
		Quality:   q,
		Sentiment: heuristics.SentimentTier(text),
		WordCount: heuristics.WordCount(text),
		Source:    model.SourceLexical,
	}, true
}

// judgmentStrategy always decides, falling back to word count when the backend fails
type judgmentStrategy struct {
	evaluator *EvaluatorService
	policy    config.Policy
}

func (j judgmentStrategy) classify(ctx context.Context, question, text string) (model.Classification, bool) {
	wc := heuristics.WordCount(text)
	res := j.evaluator.Classify(ctx, question, text)
	if res.Fallback {
		q := model.QualityShallow
		if wc >= j.policy.FallbackGoodMinWords {
			q = model.QualityGood
		}
		return model.Classification{
			Quality:   q,
			Sentiment: heuristics.SentimentTier(text),
			WordCount: wc,
			Source:    model.SourceFallback,
		}, true
	}

	q := res.Quality
	if q == model.QualityExcellent && wc < j.policy.ExcellentMinWords {
		q = model.QualityGood
	}
	return model.Classification{
		Quality:   q,
		Sentiment: res.Sentiment,
		WordCount: wc,
		Source:    model.SourceJudgment,
	}, true
}

// ResponseClassifier runs the lexical strategy first and escalates to a
// judgment call only when the lexical signal is inconclusive.
type ResponseClassifier struct {
	strategies []classificationStrategy
}

func NewResponseClassifier(evaluator *EvaluatorService, policy config.Policy) *ResponseClassifier {
	return &ResponseClassifier{
		strategies: []classificationStrategy{
			lexicalStrategy{thresholds: heuristics.Thresholds{
				ShallowMaxWords: policy.ShallowMaxWords,
				VagueMaxWords:   policy.VagueMaxWords,
			}},
			judgmentStrategy{evaluator: evaluator, policy: policy},
		},
	}
}

// Classify never fails; the returned verdict is always within the declared domains
func (c *ResponseClassifier) Classify(ctx context.Context, question, text string) model.Classification {
	for _, s := range c.strategies {
		if out, ok := s.classify(ctx, question, text); ok {
			if out.Insights == nil {
				out.Insights = []string{}
			}
			return out
		}
	}
	return model.Classification{
		Quality:   model.QualityGood,
		Sentiment: model.SentimentNeutral,
		WordCount: heuristics.WordCount(text),
		Insights:  []string{},
		Source:    model.SourceFallback,
	}
}

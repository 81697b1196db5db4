package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"aiinterviewer/internal/heuristics"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/repository"
)

// Ending describes how a session reached its terminal status
type Ending struct {
	Early  bool
	Reason string
}

// SummaryService folds a finished session into its write-once Summary
type SummaryService struct {
	evaluator    *EvaluatorService
	summaries    repository.SummaryRepo
	storeTimeout time.Duration
	now          func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(evaluator *EvaluatorService, summaries repository.SummaryRepo, storeTimeout time.Duration) *SummaryService {
	return &SummaryService{
		evaluator:    evaluator,
		summaries:    summaries,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// Finalize returns the stored summary for the session when one exists and
// otherwise builds and saves it. Store failures are logged, never returned.
func (s *SummaryService) Finalize(ctx context.Context, sess model.Session, end Ending) *model.Summary {
	if existing, err := s.Get(ctx, sess.ID); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("summary lookup failed")
	} else if existing != nil {
		return existing
	}

	summary := s.Build(ctx, sess, end)

	saveCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.summaries.SaveSummary(saveCtx, summary); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("summary save failed")
	}
	return summary
}

// Get returns the stored summary or nil
func (s *SummaryService) Get(ctx context.Context, sessionID string) (*model.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.summaries.GetSummary(ctx, sessionID)
}

// Build computes the summary without touching the store
func (s *SummaryService) Build(ctx context.Context, sess model.Session, end Ending) *model.Summary {
	answers := sess.Answers()
	dist := map[model.Sentiment]int{
		model.SentimentPositive: 0,
		model.SentimentNeutral:  0,
		model.SentimentNegative: 0,
	}
	var insights, texts []string
	score := 0.0
	for _, a := range answers {
		texts = append(texts, a.Text)
		sentiment := model.SentimentNeutral
		if a.Classification != nil {
			sentiment = a.Classification.Sentiment
			insights = MergeInsights(insights, a.Classification.Insights)
		}
		dist[sentiment]++
		score += sentiment.Score()
	}
	insights = MergeInsights(insights, sess.PendingInsights)

	avg := 0.5
	if len(answers) > 0 {
		avg = math.Round(score/float64(len(answers))*100) / 100
	}

	var narrative string
	var themes []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := s.evaluator.Narrative(gctx, sess.Topic, texts, insights, end.Early)
		narrative = res.Text
		if res.Fallback || narrative == "" {
			narrative = fallbackNarrative(sess, len(answers), insights, end)
		}
		return nil
	})
	g.Go(func() error {
		res := s.evaluator.KeyThemes(gctx, insights, texts)
		themes = res.Themes
		if res.Fallback {
			themes = fallbackThemes(texts, 5)
		}
		return nil
	})
	_ = g.Wait()

	if insights == nil {
		insights = []string{}
	}
	if themes == nil {
		themes = []string{}
	}
	return &model.Summary{
		SessionID:             sess.ID,
		Topic:                 sess.Topic,
		TurnsAsked:            sess.TurnIndex,
		TotalExchanges:        len(answers),
		SentimentDistribution: dist,
		AverageSentimentScore: avg,
		Insights:              insights,
		KeyThemes:             themes,
		Narrative:             narrative,
		EarlyTermination:      end.Early,
		TerminationReason:     end.Reason,
		GeneratedAt:           s.now(),
	}
}

func fallbackNarrative(sess model.Session, answered int, insights []string, end Ending) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The respondent answered %d of %d planned questions about %s.", answered, sess.MaxTurns, sess.Topic)
	if end.Early {
		fmt.Fprintf(&b, " The interview ended early (%s).", end.Reason)
	}
	if len(insights) > 0 {
		n := min(len(insights), 3)
		fmt.Fprintf(&b, " Key points: %s.", strings.Join(insights[:n], "; "))
	}
	return b.String()
}

// fallbackThemes ranks answer keywords by how many answers mention them
func fallbackThemes(answers []string, limit int) []string {
	counts := map[string]int{}
	first := map[string]int{}
	for _, a := range answers {
		for _, k := range heuristics.Keywords(a, 20) {
			if _, ok := first[k]; !ok {
				first[k] = len(first)
			}
			counts[k]++
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return first[keys[i]] < first[keys[j]]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

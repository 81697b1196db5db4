package service

import (
	"strconv"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/heuristics"
	"aiinterviewer/internal/model"
)

// DisengagementDetector decides early termination from lexical signals only,
// so it keeps working while the completion backend is down.
type DisengagementDetector struct {
	policy config.Policy
}

func NewDisengagementDetector(policy config.Policy) *DisengagementDetector {
	return &DisengagementDetector{policy: policy}
}

// Check evaluates the rules in precedence order; the first match wins.
// sess must already hold the current answer as its last turn.
func (d *DisengagementDetector) Check(sess model.Session, text string, c model.Classification) model.TerminationDecision {
	if phrase, ok := heuristics.ExitIntent(text); ok {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonExplicitExit, Detail: phrase}
	}

	if d.policy.TerminateOnExhaustedBudget() && sess.ProbeCount >= sess.ProbeBudget && c.Quality.NeedsProbe() {
		return model.TerminationDecision{
			ShouldTerminate: true,
			Reason:          model.ReasonProbeLimitReached,
			Detail:          strconv.Itoa(sess.ProbeCount) + " probes",
		}
	}

	if c.WordCount <= d.policy.ShortNegativeMaxWords && c.Sentiment == model.SentimentNegative {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonShortNegative}
	}

	if streak := dismissiveStreak(sess.History); streak >= d.policy.DismissiveStreak {
		return model.TerminationDecision{
			ShouldTerminate: true,
			Reason:          model.ReasonRepeatedDismissive,
			Detail:          strconv.Itoa(streak) + " answers",
		}
	}

	return model.TerminationDecision{}
}

// dismissiveStreak counts consecutive dismissive answers ending at the latest one
func dismissiveStreak(history []model.Turn) int {
	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != model.RoleAnswer {
			continue
		}
		if !heuristics.Dismissive(history[i].Text) {
			break
		}
		streak++
	}
	return streak
}

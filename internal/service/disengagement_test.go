package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/heuristics"
	"aiinterviewer/internal/model"
)

func sessionWithAnswers(answers ...string) model.Session {
	sess := model.Session{ID: "s1", MaxTurns: 5, ProbeBudget: 1, TurnIndex: 1, Status: model.SessionActive}
	now := time.Now()
	for _, a := range answers {
		sess.AppendTurn(model.RoleQuestion, "How often do you use it?", false, now)
		sess.AppendTurn(model.RoleAnswer, a, false, now)
	}
	return sess
}

func lexical(text string, q model.Quality) model.Classification {
	return model.Classification{
		Quality:   q,
		Sentiment: heuristics.SentimentTier(text),
		WordCount: heuristics.WordCount(text),
	}
}

func TestDisengagementRules(t *testing.T) {
	advance := NewDisengagementDetector(testPolicy())
	tests := []struct {
		name    string
		history []string
		quality model.Quality
		reason  string
	}{
		{"explicit exit", []string{"I love it so far", "I'm done"}, model.QualityShallow, model.ReasonExplicitExit},
		{"exit beats short negative", []string{"ugh, im done"}, model.QualityShallow, model.ReasonExplicitExit},
		{"short negative", []string{"I use it daily for work", "hate it"}, model.QualityShallow, model.ReasonShortNegative},
		{"dismissive streak", []string{"ok", "fine", "sure"}, model.QualityShallow, model.ReasonRepeatedDismissive},
		{"short negative beats streak", []string{"ok", "fine", "ugh"}, model.QualityShallow, model.ReasonShortNegative},
		{"streak broken", []string{"ok", "I use it every morning before work", "fine"}, model.QualityShallow, ""},
		{"generic words are not exits", []string{"I had enough of the old app so I switched"}, model.QualityGood, ""},
		{"substantive answer", []string{"I use it every morning before work, mostly for emails"}, model.QualityGood, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := sessionWithAnswers(tt.history...)
			last := tt.history[len(tt.history)-1]
			got := advance.Check(sess, last, lexical(last, tt.quality))
			assert.Equal(t, tt.reason != "", got.ShouldTerminate)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestDisengagementShortNegativeIgnoresShallowCutoff(t *testing.T) {
	policy := testPolicy()
	policy.ShallowMaxWords = 8
	d := NewDisengagementDetector(policy)

	long := "honestly I hate how slow it is"
	assert.Equal(t, model.SentimentNegative, heuristics.SentimentTier(long))
	got := d.Check(sessionWithAnswers(long), long, lexical(long, model.QualityShallow))
	assert.False(t, got.ShouldTerminate)

	short := "hate it"
	got = d.Check(sessionWithAnswers(short), short, lexical(short, model.QualityShallow))
	assert.Equal(t, model.ReasonShortNegative, got.Reason)
}

func TestDisengagementProbeLimit(t *testing.T) {
	policy := testPolicy()
	policy.ExhaustedProbeAction = config.ExhaustedTerminate
	d := NewDisengagementDetector(policy)

	sess := sessionWithAnswers("yes", "no")
	sess.ProbeCount = 1
	got := d.Check(sess, "no", lexical("no", model.QualityShallow))
	assert.True(t, got.ShouldTerminate)
	assert.Equal(t, model.ReasonProbeLimitReached, got.Reason)

	// an accepted answer never hits the probe limit
	sess = sessionWithAnswers("yes", "I use it for email every morning")
	sess.ProbeCount = 1
	got = d.Check(sess, "I use it for email every morning", lexical("I use it for email every morning", model.QualityGood))
	assert.False(t, got.ShouldTerminate)

	// the advance policy never terminates on the budget
	sess = sessionWithAnswers("yes", "no")
	sess.ProbeCount = 1
	got = NewDisengagementDetector(testPolicy()).Check(sess, "no", lexical("no", model.QualityShallow))
	assert.False(t, got.ShouldTerminate)
}

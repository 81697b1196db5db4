package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
)

const insightsReply = `{"key_insights": ["Uses it every morning before work", "Mostly for email"], "emotional_tone": "neutral", "needs_follow_up": false}`

func startAdHoc(t *testing.T, f *fixture, maxTurns int, questions ...string) *model.StartInterviewResponse {
	t.Helper()
	resp, err := f.svc.Start(context.Background(), model.StartInterviewRequest{
		Topic:            "product usage",
		StarterQuestions: questions,
		MaxTurns:         maxTurns,
	})
	require.NoError(t, err)
	return resp
}

func turn(t *testing.T, f *fixture, sessionID, msg string) *model.TurnResult {
	t.Helper()
	res, err := f.svc.ProcessTurn(context.Background(), sessionID, msg)
	require.NoError(t, err)
	require.NotNil(t, res)
	// exactly one outward artifact per turn
	assert.NotEqual(t, res.Question == "", res.Summary == nil, "turn %q must yield a question or a summary", msg)
	return res
}

func TestInterviewStart(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()

	resp, err := f.svc.Start(ctx, model.StartInterviewRequest{TemplateID: "coffee_drinker"})
	require.NoError(t, err)
	assert.Equal(t, "coffee consumption", resp.Topic)
	assert.Equal(t, "Tell me about your morning routine?", resp.Question)
	assert.Equal(t, model.Progress{Current: 1, Total: 5}, resp.Progress)
	assert.NotEmpty(t, resp.Token)

	claims, err := f.svc.auth.ValidateRespondentToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, claims.SessionID)

	sess, err := f.svc.Transcript(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.TurnIndex)
	assert.Equal(t, 1, sess.ProbeBudget)
	assert.Equal(t, resp.Question, sess.TopicQuestion)
	require.Len(t, sess.History, 1)
	assert.Equal(t, model.RoleQuestion, sess.History[0].Role)

	resp, err = f.svc.Start(ctx, model.StartInterviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, "your experience", resp.Topic)

	_, err = f.svc.Start(ctx, model.StartInterviewRequest{TemplateID: "missing"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestInterviewStartProbeBudgetZero(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()
	zero, two := 0, 2

	resp, err := f.svc.Start(ctx, model.StartInterviewRequest{
		Topic:            "product usage",
		StarterQuestions: []string{"How often do you use it?", "What do you use it for?"},
		ProbeBudget:      &zero,
	})
	require.NoError(t, err)
	sess, err := f.svc.Transcript(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, sess.ProbeBudget)

	// no follow-ups allowed, the shallow answer advances
	res := turn(t, f, resp.SessionID, "yes")
	assert.False(t, res.IsProbe)
	assert.Equal(t, "What do you use it for?", res.Question)

	err = f.svc.templates.Import(ctx, "r1", &model.Template{
		ID: "no-probes", Topic: "onboarding", StarterQuestions: []string{"How did signup go?"}, ProbeBudget: &zero,
	})
	require.NoError(t, err)
	resp, err = f.svc.Start(ctx, model.StartInterviewRequest{TemplateID: "no-probes"})
	require.NoError(t, err)
	sess, err = f.svc.Transcript(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, sess.ProbeBudget)

	// the request overrides the template
	resp, err = f.svc.Start(ctx, model.StartInterviewRequest{TemplateID: "no-probes", ProbeBudget: &two})
	require.NoError(t, err)
	sess, err = f.svc.Transcript(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.ProbeBudget)

	negative := -1
	_, err = f.svc.Start(ctx, model.StartInterviewRequest{Topic: "x", ProbeBudget: &negative})
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestInterviewStartGeneratesFirstQuestion(t *testing.T) {
	f := newFixture(t, testPolicy(), map[Task]string{TaskQuestion: "What do you use most often"})
	resp := startAdHoc(t, f, 3)
	assert.Equal(t, "What do you use most often?", resp.Question)
}

func TestInterviewFullFlow(t *testing.T) {
	f := newFixture(t, testPolicy(), map[Task]string{TaskInsights: insightsReply})
	start := startAdHoc(t, f, 3, "How often do you use it?", "What do you use it for?")
	id := start.SessionID
	assert.Equal(t, "How often do you use it?", start.Question)

	res := turn(t, f, id, "yes")
	assert.True(t, res.IsProbe)
	assert.Equal(t, model.Progress{Current: 1, Total: 3}, res.Progress)
	assert.Equal(t, model.QualityShallow, res.Quality)

	res = turn(t, f, id, "I use it every morning before work, mostly for emails")
	assert.False(t, res.IsProbe)
	assert.Equal(t, "What do you use it for?", res.Question)
	assert.Equal(t, model.Progress{Current: 2, Total: 3}, res.Progress)

	res = turn(t, f, id, "nothing else")
	assert.True(t, res.IsProbe)

	res = turn(t, f, id, "I mostly use it to read email and check my calendar")
	assert.False(t, res.IsProbe)
	assert.Equal(t, model.Progress{Current: 3, Total: 3}, res.Progress)
	assert.Contains(t, res.Question, "product usage")

	f.store.resetLog()
	res = turn(t, f, id, "No, I think that covers everything about it")
	require.True(t, res.IsComplete)
	assert.False(t, res.TerminatedEarly)
	require.NotNil(t, res.Summary)
	assert.False(t, res.Summary.EarlyTermination)
	assert.Equal(t, 3, res.Summary.TurnsAsked)
	assert.Equal(t, 5, res.Summary.TotalExchanges)
	assert.Equal(t, []string{"Uses it every morning before work", "Mostly for email"}, res.Summary.Insights)

	// response, insights, summary, archive, then the live record is released
	log := f.store.writeLog()
	require.NotEmpty(t, log)
	assert.Equal(t, "response", log[0])
	assert.Equal(t, []string{"summary", "archive", "release"}, log[len(log)-3:])
	for _, op := range log[1 : len(log)-3] {
		assert.Equal(t, "insight", op)
	}

	sess, err := f.svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, sess.Status)
	assert.Empty(t, sess.PendingInsights)

	responses, err := f.svc.Responses(context.Background(), id)
	require.NoError(t, err)
	outcomes := make([]string, 0, len(responses))
	for _, r := range responses {
		outcomes = append(outcomes, r.Outcome)
	}
	assert.Equal(t, []string{OutcomeProbe, OutcomeAdvance, OutcomeProbe, OutcomeAdvance, OutcomeAdvance}, outcomes)

	assert.Contains(t, f.events.events, EventInterviewCompleted)
	assert.Equal(t, []string{id}, f.events.disconnected)
}

func TestInterviewRepeatedDismissive(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	id := startAdHoc(t, f, 5, "How often do you use it?", "What do you use it for?").SessionID

	res := turn(t, f, id, "ok")
	assert.True(t, res.IsProbe)

	// budget spent, so the turn is forced to advance
	res = turn(t, f, id, "fine")
	assert.False(t, res.IsProbe)
	assert.Equal(t, "What do you use it for?", res.Question)

	res = turn(t, f, id, "sure")
	require.True(t, res.IsComplete)
	assert.True(t, res.TerminatedEarly)
	assert.Equal(t, model.ReasonRepeatedDismissive, res.TerminationReason)
	assert.True(t, res.Summary.EarlyTermination)
	assert.Equal(t, model.ReasonRepeatedDismissive, res.Summary.TerminationReason)
}

func TestInterviewExplicitExit(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	id := startAdHoc(t, f, 5, "How often do you use it?").SessionID

	res := turn(t, f, id, "I'm done")
	require.True(t, res.IsComplete)
	assert.Equal(t, model.ReasonExplicitExit, res.TerminationReason)

	sess, err := f.svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.SessionTerminatedEarly, sess.Status)
	assert.Equal(t, "i'm done", sess.TerminationDetail)
}

func TestInterviewProbeLimitTerminates(t *testing.T) {
	policy := testPolicy()
	policy.ExhaustedProbeAction = config.ExhaustedTerminate
	f := newFixture(t, policy, nil)
	id := startAdHoc(t, f, 5, "How often do you use it?").SessionID

	assert.True(t, turn(t, f, id, "yes").IsProbe)
	res := turn(t, f, id, "no")
	require.True(t, res.IsComplete)
	assert.Equal(t, model.ReasonProbeLimitReached, res.TerminationReason)
}

func TestInterviewShortRelevantAnswerIsNotRedirected(t *testing.T) {
	f := newFixture(t, testPolicy(), map[Task]string{TaskRelevance: "RELEVANT"})
	id := startAdHoc(t, f, 3, "How often do you use it?").SessionID

	res := turn(t, f, id, "Daily.")
	assert.True(t, res.IsProbe)
	assert.False(t, strings.HasPrefix(res.Question, "Let's get back to"))

	responses, err := f.svc.Responses(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, OutcomeProbe, responses[0].Outcome)
}

func TestInterviewRedirectsOffTopicAnswer(t *testing.T) {
	f := newFixture(t, testPolicy(), map[Task]string{TaskRelevance: "IRRELEVANT"})
	id := startAdHoc(t, f, 3, "How often do you use the app?").SessionID

	res := turn(t, f, id, "I love pizza")
	assert.True(t, res.IsProbe)
	assert.Contains(t, res.Question, "How often do you use the app?")

	sess, err := f.svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.ProbeCount)
	assert.Equal(t, 1, sess.TurnIndex)
	assert.Equal(t, "How often do you use the app?", sess.TopicQuestion)
}

func TestInterviewRedirectsWhenOnlyStopwordsMatch(t *testing.T) {
	f := newFixture(t, testPolicy(), map[Task]string{
		TaskClassify:  `{"quality":"shallow","sentiment":"neutral"}`,
		TaskRelevance: "IRRELEVANT",
	})
	id := startAdHoc(t, f, 3, "How do you manage notifications?").SessionID

	res := turn(t, f, id, "I do not like pizza")
	assert.True(t, res.IsProbe)
	assert.Contains(t, res.Question, "How do you manage notifications?")
	assert.Equal(t, 1, f.backend.count(TaskRelevance))
}

func TestInterviewPendingInsightsMergeForward(t *testing.T) {
	f := newFixture(t, testPolicy(), map[Task]string{
		TaskClassify: `{"quality":"vague","sentiment":"neutral"}`,
	})
	id := startAdHoc(t, f, 3, "How often do you use it?", "What do you use it for?").SessionID

	// vague answer is salvaged while probing
	res := turn(t, f, id, "maybe, I guess when I have some spare time honestly")
	assert.True(t, res.IsProbe)
	sess, err := f.svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, sess.PendingInsights, 1)

	// budget spent; the vague answer is accepted and the salvaged insight flushed
	res = turn(t, f, id, "probably most days, I think, it depends on my schedule")
	assert.False(t, res.IsProbe)

	sess, err = f.svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, sess.PendingInsights)
	assert.Zero(t, sess.ProbeCount)

	insights, err := f.store.ListInsights(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "Respondent mentioned: maybe, I guess when I have some spare time honestly", insights[0].Text)
}

func TestInterviewEnd(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()
	id := startAdHoc(t, f, 5, "How often do you use it?").SessionID

	_, err := f.svc.GetSummary(ctx, id)
	assert.ErrorIs(t, err, ErrSummaryNotReady)

	turn(t, f, id, "I use it every morning before work, mostly for emails")

	end, err := f.svc.End(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.SessionTerminatedEarly), end.Status)
	require.NotNil(t, end.Summary)
	assert.Equal(t, model.ReasonEndedByRespondent, end.Summary.TerminationReason)
	assert.Len(t, end.Transcript, 3)

	again, err := f.svc.End(ctx, id)
	require.NoError(t, err)
	assert.Same(t, end.Summary, again.Summary)

	summary, err := f.svc.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Same(t, end.Summary, summary)

	// further messages return the same summary
	res := turn(t, f, id, "one more thing")
	assert.True(t, res.IsComplete)
	assert.Same(t, end.Summary, res.Summary)
}

func TestInterviewSessionNotFound(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()

	_, err := f.svc.ProcessTurn(ctx, "missing", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.End(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.Transcript(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.GetSummary(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInterviewEmptyMessage(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	id := startAdHoc(t, f, 3, "How often do you use it?").SessionID
	_, err := f.svc.ProcessTurn(context.Background(), id, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestInterviewReleasesLiveSessionOnCompletion(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()
	id := startAdHoc(t, f, 3, "How often do you use it?").SessionID
	first := turn(t, f, id, "I'm done")
	require.True(t, first.IsComplete)

	live, err := f.store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, live)

	sess, err := f.svc.Transcript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.SessionTerminatedEarly, sess.Status)

	// finished sessions keep answering from the archive
	res := turn(t, f, id, "one more thing")
	assert.True(t, res.IsComplete)
	assert.Same(t, first.Summary, res.Summary)

	end, err := f.svc.End(ctx, id)
	require.NoError(t, err)
	assert.Same(t, first.Summary, end.Summary)
	assert.Equal(t, string(model.SessionTerminatedEarly), end.Status)
}

func TestInterviewKeepsLiveSessionWhenArchiveFails(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()
	id := startAdHoc(t, f, 3, "How often do you use it?").SessionID
	f.svc.archive = failingArchive{}

	turn(t, f, id, "I'm done")

	live, err := f.store.GetSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, model.SessionTerminatedEarly, live.Status)
}

type failingArchive struct{}

func (failingArchive) ArchiveSession(context.Context, *model.Session) error { return errStoreDown }

func (failingArchive) GetArchivedSession(context.Context, string) (*model.Session, error) {
	return nil, nil
}

func TestInterviewSurvivesStoreWriteFailures(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	id := startAdHoc(t, f, 3, "How often do you use it?").SessionID
	f.store.failWrites = true

	res := turn(t, f, id, "I'm done")
	assert.True(t, res.IsComplete)
	require.NotNil(t, res.Summary)
}

func TestInterviewInvariantsHoldAcrossLongRun(t *testing.T) {
	answers := []string{
		"yes", "maybe, I guess kind of", "I use it every morning before work, mostly for emails",
		"no idea", "It helps me plan the whole week with my team and keeps meetings short",
		"hmm", "I like the calendar view a lot because it shows everything at once",
		"sort of, I think", "Daily.", "I open it at lunch to check messages from clients",
	}
	for _, budget := range []int{0, 1, 2} {
		for _, maxTurns := range []int{1, 2, 4} {
			t.Run(fmt.Sprintf("budget=%d max=%d", budget, maxTurns), func(t *testing.T) {
				policy := testPolicy()
				policy.ProbeBudget = budget
				policy.DismissiveStreak = 100
				f := newFixture(t, policy, map[Task]string{TaskInsights: insightsReply})
				id := startAdHoc(t, f, maxTurns).SessionID
				ctx := context.Background()

				prevTurn := 1
				for i := 0; i < 40; i++ {
					res := turn(t, f, id, answers[i%len(answers)])
					sess, err := f.svc.Transcript(ctx, id)
					require.NoError(t, err)

					assert.LessOrEqual(t, sess.TurnIndex, sess.MaxTurns)
					assert.LessOrEqual(t, sess.ProbeCount, sess.ProbeBudget)
					if sess.TurnIndex != prevTurn {
						assert.Zero(t, sess.ProbeCount)
					}
					prevTurn = sess.TurnIndex
					for j, h := range sess.History {
						assert.Equal(t, j+1, h.Ordinal)
					}
					if res.IsComplete {
						assert.Equal(t, model.SessionCompleted, sess.Status)
						assert.Equal(t, maxTurns, sess.TurnIndex)
						return
					}
				}
				t.Fatal("interview never completed")
			})
		}
	}
}

func TestInterviewConcurrentTurnsAreSerialized(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	id := startAdHoc(t, f, 20, "How often do you use it?").SessionID

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ProcessTurn(context.Background(), id, "I use it every morning before work, mostly for emails")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := f.svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, sess.Answers(), 8)
	assert.Equal(t, 9, sess.TurnIndex)
}

func TestInterviewWatchHoldsTurns(t *testing.T) {
	f := newFixture(t, testPolicy(), nil)
	ctx := context.Background()
	id := startAdHoc(t, f, 3, "How often do you use it?").SessionID

	turnDone := make(chan struct{})
	err := f.svc.Watch(ctx, id, func(sess *model.Session) {
		assert.False(t, sess.IsTerminal())
		go func() {
			defer close(turnDone)
			_, err := f.svc.ProcessTurn(ctx, id, "I'm done")
			assert.NoError(t, err)
		}()
		select {
		case <-turnDone:
			t.Error("turn completed while the session was being watched")
		case <-time.After(50 * time.Millisecond):
		}
	})
	require.NoError(t, err)
	<-turnDone

	err = f.svc.Watch(ctx, id, func(sess *model.Session) {
		assert.True(t, sess.IsTerminal())
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Watch(ctx, "missing", func(*model.Session) {}), ErrSessionNotFound)
}

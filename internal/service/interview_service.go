package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"aiinterviewer/internal/cache"
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/repository"
)

// State is a node of the per-turn state machine
type State string

const (
	StateStart        State = "START"
	StateAnalyzing    State = "ANALYZING"
	StateTerminating  State = "TERMINATING"
	StateDeviated     State = "DEVIATED"
	StateProbing      State = "PROBING"
	StateAdvancing    State = "ADVANCING"
	StateAwaitingUser State = "AWAITING_USER"
	StateComplete     State = "COMPLETE"
)

// Outcomes recorded on analyzed responses
const (
	OutcomeTerminate = "terminate"
	OutcomeRedirect  = "redirect"
	OutcomeProbe     = "probe"
	OutcomeAdvance   = "advance"
)

// InterviewService runs the interview state machine. Each turn reads the
// session, moves a private copy through the states and writes it back once.
type InterviewService struct {
	sessions  cache.SessionCache
	responses repository.ResponseRepo
	archive   repository.SessionArchive
	templates *TemplateService
	summaries *SummaryService
	auth      *AuthService

	classifier    *ResponseClassifier
	relevance     *RelevanceDetector
	disengagement *DisengagementDetector
	insights      *InsightService
	questions     *QuestionGenerator

	policy       config.Policy
	storeTimeout time.Duration
	locks        *sessionLocks
	broadcaster  Broadcaster
	now          func() time.Time
}

// NewInterviewService wires the turn pipeline around evaluator. archive may be nil.
func NewInterviewService(
	sessions cache.SessionCache,
	responses repository.ResponseRepo,
	archive repository.SessionArchive,
	templates *TemplateService,
	summaries *SummaryService,
	auth *AuthService,
	evaluator *EvaluatorService,
	policy config.Policy,
	storeTimeout time.Duration,
	rnd *rand.Rand,
) *InterviewService {
	return &InterviewService{
		sessions:      sessions,
		responses:     responses,
		archive:       archive,
		templates:     templates,
		summaries:     summaries,
		auth:          auth,
		classifier:    NewResponseClassifier(evaluator, policy),
		relevance:     NewRelevanceDetector(evaluator, policy),
		disengagement: NewDisengagementDetector(policy),
		insights:      NewInsightService(evaluator, policy),
		questions:     NewQuestionGenerator(evaluator, policy, rnd),
		policy:        policy,
		storeTimeout:  storeTimeout,
		locks:         newSessionLocks(),
		now:           time.Now,
	}
}

// SetBroadcaster sets the broadcaster for live session events
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a session from a template or ad-hoc inputs and asks the first question
func (s *InterviewService) Start(ctx context.Context, req model.StartInterviewRequest) (*model.StartInterviewResponse, error) {
	tpl, err := s.resolveTemplate(ctx, req)
	if err != nil {
		return nil, err
	}
	probeBudget := s.policy.ProbeBudget
	for _, b := range []*int{req.ProbeBudget, tpl.ProbeBudget} {
		if b != nil {
			probeBudget = *b
			break
		}
	}
	if probeBudget < 0 {
		return nil, errors.Wrap(ErrInvalidTemplate, "probe budget must be >= 0")
	}

	now := s.now()
	sess := model.Session{
		ID:               uuid.New().String(),
		TemplateID:       tpl.ID,
		Topic:            tpl.Topic,
		StarterQuestions: tpl.StarterQuestions,
		MaxTurns:         firstPositive(req.MaxTurns, tpl.MaxTurns, s.policy.DefaultMaxTurns),
		ProbeBudget:      probeBudget,
		TurnIndex:        1,
		Status:           model.SessionActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var question string
	if len(sess.StarterQuestions) > 0 {
		question = ensureQuestion(sess.StarterQuestions[0], "")
	} else {
		question = s.questions.NextTopic(ctx, sess, nil)
	}
	sess.TopicQuestion = question
	sess.AppendTurn(model.RoleQuestion, question, false, now)

	putCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.sessions.PutSession(putCtx, &sess); err != nil {
		return nil, errors.Wrap(err, "start interview")
	}

	token, err := s.auth.GenerateRespondentToken(sess.ID)
	if err != nil {
		return nil, errors.Wrap(err, "start interview: token")
	}

	log.Info().
		Str("session", sess.ID).
		Str("topic", sess.Topic).
		Int("maxTurns", sess.MaxTurns).
		Int("probeBudget", sess.ProbeBudget).
		Str("state", string(StateStart)).
		Msg("interview started")

	return &model.StartInterviewResponse{
		SessionID: sess.ID,
		Token:     token,
		Topic:     sess.Topic,
		Question:  question,
		Progress:  sess.Progress(),
	}, nil
}

// turnState is the value moved through the state machine during one turn
type turnState struct {
	state     State
	sess      model.Session
	text      string
	question  string
	answerIdx int
	class     model.Classification
	decision  model.TerminationDecision
	outcome   string
	outward   string
	isProbe   bool
	summary   *model.Summary
}

// ProcessTurn handles one respondent message. It yields exactly one next
// question or exactly one summary. Only ErrSessionNotFound and store read
// failures are returned; judgment and write failures degrade in place.
func (s *InterviewService) ProcessTurn(ctx context.Context, sessionID, message string) (*model.TurnResult, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	sess, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.IsTerminal() {
		summary := s.summaries.Finalize(ctx, *sess, endingOf(*sess))
		return completedResult(*sess, summary), nil
	}

	t := &turnState{state: StateAnalyzing, sess: sess.Clone(), text: text}
	for t.state != StateAwaitingUser && t.state != StateComplete {
		t.state = s.step(ctx, t)
	}

	t.sess.UpdatedAt = s.now()
	s.store(ctx, t.sess)

	result := s.result(t)
	log.Info().
		Str("session", sessionID).
		Str("path", t.outcome).
		Str("quality", string(t.class.Quality)).
		Str("sentiment", string(t.class.Sentiment)).
		Str("source", string(t.class.Source)).
		Int("turn", t.sess.TurnIndex).
		Int("probes", t.sess.ProbeCount).
		Str("state", string(t.state)).
		Msg("turn processed")

	s.publish(t.sess, result)
	return result, nil
}

func (s *InterviewService) step(ctx context.Context, t *turnState) State {
	switch t.state {
	case StateAnalyzing:
		return s.analyze(ctx, t)
	case StateTerminating:
		return s.terminate(ctx, t)
	case StateDeviated:
		return s.redirect(ctx, t)
	case StateProbing:
		return s.probe(ctx, t)
	case StateAdvancing:
		return s.advance(ctx, t)
	}
	panic(fmt.Sprintf("interview: no transition from state %q", t.state))
}

// analyze appends the answer, classifies it and picks the branch
func (s *InterviewService) analyze(ctx context.Context, t *turnState) State {
	t.question = t.sess.LastQuestion()
	t.sess.AppendTurn(model.RoleAnswer, t.text, false, s.now())
	t.answerIdx = len(t.sess.History) - 1

	t.class = s.classifier.Classify(ctx, t.question, t.text)
	class := t.class
	t.sess.History[t.answerIdx].Classification = &class

	next := StateAdvancing
	t.decision = s.disengagement.Check(t.sess, t.text, t.class)
	switch {
	case t.decision.ShouldTerminate:
		next = StateTerminating
	case t.class.Quality.NeedsProbe() && t.sess.ProbeCount < t.sess.ProbeBudget:
		verdict := s.relevance.Detect(ctx, t.sess.Topic, t.question, t.text)
		next = StateProbing
		if verdict.Deviated {
			next = StateDeviated
		}
	}

	t.outcome = outcomeFor(next)
	s.saveResponse(ctx, t)
	return next
}

func (s *InterviewService) terminate(ctx context.Context, t *turnState) State {
	t.sess.TerminationDetail = t.decision.Detail
	s.appendInsights(ctx, t.sess.ID, t.sess.TurnIndex, t.sess.PendingInsights)
	return s.complete(ctx, t, Ending{Early: true, Reason: t.decision.Reason})
}

func (s *InterviewService) redirect(ctx context.Context, t *turnState) State {
	t.sess.PendingInsights = MergeInsights(t.sess.PendingInsights, s.insights.Salvage(t.text, t.class))
	topicQuestion := t.sess.TopicQuestion
	if topicQuestion == "" {
		topicQuestion = t.question
	}
	return s.ask(t, s.questions.Redirect(ctx, topicQuestion, t.text), true)
}

func (s *InterviewService) probe(ctx context.Context, t *turnState) State {
	t.sess.PendingInsights = MergeInsights(t.sess.PendingInsights, s.insights.Salvage(t.text, t.class))
	return s.ask(t, s.questions.Probe(ctx, t.sess.Topic, t.question, t.text), true)
}

// advance accepts the answer, flushes the topic's insights and moves on or completes
func (s *InterviewService) advance(ctx context.Context, t *turnState) State {
	out := s.insights.Extract(ctx, t.sess, t.question, t.text)
	t.sess.History[t.answerIdx].Classification.Insights = out.Insights
	s.appendInsights(ctx, t.sess.ID, t.sess.TurnIndex, out.Insights)
	t.sess.PendingInsights = nil
	t.sess.ProbeCount = 0

	if t.sess.TurnIndex >= t.sess.MaxTurns {
		return s.complete(ctx, t, Ending{})
	}
	t.sess.TurnIndex++
	question := s.questions.NextTopic(ctx, t.sess, collectInsights(t.sess))
	t.sess.TopicQuestion = question
	return s.ask(t, question, false)
}

func (s *InterviewService) ask(t *turnState, question string, isProbe bool) State {
	if isProbe {
		t.sess.ProbeCount++
	}
	t.sess.AppendTurn(model.RoleQuestion, question, isProbe, s.now())
	t.outward = question
	t.isProbe = isProbe
	return StateAwaitingUser
}

// complete builds the summary, then marks the session terminal
func (s *InterviewService) complete(ctx context.Context, t *turnState, end Ending) State {
	t.summary = s.summaries.Finalize(ctx, t.sess, end)
	t.sess.PendingInsights = nil
	if end.Early {
		t.sess.Status = model.SessionTerminatedEarly
		t.sess.TerminationReason = end.Reason
	} else {
		t.sess.Status = model.SessionCompleted
	}
	return StateComplete
}

// End finalizes a session at the respondent's request and returns the transcript
func (s *InterviewService) End(ctx context.Context, sessionID string) (*model.EndInterviewResponse, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	sess, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var summary *model.Summary
	if sess.IsTerminal() {
		summary = s.summaries.Finalize(ctx, *sess, endingOf(*sess))
	} else {
		t := &turnState{sess: sess.Clone(), outcome: OutcomeTerminate}
		s.appendInsights(ctx, sess.ID, sess.TurnIndex, sess.PendingInsights)
		s.complete(ctx, t, Ending{Early: true, Reason: model.ReasonEndedByRespondent})
		t.sess.UpdatedAt = s.now()
		s.store(ctx, t.sess)
		s.publish(t.sess, completedResult(t.sess, t.summary))
		log.Info().Str("session", sessionID).Int("turn", t.sess.TurnIndex).Msg("interview ended by respondent")
		sess = &t.sess
		summary = t.summary
	}

	return &model.EndInterviewResponse{
		SessionID:  sess.ID,
		Status:     string(sess.Status),
		Transcript: sess.History,
		Summary:    summary,
	}, nil
}

// GetSummary returns the summary of a finished session
func (s *InterviewService) GetSummary(ctx context.Context, sessionID string) (*model.Summary, error) {
	summary, err := s.summaries.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		return summary, nil
	}
	sess, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsTerminal() {
		return nil, ErrSummaryNotReady
	}
	return s.summaries.Finalize(ctx, *sess, endingOf(*sess)), nil
}

// Transcript returns the live session, or its archived copy once it expired
func (s *InterviewService) Transcript(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err == nil || !errors.Is(err, ErrSessionNotFound) || s.archive == nil {
		return sess, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	archived, err := s.archive.GetArchivedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if archived == nil {
		return nil, ErrSessionNotFound
	}
	return archived, nil
}

// Watch calls fn with the current session while holding the session's turn
// lock. A watcher registered inside fn cannot miss an event published by a
// later turn.
func (s *InterviewService) Watch(ctx context.Context, sessionID string, fn func(*model.Session)) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	sess, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return err
	}
	fn(sess)
	return nil
}

// Responses lists the analyzed responses of a session
func (s *InterviewService) Responses(ctx context.Context, sessionID string) ([]*model.ResponseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.responses.ListResponses(ctx, sessionID)
}

func (s *InterviewService) resolveTemplate(ctx context.Context, req model.StartInterviewRequest) (*model.Template, error) {
	if req.TemplateID != "" {
		return s.templates.Get(ctx, req.TemplateID)
	}
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		tpl := &model.Template{Topic: topic}
		for _, q := range req.StarterQuestions {
			if q = strings.TrimSpace(q); q != "" {
				tpl.StarterQuestions = append(tpl.StarterQuestions, q)
			}
		}
		return tpl, nil
	}
	return s.templates.Get(ctx, "default")
}

func (s *InterviewService) load(ctx context.Context, sessionID string) (*model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// store writes the session back. A finished session is archived and its live
// record released; the live record is kept when archiving fails.
func (s *InterviewService) store(ctx context.Context, sess model.Session) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if sess.IsTerminal() && s.archive != nil {
		err := s.archive.ArchiveSession(ctx, &sess)
		if err == nil {
			if err := s.sessions.DeleteSession(ctx, sess.ID); err != nil {
				log.Warn().Err(err).Str("session", sess.ID).Msg("releasing live session failed")
			}
			return
		}
		log.Error().Err(err).Str("session", sess.ID).Msg("session archive failed, keeping live record")
	}
	if err := s.sessions.PutSession(ctx, &sess); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("session write failed")
	}
}

func (s *InterviewService) saveResponse(ctx context.Context, t *turnState) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	turn := t.sess.History[t.answerIdx]
	rec := &model.ResponseRecord{
		ID:        uuid.New().String(),
		SessionID: t.sess.ID,
		TurnIndex: t.sess.TurnIndex,
		Ordinal:   turn.Ordinal,
		Question:  t.question,
		Answer:    t.text,
		Quality:   t.class.Quality,
		Sentiment: t.class.Sentiment,
		WordCount: t.class.WordCount,
		Source:    string(t.class.Source),
		Outcome:   t.outcome,
		CreatedAt: turn.CreatedAt,
	}
	if err := s.responses.SaveResponse(ctx, rec); err != nil {
		log.Error().Err(err).Str("session", t.sess.ID).Msg("response save failed")
	}
}

func (s *InterviewService) appendInsights(ctx context.Context, sessionID string, turnIndex int, insights []string) {
	if len(insights) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	for _, text := range insights {
		rec := &model.InsightRecord{SessionID: sessionID, TurnIndex: turnIndex, Text: text, CreatedAt: s.now()}
		if err := s.responses.AppendInsight(ctx, rec); err != nil {
			log.Error().Err(err).Str("session", sessionID).Msg("insight append failed")
			return
		}
	}
}

func (s *InterviewService) result(t *turnState) *model.TurnResult {
	if t.summary != nil {
		r := completedResult(t.sess, t.summary)
		r.Sentiment = t.class.Sentiment
		r.Quality = t.class.Quality
		return r
	}
	return &model.TurnResult{
		SessionID: t.sess.ID,
		Question:  t.outward,
		IsProbe:   t.isProbe,
		Progress:  t.sess.Progress(),
		Sentiment: t.class.Sentiment,
		Quality:   t.class.Quality,
	}
}

func (s *InterviewService) publish(sess model.Session, result *model.TurnResult) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToWatchers(sess.ID, EventTurnProcessed, result)
	if result.IsComplete {
		s.broadcaster.BroadcastToWatchers(sess.ID, EventInterviewCompleted, result.Summary)
		s.broadcaster.DisconnectSession(sess.ID)
	}
}

func completedResult(sess model.Session, summary *model.Summary) *model.TurnResult {
	return &model.TurnResult{
		SessionID:         sess.ID,
		Summary:           summary,
		Progress:          sess.Progress(),
		IsComplete:        true,
		TerminatedEarly:   sess.Status == model.SessionTerminatedEarly,
		TerminationReason: sess.TerminationReason,
	}
}

func endingOf(sess model.Session) Ending {
	return Ending{Early: sess.Status == model.SessionTerminatedEarly, Reason: sess.TerminationReason}
}

func outcomeFor(next State) string {
	switch next {
	case StateTerminating:
		return OutcomeTerminate
	case StateDeviated:
		return OutcomeRedirect
	case StateProbing:
		return OutcomeProbe
	default:
		return OutcomeAdvance
	}
}

func collectInsights(sess model.Session) []string {
	var out []string
	for _, t := range sess.History {
		if t.Classification != nil {
			out = MergeInsights(out, t.Classification.Insights)
		}
	}
	return out
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

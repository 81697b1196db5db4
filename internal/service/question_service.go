package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/heuristics"
	"aiinterviewer/internal/model"
)

var probeTemplates = []string{
	"Could you give me a specific example of that?",
	"Can you tell me more about what you mean by that?",
	"Can you walk me through a recent time when that happened?",
	"What specifically about {topic} stands out to you?",
	"Could you say a bit more about that?",
}

var closingTemplates = []string{
	"Is there anything else you'd like to share about {topic}?",
	"Looking back on our conversation, what feels most important to mention about {topic}?",
	"Any final thoughts you'd like to add about {topic}?",
}

var followUpFallbacks = []string{
	"What else stands out to you about {topic}?",
	"How has your experience with {topic} changed over time?",
	"If you could change one thing about {topic}, what would it be?",
}

const clarifyFallback = "Could you give me a specific example of what you mean?"

// QuestionGenerator produces the single outward question of a turn
type QuestionGenerator struct {
	evaluator *EvaluatorService
	policy    config.Policy

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuestionGenerator takes the randomness source used for template picks; nil seeds from the clock
func NewQuestionGenerator(evaluator *EvaluatorService, policy config.Policy, rnd *rand.Rand) *QuestionGenerator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionGenerator{evaluator: evaluator, policy: policy, rnd: rnd}
}

// NextTopic returns the question for sess.TurnIndex, which the caller has already advanced.
// The last turn always gets a closing question.
func (g *QuestionGenerator) NextTopic(ctx context.Context, sess model.Session, insights []string) string {
	if sess.TurnIndex >= sess.MaxTurns {
		return fillTopic(g.pick(closingTemplates), sess.Topic)
	}
	fallback := fillTopic(followUpFallbacks[(sess.TurnIndex-1)%len(followUpFallbacks)], sess.Topic)
	if i := sess.TurnIndex - 1; i >= 0 && i < len(sess.StarterQuestions) {
		return ensureQuestion(sess.StarterQuestions[i], fallback)
	}
	res := g.evaluator.GenerateQuestion(ctx, sess.Topic, insights, sess.AskedQuestions())
	return ensureQuestion(res.Text, fallback)
}

// Probe asks for more detail on the current topic
func (g *QuestionGenerator) Probe(ctx context.Context, topic, question, answer string) string {
	if heuristics.WordCount(answer) <= g.policy.TemplateProbeMaxWords {
		return fillTopic(g.pick(probeTemplates), topic)
	}
	res := g.evaluator.GenerateProbe(ctx, topic, question, answer)
	return ensureQuestion(res.Text, clarifyFallback)
}

// Redirect acknowledges an off-topic answer and restates question
func (g *QuestionGenerator) Redirect(ctx context.Context, question, answer string) string {
	fallback := ensureQuestion("Let's get back to: "+question, "Let's get back to the question?")
	res := g.evaluator.GenerateRedirect(ctx, question, answer)
	if res.Fallback || strings.TrimSpace(res.Text) == "" {
		return fallback
	}
	text := strings.TrimSpace(res.Text)
	if !strings.Contains(strings.ToLower(text), strings.ToLower(strings.TrimRight(question, "?. "))) {
		text = strings.TrimRight(text, " ") + " " + question
	}
	return ensureQuestion(text, fallback)
}

func (g *QuestionGenerator) pick(pool []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pool[g.rnd.Intn(len(pool))]
}

func fillTopic(tmpl, topic string) string {
	if topic == "" {
		topic = "this"
	}
	return strings.ReplaceAll(tmpl, "{topic}", topic)
}

// ensureQuestion guarantees a non-empty result ending in "?"
func ensureQuestion(text, fallback string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = strings.TrimSpace(fallback)
	}
	if text == "" {
		return "Could you tell me more?"
	}
	if strings.HasSuffix(text, "?") {
		return text
	}
	return fmt.Sprintf("%s?", strings.TrimRight(text, ".!:; "))
}

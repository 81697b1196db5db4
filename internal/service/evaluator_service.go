package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
)

// EvaluatorService wraps judgment calls to the completion backend. Every method
// returns a usable value: on timeout, backend error or an unparsable reply the
// result holds the documented default and Fallback is set.
type EvaluatorService struct {
	backend     Backend
	timeout     time.Duration
	temperature float32
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(backend Backend, cfg *config.AIConfig) *EvaluatorService {
	timeout := 10 * time.Second
	var temperature float32 = 0.3
	if cfg != nil {
		if cfg.TimeoutMS > 0 {
			timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
		}
		temperature = cfg.Temperature
	}
	if backend == nil {
		backend = DisabledBackend{}
	}
	return &EvaluatorService{backend: backend, timeout: timeout, temperature: temperature}
}

// ClassifyResult defaults to good/neutral on failure
type ClassifyResult struct {
	Quality   model.Quality
	Sentiment model.Sentiment
	Fallback  bool
}

// InsightResult defaults to no insights and a neutral tone on failure
type InsightResult struct {
	Insights      []string
	Tone          model.Sentiment
	NeedsFollowUp bool
	FollowUpTopic string
	Fallback      bool
}

// RelevanceResult fails open: relevant unless the backend clearly says otherwise
type RelevanceResult struct {
	Relevant bool
	Fallback bool
}

// TextResult carries generated prose; Text is empty when Fallback is set
type TextResult struct {
	Text     string
	Fallback bool
}

// ThemesResult carries extracted key themes
type ThemesResult struct {
	Themes   []string
	Fallback bool
}

// Classify judges the quality and sentiment of an answer in context
func (s *EvaluatorService) Classify(ctx context.Context, question, text string) ClassifyResult {
	prompt := fmt.Sprintf(`You are judging one answer in a research interview. Return ONLY valid JSON:
{"quality": "vague" | "shallow" | "good" | "excellent", "sentiment": "positive" | "neutral" | "negative"}

Quality guide:
- shallow: a few words with no detail
- vague: hedged or non-committal, no concrete facts
- good: answers the question with at least one concrete detail
- excellent: detailed, specific, with examples or reasons

Question: %s
Answer: %s`, question, text)

	def := ClassifyResult{Quality: model.QualityGood, Sentiment: model.SentimentNeutral, Fallback: true}
	raw, err := s.complete(ctx, TaskClassify, prompt, 60, true)
	if err != nil {
		s.logFallback(TaskClassify, err)
		return def
	}
	var parsed struct {
		Quality   string `json:"quality"`
		Sentiment string `json:"sentiment"`
	}
	if err := decodeJSON(raw, &parsed); err != nil {
		s.logFallback(TaskClassify, err)
		return def
	}
	q := model.Quality(strings.ToLower(parsed.Quality))
	sent := model.Sentiment(strings.ToLower(parsed.Sentiment))
	if !q.Valid() || !sent.Valid() {
		s.logFallback(TaskClassify, errors.Errorf("out of domain verdict %q/%q", parsed.Quality, parsed.Sentiment))
		return def
	}
	return ClassifyResult{Quality: q, Sentiment: sent}
}

// ExtractInsights asks for insights, tone and a follow-up hint for an accepted answer
func (s *EvaluatorService) ExtractInsights(ctx context.Context, topic, question, text string) InsightResult {
	prompt := fmt.Sprintf(`Analyze this interview answer about "%s". Return ONLY valid JSON:
{
  "key_insights": ["short factual insight", "..."],
  "emotional_tone": "positive" | "neutral" | "negative",
  "needs_follow_up": true | false,
  "suggested_follow_up_topic": "optional short topic"
}
Give at most 3 insights, each under 15 words, stated about the respondent.

Question: %s
Answer: %s`, topic, question, text)

	def := InsightResult{Tone: model.SentimentNeutral, Fallback: true}
	raw, err := s.complete(ctx, TaskInsights, prompt, 300, true)
	if err != nil {
		s.logFallback(TaskInsights, err)
		return def
	}
	var parsed struct {
		KeyInsights   []string `json:"key_insights"`
		EmotionalTone string   `json:"emotional_tone"`
		NeedsFollowUp bool     `json:"needs_follow_up"`
		FollowUpTopic string   `json:"suggested_follow_up_topic"`
	}
	if err := decodeJSON(raw, &parsed); err != nil {
		s.logFallback(TaskInsights, err)
		return def
	}
	tone := model.Sentiment(strings.ToLower(parsed.EmotionalTone))
	if !tone.Valid() {
		tone = model.SentimentNeutral
	}
	return InsightResult{
		Insights:      cleanList(parsed.KeyInsights, 3),
		Tone:          tone,
		NeedsFollowUp: parsed.NeedsFollowUp,
		FollowUpTopic: strings.TrimSpace(parsed.FollowUpTopic),
	}
}

// CheckRelevance asks whether text answers question
func (s *EvaluatorService) CheckRelevance(ctx context.Context, topic, question, text string) RelevanceResult {
	prompt := fmt.Sprintf(`You are a relevance checker for an interview about "%s".
Decide if the answer responds to the question.
An answer is RELEVANT even if it is short, vague or uncertain ("Daily", "Not sure", "I like it").
An answer is IRRELEVANT only if it talks about something unrelated ("I love pizza", "My cat is sleeping").

Question: %s
Answer: %s

Respond with ONLY ONE WORD: RELEVANT or IRRELEVANT`, topic, question, text)

	raw, err := s.complete(ctx, TaskRelevance, prompt, 5, false)
	if err != nil {
		s.logFallback(TaskRelevance, err)
		return RelevanceResult{Relevant: true, Fallback: true}
	}
	verdict := strings.ToUpper(raw)
	switch {
	case strings.Contains(verdict, "IRRELEVANT"):
		return RelevanceResult{Relevant: false}
	case strings.Contains(verdict, "RELEVANT"):
		return RelevanceResult{Relevant: true}
	}
	s.logFallback(TaskRelevance, errors.Errorf("unparsable verdict %q", raw))
	return RelevanceResult{Relevant: true, Fallback: true}
}

// GenerateProbe asks for one context-aware follow-up question on the same topic
func (s *EvaluatorService) GenerateProbe(ctx context.Context, topic, question, text string) TextResult {
	prompt := fmt.Sprintf(`The respondent gave a short or vague answer in an interview about "%s".
Write ONE friendly follow-up question that asks for a specific example or detail.
Do not change the subject. Return only the question.

Question: %s
Answer: %s`, topic, question, text)
	return s.text(ctx, TaskProbe, prompt, 60)
}

// GenerateRedirect asks for a brief acknowledgement of off-topic content that restates question
func (s *EvaluatorService) GenerateRedirect(ctx context.Context, question, text string) TextResult {
	prompt := fmt.Sprintf(`The respondent went off-topic. Write a friendly but firm redirect:
briefly acknowledge what they said in a few words, then restate the original question exactly.
Return only the redirect.

Original question: %s
Off-topic answer: %s`, question, text)
	return s.text(ctx, TaskRedirect, prompt, 80)
}

// GenerateQuestion asks for the next open-ended topic question
func (s *EvaluatorService) GenerateQuestion(ctx context.Context, topic string, insights, asked []string) TextResult {
	prompt := fmt.Sprintf(`You are conducting a research interview about "%s".
Write the next open-ended question. It must explore a new angle, not repeat anything already asked,
and may build on what was learned. Return only the question.

Already asked:
%s

Learned so far:
%s`, topic, bullets(asked), bullets(insights))
	return s.text(ctx, TaskQuestion, prompt, 60)
}

// Narrative writes the summary prose for a finished session
func (s *EvaluatorService) Narrative(ctx context.Context, topic string, answers, insights []string, early bool) TextResult {
	kind := "a complete"
	length := "3-4"
	if early {
		kind = "an incomplete"
		length = "2-3"
	}
	prompt := fmt.Sprintf(`Write a %s sentence summary of %s interview about "%s".
Describe what the respondent shared; do not invent facts.

Answers:
%s

Insights:
%s`, length, kind, topic, bullets(answers), bullets(insights))
	return s.text(ctx, TaskNarrative, prompt, 300)
}

// KeyThemes extracts up to five themes from the interview
func (s *EvaluatorService) KeyThemes(ctx context.Context, insights, answers []string) ThemesResult {
	prompt := fmt.Sprintf(`Extract 3-5 key themes from this interview data.
Return ONLY valid JSON: {"themes": ["theme", "..."]} with each theme at most 4 words.

Insights:
%s

Answers:
%s`, bullets(insights), bullets(answers))

	raw, err := s.complete(ctx, TaskThemes, prompt, 120, true)
	if err != nil {
		s.logFallback(TaskThemes, err)
		return ThemesResult{Fallback: true}
	}
	var parsed struct {
		Themes []string `json:"themes"`
	}
	if err := decodeJSON(raw, &parsed); err != nil {
		s.logFallback(TaskThemes, err)
		return ThemesResult{Fallback: true}
	}
	themes := cleanList(parsed.Themes, 5)
	if len(themes) == 0 {
		return ThemesResult{Fallback: true}
	}
	return ThemesResult{Themes: themes}
}

// Status reports the backend in use for health checks
func (s *EvaluatorService) Status() string {
	if _, disabled := s.backend.(DisabledBackend); disabled {
		return "disabled"
	}
	return s.backend.Name()
}

func (s *EvaluatorService) text(ctx context.Context, task Task, prompt string, maxTokens int) TextResult {
	raw, err := s.complete(ctx, task, prompt, maxTokens, false)
	if err != nil {
		s.logFallback(task, err)
		return TextResult{Fallback: true}
	}
	return TextResult{Text: strings.Trim(raw, "\"' \n")}
}

func (s *EvaluatorService) complete(ctx context.Context, task Task, prompt string, maxTokens int, asJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.backend.Complete(ctx, CompletionRequest{
		Task:        task,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: s.temperature,
		JSON:        asJSON,
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}

func (s *EvaluatorService) logFallback(task Task, err error) {
	ev := log.Warn()
	if errors.Is(err, ErrBackendDisabled) {
		ev = log.Debug()
	}
	ev.Err(err).Str("task", string(task)).Msg("judgment call failed, using fallback")
}

// decodeJSON tolerates code fences and prose around a single JSON object
func decodeJSON(raw string, v interface{}) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return errors.Errorf("no json object in %q", truncate(raw, 80))
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return errors.Wrap(err, "decode judgment")
	}
	return nil
}

func cleanList(items []string, limit int) []string {
	var out []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "- (none)"
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

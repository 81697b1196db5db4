package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceDetector(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		question  string
		answer    string
		reply     string
		deviated  bool
		method    string
		judgments int
	}{
		{"keyword overlap", "How often do you use it?", "I use it daily", "", false, RelevanceKeyword, 0},
		{"stem overlap", "How often do you use it?", "uses it at night", "", false, RelevanceKeyword, 0},
		{"short answer without overlap fails open", "How often do you use it?", "Daily.", "", false, RelevanceFallback, 1},
		{"short answer confirmed relevant", "How often do you use it?", "Daily.", "RELEVANT", false, RelevanceJudgment, 1},
		{"off topic", "How often do you use the app?", "I love pizza", "IRRELEVANT", true, RelevanceJudgment, 1},
		{"stopword is not overlap", "How do you manage notifications?", "I do not like pizza", "IRRELEVANT", true, RelevanceJudgment, 1},
		{"conjunction inside keyword", "Which android apps do you use?", "I love pizza and pasta", "IRRELEVANT", true, RelevanceJudgment, 1},
		{"preposition inside keyword", "What format do you prefer?", "pizza for dinner", "IRRELEVANT", true, RelevanceJudgment, 1},
		{
			"long answer is always confirmed", "How often do you use it?",
			"honestly I use it whenever I remember to, which is not as often as I would like",
			"RELEVANT", false, RelevanceJudgment, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replies := map[Task]string{}
			if tt.reply != "" {
				replies[TaskRelevance] = tt.reply
			}
			backend := newStubBackend(replies)
			d := NewRelevanceDetector(NewEvaluatorService(backend, testAIConfig()), testPolicy())
			got := d.Detect(ctx, "product usage", tt.question, tt.answer)
			assert.Equal(t, tt.deviated, got.Deviated)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.judgments, backend.count(TaskRelevance))
		})
	}
}

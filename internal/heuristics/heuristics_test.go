package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aiinterviewer/internal/model"
)

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 3, WordCount(" I use  it "))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "i don't know", Normalize("  I DON’T know... "))
	assert.Equal(t, "", Normalize("?!"))
}

func TestQualityTier(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		text string
		want model.Quality
		ok   bool
	}{
		{"empty", "", model.QualityShallow, true},
		{"one token", "yes", model.QualityShallow, true},
		{"two tokens", "nothing else", model.QualityShallow, true},
		{"multiword acknowledgement", "I don't know", model.QualityShallow, true},
		{"vague short", "maybe, I guess it is kind of okay", model.QualityVague, true},
		{"single vague marker", "maybe on weekends only", "", false},
		{"vague but long", "maybe I guess I use it when I have time after work and on weekends", "", false},
		{"substantive", "I use it every morning before work, mostly for emails", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := QualityTier(tt.text, th)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSentimentTier(t *testing.T) {
	tests := []struct {
		text string
		want model.Sentiment
	}{
		{"I love it, the app is great", model.SentimentPositive},
		{"it is slow and confusing", model.SentimentNegative},
		{"it is not good", model.SentimentNegative},
		{"honestly not bad", model.SentimentPositive},
		{"I like it but it is slow", model.SentimentNeutral},
		{"ok", model.SentimentNeutral},
		{"fine", model.SentimentNeutral},
		{"", model.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, SentimentTier(tt.text))
		})
	}
}

func TestDismissive(t *testing.T) {
	for _, text := range []string{"ok", "fine", "sure", "Daily.", "not really", "I don't know"} {
		assert.True(t, Dismissive(text), text)
	}
	for _, text := range []string{"I drink two cups a day", "mostly in the morning"} {
		assert.False(t, Dismissive(text), text)
	}
}

func TestExitIntent(t *testing.T) {
	phrase, ok := ExitIntent("Honestly I'm done with this")
	assert.True(t, ok)
	assert.Equal(t, "i'm done", phrase)

	phrase, ok = ExitIntent("I’M DONE")
	assert.True(t, ok)
	assert.Equal(t, "i'm done", phrase)

	_, ok = ExitIntent("This is a waste of time")
	assert.True(t, ok)

	_, ok = ExitIntent("I had enough coffee today")
	assert.False(t, ok)

	_, ok = ExitIntent("")
	assert.False(t, ok)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"often", "use"}, Keywords("How often do you use it?", 5))
	assert.Equal(t, []string{"morning", "routine"}, Keywords("Tell me about your morning routine", 5))
	assert.Len(t, Keywords("coffee espresso latte mocha cappuccino americano", 5), 5)
	assert.Empty(t, Keywords("", 5))
}

func TestOverlaps(t *testing.T) {
	kw := Keywords("How often do you use it?", 5)
	assert.True(t, Overlaps(kw, "I use it a lot"))
	assert.True(t, Overlaps(kw, "It's used daily"))
	assert.False(t, Overlaps(kw, "Daily."))
	assert.False(t, Overlaps(kw, "I love pizza"))
	assert.False(t, Overlaps(nil, "anything"))
	assert.True(t, Overlaps(Keywords("How do you manage notifications?", 5), "managing them is a chore"))
	assert.True(t, Overlaps(Keywords("How do you manage notifications?", 5), "too many notification sounds"))
}

func TestOverlapsIgnoresStopwordPrefixes(t *testing.T) {
	tests := []struct {
		question string
		answer   string
	}{
		{"How do you manage notifications?", "I do not like pizza"},
		{"Which android apps do you use?", "I love pizza and pasta"},
		{"What format do you prefer?", "pizza for dinner"},
		{"How often do you use it?", "usually at home"},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.False(t, Overlaps(Keywords(tt.question, 5), tt.answer))
		})
	}
}

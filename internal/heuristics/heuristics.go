// Package heuristics provides the stateless lexical signals used to classify
// answers without a judgment call. Every function accepts any input and returns
// a domain value; none of them can fail.
package heuristics

import (
	"strings"
	"unicode"

	"aiinterviewer/internal/model"
)

// Thresholds are the length cutoffs applied by QualityTier
type Thresholds struct {
	ShallowMaxWords int
	VagueMaxWords   int
}

func DefaultThresholds() Thresholds {
	return Thresholds{ShallowMaxWords: 2, VagueMaxWords: 8}
}

// WordCount counts whitespace separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Normalize lowercases text, unifies apostrophes, strips punctuation at token
// edges and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(strings.NewReplacer("’", "'", "‘", "'", "`", "'").Replace(text))
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// Tokens returns the normalized tokens of text
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// QualityTier returns shallow or vague when the lexical signal is conclusive.
// ok is false when the caller must escalate to a judgment call.
func QualityTier(text string, th Thresholds) (q model.Quality, ok bool) {
	n := WordCount(text)
	if n <= th.ShallowMaxWords {
		return model.QualityShallow, true
	}
	norm := Normalize(text)
	if acknowledgements[norm] {
		return model.QualityShallow, true
	}
	if n <= th.VagueMaxWords && VagueHits(norm) >= 2 {
		return model.QualityVague, true
	}
	return "", false
}

// VagueHits counts distinct vague markers present in text
func VagueHits(text string) int {
	padded := " " + Normalize(text) + " "
	hits := 0
	for _, m := range vagueMarkers {
		if strings.Contains(padded, " "+m+" ") {
			hits++
		}
	}
	return hits
}

// SentimentTier compares positive and negative keyword counts. A negator
// directly before a keyword flips it. Ties are neutral.
func SentimentTier(text string) model.Sentiment {
	pos, neg := 0, 0
	tokens := Tokens(text)
	for i, tok := range tokens {
		negated := i > 0 && negators[tokens[i-1]]
		switch {
		case positiveWords[tok] && !negated, negativeWords[tok] && negated:
			pos++
		case negativeWords[tok], positiveWords[tok]:
			neg++
		}
	}
	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// Dismissive reports a low-effort reply: a known acknowledgement or at most two tokens
func Dismissive(text string) bool {
	if WordCount(text) <= 2 {
		return true
	}
	return dismissive[Normalize(text)]
}

// ExitIntent reports whether text asks to stop, returning the matched phrase
func ExitIntent(text string) (string, bool) {
	lower := strings.ToLower(strings.NewReplacer("’", "'", "‘", "'").Replace(text))
	for _, p := range exitPhrases {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// Keywords returns up to limit distinct non-stopword tokens of text in order of appearance
func Keywords(text string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokens(text) {
		if len(out) >= limit {
			break
		}
		if !isKeyword(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Overlaps reports whether any keyword appears among the keywords of text.
// Inflected forms count, so "uses" and "using" match "use".
func Overlaps(keywords []string, text string) bool {
	for _, tok := range Tokens(text) {
		if !isKeyword(tok) {
			continue
		}
		for _, k := range keywords {
			if tok == k || sameStem(tok, k) {
				return true
			}
		}
	}
	return false
}

func isKeyword(tok string) bool {
	return len(tok) >= 3 && !stopwords[tok]
}

var inflections = []string{"s", "es", "d", "ed", "ing", "er", "ers", "ly"}

// sameStem reports whether the longer token is the shorter one plus an
// inflectional suffix, allowing a dropped trailing "e" ("manage", "managing").
func sameStem(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) < 3 {
		return false
	}
	for _, suf := range inflections {
		if b == a+suf {
			return true
		}
		if strings.HasSuffix(a, "e") && b == a[:len(a)-1]+suf {
			return true
		}
	}
	return false
}

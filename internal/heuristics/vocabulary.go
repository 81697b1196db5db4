package heuristics

// acknowledgements are complete answers that carry no content on their own
var acknowledgements = toSet(
	"yes", "no", "ok", "okay", "sure", "fine", "maybe", "yeah", "yea", "yep",
	"nope", "nah", "meh", "whatever", "idk", "nothing", "nothing else",
	"not really", "not sure", "no idea", "i guess", "i don't know",
	"i dont know", "kind of", "sort of", "i suppose", "same", "good",
)

// dismissive is the vocabulary of low-effort replies used for streak detection
var dismissive = toSet(
	"yeah", "yea", "yep", "ok", "okay", "fine", "whatever", "sure", "meh",
	"nah", "nope", "idk", "i don't know", "i dont know", "no idea",
	"not really", "nothing", "nothing else", "dunno", "k",
)

var vagueMarkers = []string{
	"maybe", "kind of", "sort of", "i guess", "probably", "i think",
	"not sure", "whatever", "i suppose", "it depends", "hard to say",
	"something like", "or something",
}

// exitPhrases covers explicit stop requests and emotional withdrawal.
// Bare words such as "enough" or "bored" are left out; they show up in ordinary answers.
var exitPhrases = []string{
	"end this", "end here", "end now", "just end", "lets end", "let's end",
	"stop this", "stop here", "stop now", "finish this", "finish here",
	"wrap this up", "stop the interview", "end the interview",
	"quit the interview", "exit the interview", "i want to stop",
	"i'd like to stop", "i want to end", "can we stop", "can we end",
	"i'm done", "i am done", "im done", "that's all", "thats all",
	"that is all", "no more questions", "i don't want to continue",
	"i dont want to continue", "don't want to continue",
	"dont want to continue", "not continuing", "this is taking too long",
	"taking forever", "don't have time", "dont have time",
	"i'm tired of this", "im tired of this", "tired of this", "fed up",
	"that's enough", "thats enough",
	"not feeling good", "feeling uncomfortable", "this is uncomfortable",
	"i'm not comfortable", "im not comfortable", "not enjoying this",
	"this is annoying", "this is frustrating", "i don't like this",
	"i dont like this", "dont like this", "this is boring", "i'm bored",
	"im bored", "waste of time", "wasting my time",
}

var positiveWords = toSet(
	"love", "loved", "like", "liked", "enjoy", "enjoyed", "great", "good",
	"happy", "excellent", "amazing", "awesome", "wonderful", "fantastic",
	"helpful", "easy", "nice", "best", "pleased", "satisfied", "useful",
	"favorite", "favourite", "glad", "perfect", "fun", "better", "delicious",
	"convenient", "recommend", "relaxing",
)

var negativeWords = toSet(
	"hate", "hated", "dislike", "bad", "terrible", "awful", "annoying",
	"annoyed", "frustrating", "frustrated", "difficult", "poor", "worst",
	"disappointed", "disappointing", "boring", "bored", "slow", "useless",
	"confusing", "horrible", "sad", "angry", "upset", "stressful", "stressed",
	"worse", "broken", "expensive", "tired", "ugh",
)

var negators = toSet("not", "never", "don't", "dont", "didn't", "didnt", "isn't", "isnt", "wasn't", "wasnt", "no")

// stopwords are excluded from keyword extraction
var stopwords = toSet(
	"the", "a", "an", "is", "are", "was", "were", "do", "does", "did",
	"have", "has", "had", "be", "been", "being", "will", "would", "could",
	"should", "may", "might", "can", "shall", "not", "no", "and", "or",
	"but", "if", "then", "than", "so", "as", "at", "by", "for", "from",
	"in", "into", "of", "on", "to", "with", "about", "up", "out", "it",
	"its", "this", "that", "what", "which", "who", "how", "when", "where",
	"why", "you", "me", "i", "my", "your", "we", "they", "he", "she",
	"her", "him", "us", "them", "tell", "there", "any", "some", "more",
	"much", "many", "also", "just", "very", "really", "like", "think",
	"anything", "something", "else", "share", "describe", "bit", "thoughts",
	"let's", "lets", "get", "back", "you'd", "you've", "you're", "i'd",
	"i'm", "am", "these", "those", "our", "their", "all", "one",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

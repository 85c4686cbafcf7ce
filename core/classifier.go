package orchestration

import (
	"strings"
	"unicode"
)

// Intent is the coarse conversational intent of a user turn.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentGoodbye      Intent = "goodbye"
	IntentThanks       Intent = "thanks"
	IntentQuestion     Intent = "question"
	IntentHelp         Intent = "help"
	IntentConversation Intent = "conversation"
)

// Emotion is the detected emotional register of a user turn. It selects the
// response pool extension and the voice style used to speak the reply.
type Emotion string

const (
	EmotionExcited      Emotion = "excited"
	EmotionGentle       Emotion = "gentle"
	EmotionProfessional Emotion = "professional"
	EmotionFriendly     Emotion = "friendly"
	EmotionNeutral      Emotion = "neutral"
)

// Keyword tables are matched against the lowercased turn text. Order within
// a table does not matter; the order of the tables below does.
var (
	excitedKeywords      = []string{"excited", "amazing", "awesome", "fantastic", "wonderful", "incredible", "love", "great"}
	gentleKeywords       = []string{"sad", "tired", "worried", "anxious", "stressed", "upset", "lonely", "difficult", "hard time"}
	professionalKeywords = []string{"work", "meeting", "project", "business", "deadline", "schedule", "report", "office"}
	friendlyKeywords     = []string{"hello", "hi", "hey", "how are you", "what's up", "chat", "talk"}

	greetingKeywords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
	goodbyeKeywords  = []string{"bye", "goodbye", "see you", "good night", "farewell"}
	thanksKeywords   = []string{"thank", "thanks", "thank you", "appreciate", "grateful"}
	questionKeywords = []string{"what", "who", "where", "when", "why", "how", "which", "can you", "could you", "do you"}
	helpKeywords     = []string{"help", "assist", "support"}
)

// turnText is a pre-tokenized view of one turn of user text, so the keyword
// tables are only scanned against words, not raw substrings ("this" must not
// match "hi").
type turnText struct {
	normalized string
	words      map[string]struct{}
}

func newTurnText(text string) turnText {
	normalized := strings.ToLower(strings.TrimSpace(text))
	words := map[string]struct{}{}
	for _, word := range strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	}) {
		words[word] = struct{}{}
	}
	return turnText{normalized: normalized, words: words}
}

func (t turnText) matches(keyword string) bool {
	if strings.ContainsRune(keyword, ' ') {
		return strings.Contains(t.normalized, keyword)
	}
	_, ok := t.words[keyword]
	return ok
}

// Classify derives intent and emotion from one turn of user text. Both
// classifications are first-match wins over fixed precedence: emotions are
// checked excited, gentle, professional, friendly and fall back to neutral;
// intents are checked greeting, goodbye, thanks, question, help and fall
// back to open conversation. The same input always yields the same result.
func Classify(text string) (Intent, Emotion) {
	turn := newTurnText(text)
	return classifyIntent(turn), classifyEmotion(turn)
}

func classifyEmotion(turn turnText) Emotion {
	switch {
	case turn.matchesAny(excitedKeywords):
		return EmotionExcited
	case turn.matchesAny(gentleKeywords):
		return EmotionGentle
	case turn.matchesAny(professionalKeywords):
		return EmotionProfessional
	case turn.matchesAny(friendlyKeywords):
		return EmotionFriendly
	}
	return EmotionNeutral
}

func classifyIntent(turn turnText) Intent {
	switch {
	case turn.matchesAny(greetingKeywords):
		return IntentGreeting
	case turn.matchesAny(goodbyeKeywords):
		return IntentGoodbye
	case turn.matchesAny(thanksKeywords):
		return IntentThanks
	case strings.Contains(turn.normalized, "?") || turn.matchesAny(questionKeywords):
		return IntentQuestion
	case turn.matchesAny(helpKeywords):
		return IntentHelp
	}
	return IntentConversation
}

func (t turnText) matchesAny(keywords []string) bool {
	for _, keyword := range keywords {
		if t.matches(keyword) {
			return true
		}
	}
	return false
}

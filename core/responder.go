package orchestration

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// emptyTurnReply is spoken when a turn arrives with no usable text. It skips
// classification entirely.
const emptyTurnReply = "I didn't catch that. Could you please say something?"

// Response is what the agent will say and how it will say it.
type Response struct {
	Text       string
	Intent     Intent
	Emotion    Emotion
	VoiceStyle VoiceStyle
}

var greetingReplies = []string{
	"Hello! It's great to hear from you. How are you doing today?",
	"Hi there! I'm happy you're here. What's on your mind?",
	"Hey! Good to hear your voice. How can I brighten your day?",
}

var goodbyeReplies = []string{
	"Goodbye! It was lovely talking with you. Take care!",
	"See you later! Don't be a stranger.",
	"Bye for now! I hope the rest of your day treats you well.",
}

var thanksReplies = []string{
	"You're very welcome! Happy to help anytime.",
	"My pleasure! That's what I'm here for.",
	"Anytime! I'm glad I could help.",
}

var questionReplies = []string{
	"That's a great question. Let me think about that with you.",
	"Interesting question! Here's how I'd look at it.",
	"Good question. I'd love to explore that together.",
}

var helpReplies = []string{
	"Of course, I'm here to help. Tell me more about what you need.",
	"I'd be glad to help. What can I do for you?",
	"Sure thing. Walk me through what's going on and we'll sort it out.",
}

var conversationReplies = []string{
	"That's interesting! Tell me more about it.",
	"I hear you. How does that make you feel?",
	"Thanks for sharing that with me. What happened next?",
	"I see what you mean. What do you think about it?",
}

// Emotion-specific extensions join the open-conversation pool when the
// matching emotion is detected, so an excited user can draw an excited
// reply.
var conversationExtensions = map[Emotion][]string{
	EmotionExcited: {
		"That sounds amazing! I'm excited for you!",
		"Wow, that's fantastic news! Tell me everything!",
	},
	EmotionGentle: {
		"That sounds really hard. I'm here for you.",
		"Take your time. I'm listening, and I care about how you're doing.",
	},
	EmotionProfessional: {
		"Understood. Let's work through this step by step.",
		"That makes sense. What outcome are you aiming for?",
	},
}

// responder turns classified text into a spoken response. Replies are drawn
// uniformly from fixed pools; the draw source is injectable so tests can
// pin it.
type responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newResponder() *responder {
	return &responder{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Respond maps one turn of user text to a response. The same text always
// classifies the same way; only the draw within the selected pool varies.
func (r *responder) Respond(text string) Response {
	if strings.TrimSpace(text) == "" {
		return Response{
			Text:       emptyTurnReply,
			Intent:     IntentConversation,
			Emotion:    EmotionNeutral,
			VoiceStyle: StyleFriendly,
		}
	}

	intent, emotion := Classify(text)
	return Response{
		Text:       r.draw(poolFor(intent, emotion)),
		Intent:     intent,
		Emotion:    emotion,
		VoiceStyle: styleForEmotion(emotion),
	}
}

func poolFor(intent Intent, emotion Emotion) []string {
	switch intent {
	case IntentGreeting:
		return greetingReplies
	case IntentGoodbye:
		return goodbyeReplies
	case IntentThanks:
		return thanksReplies
	case IntentQuestion:
		return questionReplies
	case IntentHelp:
		return helpReplies
	}

	pool := conversationReplies
	if extension, ok := conversationExtensions[emotion]; ok {
		pool = append(append([]string{}, pool...), extension...)
	}
	return pool
}

func (r *responder) draw(pool []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.rng.Intn(len(pool))]
}

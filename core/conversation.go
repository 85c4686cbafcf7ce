package orchestration

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vijay-kartik/voice-ai-agent/core/events"
)

// Message is one entry in the conversation log.
type Message struct {
	ID        string
	Role      events.MessageRole
	Text      string
	Emotion   Emotion
	Style     VoiceStyle
	CreatedAt time.Time
}

// conversationLog is the append-only record of the session. Snapshots are
// copies, so callers can hold them across later appends.
type conversationLog struct {
	mu       sync.RWMutex
	messages []Message
}

func newConversationLog() *conversationLog {
	return &conversationLog{}
}

func (l *conversationLog) append(role events.MessageRole, text string, emotion Emotion, style VoiceStyle) Message {
	message := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Emotion:   emotion,
		Style:     style,
		CreatedAt: time.Now(),
	}

	l.mu.Lock()
	l.messages = append(l.messages, message)
	l.mu.Unlock()

	return message
}

// Snapshot returns a point-in-time copy of the log.
func (l *conversationLog) Snapshot() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	messages := make([]Message, len(l.messages))
	copy(messages, l.messages)
	return messages
}

func (l *conversationLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Transcript renders the log as plain text, one line per message, for
// exporting a session.
func (l *conversationLog) Transcript() string {
	var builder strings.Builder
	for _, message := range l.Snapshot() {
		label := "You"
		if message.Role == events.MessageRoleAgent {
			label = "Agent"
		}
		fmt.Fprintf(&builder, "[%s] %s: %s\n",
			message.CreatedAt.Format(time.TimeOnly), label, message.Text)
	}
	return builder.String()
}

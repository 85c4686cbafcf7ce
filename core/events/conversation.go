package events

const (
	// KindMessageAppended identifies an append to the conversation log.
	KindMessageAppended Kind = "conversation.message_appended"
)

// MessageRole distinguishes user utterances from agent replies.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// MessageAppended marks an append-only addition to the conversation log.
type MessageAppended struct {
	Base
	MessageID  string
	Role       MessageRole
	Text       string
	Emotion    string
	VoiceStyle string
}

// NewMessageAppended creates a message appended event.
func NewMessageAppended(messageID string, role MessageRole, text, emotion, voiceStyle string) MessageAppended {
	return MessageAppended{
		Base:       NewBase(KindMessageAppended),
		MessageID:  messageID,
		Role:       role,
		Text:       text,
		Emotion:    emotion,
		VoiceStyle: voiceStyle,
	}
}

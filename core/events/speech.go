package events

const (
	// KindSpeechFallbackEngaged identifies a switch to the local synthesis provider.
	KindSpeechFallbackEngaged Kind = "speech.fallback_engaged"
	// KindSpeechGenerationFailed identifies a remote synthesis failure.
	KindSpeechGenerationFailed Kind = "speech.generation_failed"
)

// SpeechFallbackEngaged marks a switch to the local synthesis provider.
//
// Diagnostic only: the conversation continues through the fallback and the
// caller should at most surface an informational notice.
type SpeechFallbackEngaged struct {
	Base
	// Reason distinguishes a provider failure from a provider that was never
	// configured.
	Reason string
}

// NewSpeechFallbackEngaged creates a speech fallback engaged event.
func NewSpeechFallbackEngaged(reason string) SpeechFallbackEngaged {
	return SpeechFallbackEngaged{Base: NewBase(KindSpeechFallbackEngaged), Reason: reason}
}

// SpeechGenerationFailed marks a remote synthesis failure.
type SpeechGenerationFailed struct {
	Base
	Status  int
	Message string
}

// NewSpeechGenerationFailed creates a speech generation failed event.
func NewSpeechGenerationFailed(status int, message string) SpeechGenerationFailed {
	return SpeechGenerationFailed{Base: NewBase(KindSpeechGenerationFailed), Status: status, Message: message}
}

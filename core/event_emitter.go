package orchestration

import "github.com/vijay-kartik/voice-ai-agent/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.CaptureInterimTranscript:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.CaptureFailed:
			if opts.onCaptureError != nil {
				opts.onCaptureError(typedEvent.Reason, typedEvent.PermissionDenied)
			}
		case events.TurnFinalized:
			if opts.onTurnFinalized != nil {
				opts.onTurnFinalized(Turn{
					ID:          typedEvent.TurnID,
					Text:        typedEvent.Text,
					Reason:      typedEvent.Reason,
					StartedAt:   typedEvent.StartedAt,
					FinalizedAt: typedEvent.FinalizedAt,
				})
			}
		case events.MessageAppended:
			if opts.onMessage != nil {
				opts.onMessage(Message{
					ID:        typedEvent.MessageID,
					Role:      typedEvent.Role,
					Text:      typedEvent.Text,
					Emotion:   Emotion(typedEvent.Emotion),
					Style:     VoiceStyle(typedEvent.VoiceStyle),
					CreatedAt: typedEvent.Timestamp(),
				})
			}
		case events.SpeechFallbackEngaged:
			if opts.onFallbackEngaged != nil {
				opts.onFallbackEngaged(typedEvent.Reason)
			}
		case events.SpeechGenerationFailed:
			logger.Warn("speech generation failed",
				"status", typedEvent.Status, "message", typedEvent.Message)
		case events.PlaybackStateChanged:
			if opts.onPlaybackStateChanged != nil {
				opts.onPlaybackStateChanged(typedEvent.State)
			}
		}
	}
}

package speechtotext

import "github.com/vijay-kartik/voice-ai-agent/core/audio"

// TranscriptionOptions configures a live transcription session.
//
// A hypothesis is one text guess for the utterance in progress. Interim
// hypotheses may be revised; final hypotheses are committed segments.
type TranscriptionOptions struct {
	// HypothesisCallback receives every transcription hypothesis together
	// with whether the recognizer considers it final.
	HypothesisCallback func(text string, isFinal bool)
	// EndedCallback fires once when the source stops producing hypotheses.
	EndedCallback func()
	// ErrorCallback receives typed source failures, including permission
	// denials. See [CaptureError].
	ErrorCallback func(err error)

	Continuous     bool
	InterimResults bool
	Locale         string

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithHypothesisCallback(callback func(text string, isFinal bool)) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.HypothesisCallback = callback }
}

func WithEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.EndedCallback = callback }
}

func WithErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.ErrorCallback = callback }
}

// WithContinuous keeps the session open across utterances instead of closing
// after the first endpoint.
func WithContinuous(continuous bool) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.Continuous = continuous }
}

func WithInterimResults(interimResults bool) TranscriptionOption {
	return func(o *TranscriptionOptions) { o.InterimResults = interimResults }
}

func WithLocale(locale string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if locale != "" {
			o.Locale = locale
		}
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if encodingInfo.IsZero() {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}

// Package texttospeech defines the synthesis provider contract consumed by
// the orchestration layer: a remote provider driven by per-preset voice
// parameters, and a local fallback driven by prosody parameters.
package texttospeech

import (
	"context"

	"github.com/vijay-kartik/voice-ai-agent/core/audio"
)

// Request carries remote provider synthesis parameters. Stability,
// SimilarityBoost and Style are clamped to [0, 1] by providers.
type Request struct {
	Text            string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	SpeakerBoost    bool
}

// LocalRequest carries local provider synthesis parameters. Rate, Pitch and
// Volume are multipliers around 1.0; VoiceName is optional.
type LocalRequest struct {
	Text      string
	Rate      float64
	Pitch     float64
	Volume    float64
	VoiceName string
}

// Speech is one fully generated utterance, ready for playback.
type Speech struct {
	Audio    []byte
	Encoding audio.EncodingInfo
}

// Synthesizer is the remote provider contract.
type Synthesizer interface {
	Synthesize(ctx context.Context, request Request) (*Speech, error)
}

// LocalSynthesizer is the fallback provider contract. Implementations must
// not require network access or credentials.
type LocalSynthesizer interface {
	SynthesizeLocal(ctx context.Context, request LocalRequest) (*Speech, error)
}

package orchestration

import (
	"context"
	"time"

	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"github.com/vijay-kartik/voice-ai-agent/core/speechtotext"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

// SpeechToText is the transcription source feeding the endpoint detector.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	Close(ctx context.Context) error
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) { o.speechToText = client }
}

func WithSynthesizer(synthesizer texttospeech.Synthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.remoteSynthesizer = synthesizer }
}

func WithLocalSynthesizer(synthesizer texttospeech.LocalSynthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.localSynthesizer = synthesizer }
}

func WithAudioDevice(device AudioDevice) OrchestratorOption {
	return func(o *Orchestrator) { o.audioDevice = device }
}

// WithSilenceWindow overrides how long the endpoint detector waits after
// the last hypothesis before committing a turn.
func WithSilenceWindow(window time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.silenceWindow = window }
}

// WithLocale sets the transcription language tag, for example "en-US".
func WithLocale(locale string) OrchestratorOption {
	return func(o *Orchestrator) { o.locale = locale }
}

// WithVoicePresets merges preset overrides into the built-in catalogue.
func WithVoicePresets(presets ...VoicePreset) OrchestratorOption {
	return func(o *Orchestrator) { o.presets.merge(presets) }
}

type OrchestrateOptions struct {
	onTurnFinalized        func(turn Turn)
	onMessage              func(message Message)
	onInterimTranscription func(transcript string)
	onPlaybackStateChanged func(state events.PlaybackState)
	onFallbackEngaged      func(reason string)
	onCaptureError         func(reason string, permissionDenied bool)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithTurnFinalizedCallback registers a callback for committed user turns.
// It fires for every accepted endpoint commit, before the response is
// generated.
func WithTurnFinalizedCallback(callback func(turn Turn)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onTurnFinalized = callback }
}

// WithMessageCallback registers a callback for conversation log appends,
// both user turns and agent replies.
func WithMessageCallback(callback func(message Message)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onMessage = callback }
}

// WithInterimTranscriptionCallback registers a callback for live interim
// transcript snapshots while the user is still speaking.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onInterimTranscription = callback }
}

// WithPlaybackStateCallback registers a callback for playback manager
// state transitions.
func WithPlaybackStateCallback(callback func(state events.PlaybackState)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onPlaybackStateChanged = callback }
}

// WithFallbackEngagedCallback registers a callback fired when synthesis
// falls through to the local engine. Diagnostic only.
func WithFallbackEngagedCallback(callback func(reason string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onFallbackEngaged = callback }
}

// WithCaptureErrorCallback registers a callback for transcription source
// failures. Permission denials are terminal until access is granted and
// should be surfaced persistently.
func WithCaptureErrorCallback(callback func(reason string, permissionDenied bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onCaptureError = callback }
}

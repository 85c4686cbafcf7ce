// Package orchestration coordinates the voice conversation loop: live
// transcription feeds an endpoint detector, committed turns are classified
// and answered, and the reply is synthesized and played back.
package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"github.com/vijay-kartik/voice-ai-agent/core/speechtotext"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Orchestrator struct {
	detector     *endpointDetector
	controller   *turnController
	conversation *conversationLog
	responder    *responder
	presets      *presetCatalogue
	speech       *speechPipeline
	playback     *playbackManager

	speechToText      SpeechToText
	remoteSynthesizer texttospeech.Synthesizer
	localSynthesizer  texttospeech.LocalSynthesizer
	audioDevice       AudioDevice

	silenceWindow time.Duration
	locale        string

	emit               eventEmitter
	orchestrateOptions OrchestrateOptions
	baseContext        context.Context
	closeOnce          sync.Once
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		conversation:  newConversationLog(),
		responder:     newResponder(),
		presets:       newPresetCatalogue(),
		silenceWindow: DefaultSilenceWindow,
		locale:        "en-US",
		emit:          noopEventEmitter,
		baseContext:   context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.audioDevice == nil {
		o.audioDevice = nullAudioDevice{}
	}

	o.playback = newPlaybackManager(o.audioDevice)
	o.speech = newSpeechPipeline(o.remoteSynthesizer, o.localSynthesizer, o.playback)
	o.controller = newTurnController(o.conversation, o.responder, o.presets, o.speech)
	o.detector = newEndpointDetector(o.silenceWindow, o.handleTurn)
	o.detector.onError = o.handleCaptureError

	return o
}

// Orchestrate starts the conversation loop: the transcription source is
// opened (when configured) and committed turns begin flowing through the
// response pipeline.
//
// Contract: call Orchestrate at most once per orchestrator instance.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx
	o.emit = newCallbackEventEmitter(o.orchestrateOptions)
	o.controller.setEmitter(o.emit)
	o.speech.setEmitter(o.emit)
	o.playback.setEmitter(o.emit)

	o.detector.Start()

	go func() {
		<-ctx.Done()
		o.Close()
	}()

	if o.speechToText == nil {
		return
	}

	if err := o.speechToText.Transcribe(
		o.baseContext,
		speechtotext.WithContinuous(true),
		speechtotext.WithInterimResults(true),
		speechtotext.WithLocale(o.locale),
		speechtotext.WithHypothesisCallback(func(text string, isFinal bool) {
			o.detector.OnHypothesis(text, isFinal)
			o.emit(events.NewCaptureInterimTranscript(o.detector.InterimText()))
		}),
		speechtotext.WithEndedCallback(o.detector.OnSourceEnded),
		speechtotext.WithErrorCallback(o.detector.OnSourceError),
	); err != nil {
		recordedErr := fmt.Errorf("failed to start transcription: %w", err)
		span := trace.SpanFromContext(o.baseContext)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		o.handleCaptureError(recordedErr)
	}
}

func (o *Orchestrator) handleTurn(turn Turn) {
	o.emit(events.NewTurnFinalized(turn.ID, turn.Text, turn.Reason, turn.StartedAt, turn.FinalizedAt))
	go o.controller.Submit(o.baseContext, turn)
}

func (o *Orchestrator) handleCaptureError(err error) {
	reason := err.Error()
	permissionDenied := speechtotext.IsPermissionDenied(err)
	logger.Error("transcription source failed",
		"reason", reason, "permissionDenied", permissionDenied)
	o.emit(events.NewCaptureFailed(reason, permissionDenied))
}

// SendAudio forwards captured audio to the transcription source.
func (o *Orchestrator) SendAudio(audio []byte) error {
	if o.speechToText == nil {
		return fmt.Errorf("no speech-to-text client configured")
	}
	return o.speechToText.SendAudio(audio)
}

// StopListening commits the utterance in progress immediately instead of
// waiting out the silence window.
func (o *Orchestrator) StopListening() { o.detector.StopManually() }

// SubmitText pushes a typed prompt through the same turn pipeline a spoken
// utterance would take.
func (o *Orchestrator) SubmitText(text string) {
	now := time.Now()
	o.handleTurn(Turn{
		ID:          newTurnID(),
		Text:        text,
		Reason:      events.FinalizedByManualStop,
		StartedAt:   now,
		FinalizedAt: now,
	})
}

// EnableAudioWithGesture retries playback parked on an autoplay refusal.
// Call it only in direct response to a user action.
func (o *Orchestrator) EnableAudioWithGesture() error { return o.playback.ResumeWithGesture() }

// StopSpeaking cancels in-flight synthesis and stops playback.
func (o *Orchestrator) StopSpeaking() { o.speech.Stop() }

func (o *Orchestrator) PausePlayback() error  { return o.playback.Pause() }
func (o *Orchestrator) ResumePlayback() error { return o.playback.Resume() }

// PlaybackState returns the current playback manager state.
func (o *Orchestrator) PlaybackState() events.PlaybackState { return o.playback.State() }

// Presets returns the active voice preset catalogue, ordered by style.
func (o *Orchestrator) Presets() []VoicePreset { return o.presets.List() }

// SelectPreset replaces the catalogue entry for the preset's style. The
// change applies from the next spoken reply; the utterance already playing
// is not re-synthesized.
func (o *Orchestrator) SelectPreset(preset VoicePreset) error {
	if err := validatePreset(preset); err != nil {
		return fmt.Errorf("invalid preset: %w", err)
	}
	o.presets.merge([]VoicePreset{preset})
	return nil
}

// Conversation returns a point-in-time snapshot of the conversation log.
func (o *Orchestrator) Conversation() []Message { return o.conversation.Snapshot() }

// ExportTranscript renders the conversation so far as plain text.
func (o *Orchestrator) ExportTranscript() string { return o.conversation.Transcript() }

func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.detector.OnSourceEnded()
		o.speech.Stop()
		o.playback.Close()

		if o.speechToText != nil {
			if err := o.speechToText.Close(o.baseContext); err != nil {
				recordedErr := fmt.Errorf("failed to close speech-to-text client: %w", err)
				span := trace.SpanFromContext(o.baseContext)
				span.RecordError(recordedErr)
				span.SetStatus(codes.Error, recordedErr.Error())
			}
		}
	})
}

func newTurnID() string { return uuid.NewString() }

// nullAudioDevice swallows playback when no output device is wired, so the
// pipeline stays runnable in text-only setups. Marks fire immediately, as
// if the audio drained instantly.
type nullAudioDevice struct{}

func (nullAudioDevice) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }
func (nullAudioDevice) Start() error                     { return nil }
func (nullAudioDevice) Stop() error                      { return nil }
func (nullAudioDevice) SendAudio([]byte) error           { return nil }
func (nullAudioDevice) ClearBuffer()                     {}

func (nullAudioDevice) Mark(mark string, callback func(string)) error {
	go callback(mark)
	return nil
}

package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
	"go.opentelemetry.io/otel/codes"
)

// SpeechState is the observable state of the synthesis pipeline.
type SpeechState string

const (
	SpeechIdle       SpeechState = "idle"
	SpeechGenerating SpeechState = "generating"
	SpeechReady      SpeechState = "ready"
	SpeechFailed     SpeechState = "failed"
)

const (
	fallbackReasonUnconfigured    = "unconfigured"
	fallbackReasonProviderFailure = "provider_failure"
)

// speechPipeline turns response text into playing audio. The remote
// provider is preferred; when it is missing or fails, the pipeline falls
// through to the local engine without the caller having to know which one
// spoke. The only trace of a fallback is a diagnostic event.
type speechPipeline struct {
	mu     sync.Mutex
	state  SpeechState
	cancel context.CancelFunc

	remote   texttospeech.Synthesizer
	local    texttospeech.LocalSynthesizer
	playback *playbackManager
	emit     eventEmitter
}

func newSpeechPipeline(remote texttospeech.Synthesizer, local texttospeech.LocalSynthesizer, playback *playbackManager) *speechPipeline {
	return &speechPipeline{
		state:    SpeechIdle,
		remote:   remote,
		local:    local,
		playback: playback,
		emit:     noopEventEmitter,
	}
}

func (p *speechPipeline) setEmitter(emit eventEmitter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if emit == nil {
		emit = noopEventEmitter
	}
	p.emit = emit
}

func (p *speechPipeline) State() SpeechState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Speak synthesizes text with the given preset and hands the audio to the
// playback manager. It returns once the audio is queued (or the attempt
// failed); the turn is considered dispatched either way.
func (p *speechPipeline) Speak(ctx context.Context, text string, preset VoicePreset) error {
	ctx, span := tracer.Start(ctx, "speak response")
	defer span.End()

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = SpeechGenerating
	emit := p.emit
	p.mu.Unlock()
	defer cancel()

	speech, err := p.synthesize(ctx, text, preset, emit)
	if err != nil {
		p.setState(SpeechFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := p.playback.Play(speech); err != nil {
		// Autoplay refusal is not a synthesis failure: the audio is ready
		// and parked until a user gesture retries it.
		if IsAutoplayBlocked(err) {
			p.setState(SpeechReady)
			return nil
		}
		p.setState(SpeechFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	p.setState(SpeechReady)
	return nil
}

func (p *speechPipeline) synthesize(ctx context.Context, text string, preset VoicePreset, emit eventEmitter) (*texttospeech.Speech, error) {
	if p.remote != nil {
		speech, err := p.remote.Synthesize(ctx, remoteRequest(text, preset))
		if err == nil {
			return speech, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if generationErr, ok := texttospeech.AsGenerationError(err); ok {
			emit(events.NewSpeechGenerationFailed(generationErr.Status, generationErr.Message))
		} else {
			emit(events.NewSpeechGenerationFailed(0, err.Error()))
		}
		logger.Warn("remote synthesis failed, falling back to local engine", "error", err)
		emit(events.NewSpeechFallbackEngaged(fallbackReasonProviderFailure))
	} else {
		emit(events.NewSpeechFallbackEngaged(fallbackReasonUnconfigured))
	}

	if p.local == nil {
		return nil, fmt.Errorf("no synthesis engine available")
	}

	speech, err := p.local.SynthesizeLocal(ctx, localRequest(text, preset))
	if err != nil {
		return nil, fmt.Errorf("local synthesis failed: %w", err)
	}
	return speech, nil
}

// Stop cancels any in-flight generation and stops playback.
func (p *speechPipeline) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = SpeechIdle
	p.mu.Unlock()

	p.playback.Stop()
}

func (p *speechPipeline) setState(state SpeechState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
}

func remoteRequest(text string, preset VoicePreset) texttospeech.Request {
	return texttospeech.Request{
		Text:            text,
		VoiceID:         preset.VoiceID,
		ModelID:         preset.ModelID,
		Stability:       preset.Stability,
		SimilarityBoost: preset.SimilarityBoost,
		Style:           preset.Expressiveness,
		SpeakerBoost:    preset.SpeakerBoost,
	}
}

func localRequest(text string, preset VoicePreset) texttospeech.LocalRequest {
	return texttospeech.LocalRequest{
		Text:   text,
		Rate:   preset.Rate,
		Pitch:  preset.Pitch,
		Volume: preset.Volume,
	}
}

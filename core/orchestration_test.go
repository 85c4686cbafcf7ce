package orchestration

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"github.com/vijay-kartik/voice-ai-agent/core/speechtotext"
)

type fakeSpeechToText struct {
	mu         sync.Mutex
	options    speechtotext.TranscriptionOptions
	transcribe int
	closed     atomic.Int32
}

func (f *fakeSpeechToText) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	f.options = options
	f.transcribe++
	return nil
}

func (f *fakeSpeechToText) SendAudio([]byte) error { return nil }

func (f *fakeSpeechToText) Close(context.Context) error {
	f.closed.Add(1)
	return nil
}

func (f *fakeSpeechToText) hypothesize(text string, isFinal bool) {
	f.mu.Lock()
	callback := f.options.HypothesisCallback
	f.mu.Unlock()
	if callback != nil {
		callback(text, isFinal)
	}
}

func TestOrchestrateRunsSpokenTurnEndToEnd(t *testing.T) {
	speechToText := &fakeSpeechToText{}
	device := &fakeAudioDevice{}
	orchestrator := NewOrchestrator(
		WithSpeechToTextClient(speechToText),
		WithSynthesizer(&scriptedSynthesizer{}),
		WithLocalSynthesizer(&scriptedLocalSynthesizer{}),
		WithAudioDevice(device),
		WithSilenceWindow(50*time.Millisecond),
	)
	defer orchestrator.Close()

	turns := make(chan Turn, 4)
	messages := make(chan Message, 8)
	states := make(chan events.PlaybackState, 16)
	interims := make(chan string, 16)

	orchestrator.Orchestrate(context.Background(),
		WithTurnFinalizedCallback(func(turn Turn) { turns <- turn }),
		WithMessageCallback(func(message Message) { messages <- message }),
		WithPlaybackStateCallback(func(state events.PlaybackState) { states <- state }),
		WithInterimTranscriptionCallback(func(transcript string) { interims <- transcript }),
	)

	if speechToText.transcribe != 1 {
		t.Fatalf("expected transcription started once, got %d", speechToText.transcribe)
	}

	speechToText.hypothesize("hello", false)
	speechToText.hypothesize("hello there", false)

	select {
	case turn := <-turns:
		if turn.Text != "hello there" || turn.Reason != events.FinalizedBySilence {
			t.Fatalf("unexpected turn %+v", turn)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("turn never finalized")
	}

	var userMessage, agentMessage Message
	for _, target := range []*Message{&userMessage, &agentMessage} {
		select {
		case *target = <-messages:
		case <-time.After(2 * time.Second):
			t.Fatal("message never appended")
		}
	}
	if userMessage.Role != events.MessageRoleUser || userMessage.Text != "hello there" {
		t.Fatalf("unexpected user message %+v", userMessage)
	}
	if agentMessage.Role != events.MessageRoleAgent || agentMessage.Text == "" {
		t.Fatalf("unexpected agent message %+v", agentMessage)
	}

	awaitState(t, states, events.PlaybackPlaying)
	device.drain()
	awaitState(t, states, events.PlaybackEnded)

	select {
	case interim := <-interims:
		if interim == "" {
			t.Fatal("expected a non-empty interim snapshot")
		}
	default:
		t.Fatal("expected interim transcript callbacks")
	}

	transcript := orchestrator.ExportTranscript()
	if !strings.Contains(transcript, "hello there") {
		t.Fatalf("expected the turn in the transcript, got %q", transcript)
	}
}

func TestSubmitTextBypassesCapture(t *testing.T) {
	orchestrator := NewOrchestrator(
		WithLocalSynthesizer(&scriptedLocalSynthesizer{}),
		WithAudioDevice(&fakeAudioDevice{}),
	)
	defer orchestrator.Close()

	messages := make(chan Message, 4)
	orchestrator.Orchestrate(context.Background(),
		WithMessageCallback(func(message Message) { messages <- message }),
	)

	orchestrator.SubmitText("what's the weather like?")

	deadline := time.After(2 * time.Second)
	for seen := 0; seen < 2; {
		select {
		case <-messages:
			seen++
		case <-deadline:
			t.Fatal("typed turn never reached the conversation log")
		}
	}
	if len(orchestrator.Conversation()) != 2 {
		t.Fatalf("expected two messages, got %d", len(orchestrator.Conversation()))
	}
}

func TestStopListeningCommitsImmediately(t *testing.T) {
	speechToText := &fakeSpeechToText{}
	orchestrator := NewOrchestrator(
		WithSpeechToTextClient(speechToText),
		WithLocalSynthesizer(&scriptedLocalSynthesizer{}),
		WithAudioDevice(&fakeAudioDevice{}),
		WithSilenceWindow(10*time.Second),
	)
	defer orchestrator.Close()

	turns := make(chan Turn, 1)
	orchestrator.Orchestrate(context.Background(),
		WithTurnFinalizedCallback(func(turn Turn) { turns <- turn }),
	)

	speechToText.hypothesize("send the report", false)
	orchestrator.StopListening()

	select {
	case turn := <-turns:
		if turn.Reason != events.FinalizedByManualStop {
			t.Fatalf("expected manual stop reason, got %q", turn.Reason)
		}
	case <-time.After(time.Second):
		t.Fatal("manual stop never committed the turn")
	}
}

func TestCaptureErrorsReachTheCallback(t *testing.T) {
	speechToText := &fakeSpeechToText{}
	orchestrator := NewOrchestrator(WithSpeechToTextClient(speechToText))
	defer orchestrator.Close()

	type captureFailure struct {
		reason           string
		permissionDenied bool
	}
	failures := make(chan captureFailure, 1)
	orchestrator.Orchestrate(context.Background(),
		WithCaptureErrorCallback(func(reason string, permissionDenied bool) {
			failures <- captureFailure{reason, permissionDenied}
		}),
	)

	speechToText.mu.Lock()
	errorCallback := speechToText.options.ErrorCallback
	speechToText.mu.Unlock()
	errorCallback(&speechtotext.CaptureError{
		Kind:   speechtotext.CaptureErrorPermissionDenied,
		Reason: "microphone access denied",
	})

	select {
	case failure := <-failures:
		if !failure.permissionDenied {
			t.Fatalf("expected a permission denial, got %+v", failure)
		}
	case <-time.After(time.Second):
		t.Fatal("capture error never surfaced")
	}
}

func TestCloseIsIdempotentAndClosesTheSource(t *testing.T) {
	speechToText := &fakeSpeechToText{}
	orchestrator := NewOrchestrator(WithSpeechToTextClient(speechToText))
	orchestrator.Orchestrate(context.Background())

	orchestrator.Close()
	orchestrator.Close()

	if got := speechToText.closed.Load(); got != 1 {
		t.Fatalf("expected the source closed exactly once, got %d", got)
	}
}

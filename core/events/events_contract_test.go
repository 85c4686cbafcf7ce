package events

import (
	"testing"
	"time"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	now := time.Now()
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "capture interim transcript", event: NewCaptureInterimTranscript("partial"), expected: KindCaptureInterimTranscript},
		{name: "capture failed", event: NewCaptureFailed("not-allowed", true), expected: KindCaptureFailed},
		{name: "turn finalized", event: NewTurnFinalized("id", "hello", FinalizedBySilence, now, now), expected: KindTurnFinalized},
		{name: "message appended", event: NewMessageAppended("id", MessageRoleUser, "hello", "", ""), expected: KindMessageAppended},
		{name: "speech fallback engaged", event: NewSpeechFallbackEngaged("unconfigured"), expected: KindSpeechFallbackEngaged},
		{name: "speech generation failed", event: NewSpeechGenerationFailed(502, "bad gateway"), expected: KindSpeechGenerationFailed},
		{name: "playback state changed", event: NewPlaybackStateChanged(PlaybackPlaying), expected: KindPlaybackStateChanged},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected constructor to stamp a timestamp")
			}
		})
	}
}

func TestFinalizationReasonsAreDistinct(t *testing.T) {
	if FinalizedBySilence == FinalizedByManualStop {
		t.Fatalf("expected silence and manual stop reasons to differ, both were %q", FinalizedBySilence)
	}
}

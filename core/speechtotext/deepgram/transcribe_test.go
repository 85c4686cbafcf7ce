package deepgram

import (
	"testing"

	"github.com/vijay-kartik/voice-ai-agent/core/speechtotext"
)

func TestProcessMessageDeliversHypotheses(t *testing.T) {
	client := NewTranscriptionClient()

	type hypothesis struct {
		text    string
		isFinal bool
	}
	var received []hypothesis

	options := speechtotext.TranscriptionOptions{
		HypothesisCallback: func(text string, isFinal bool) {
			received = append(received, hypothesis{text: text, isFinal: isFinal})
		},
	}

	client.processMessage([]byte(`{
		"type": "Results",
		"is_final": false,
		"channel": {"alternatives": [{"transcript": " hello there "}]}
	}`), options)
	client.processMessage([]byte(`{
		"type": "Results",
		"is_final": true,
		"channel": {"alternatives": [{"transcript": "hello there friend"}]}
	}`), options)

	if len(received) != 2 {
		t.Fatalf("expected 2 hypotheses, got %d", len(received))
	}
	if received[0].text != "hello there" || received[0].isFinal {
		t.Fatalf("expected trimmed interim hypothesis, got %+v", received[0])
	}
	if received[1].text != "hello there friend" || !received[1].isFinal {
		t.Fatalf("expected final hypothesis, got %+v", received[1])
	}
}

func TestProcessMessageSkipsEmptyTranscripts(t *testing.T) {
	client := NewTranscriptionClient()

	calls := 0
	options := speechtotext.TranscriptionOptions{
		HypothesisCallback: func(string, bool) { calls++ },
	}

	client.processMessage([]byte(`{
		"type": "Results",
		"is_final": true,
		"channel": {"alternatives": [{"transcript": "   "}]}
	}`), options)
	client.processMessage([]byte(`{
		"type": "Results",
		"is_final": false,
		"channel": {"alternatives": []}
	}`), options)

	if calls != 0 {
		t.Fatalf("expected empty transcripts to be dropped, got %d callback calls", calls)
	}
}

func TestProcessMessageSurfacesEngineErrors(t *testing.T) {
	client := NewTranscriptionClient()

	var got error
	options := speechtotext.TranscriptionOptions{
		ErrorCallback: func(err error) { got = err },
	}

	client.processMessage([]byte(`{"type": "Error", "description": "quota exceeded"}`), options)

	if got == nil {
		t.Fatalf("expected an error callback for an Error message")
	}
	captureErr, ok := got.(*speechtotext.CaptureError)
	if !ok {
		t.Fatalf("expected a *speechtotext.CaptureError, got %T", got)
	}
	if captureErr.Kind != speechtotext.CaptureErrorEngineFault {
		t.Fatalf("expected engine fault kind, got %q", captureErr.Kind)
	}
	if speechtotext.IsPermissionDenied(got) {
		t.Fatalf("engine fault must not classify as permission denied")
	}
}

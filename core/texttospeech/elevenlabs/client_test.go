package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		apiKey:         "test-key",
		defaultVoiceID: "default-voice",
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSynthesizeSendsPresetParameters(t *testing.T) {
	var gotPath, gotKey string
	var gotBody synthesisBody

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Write([]byte{0x01, 0x02, 0x03, 0x04})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	speech, err := client.Synthesize(context.Background(), texttospeech.Request{
		Text:            "hello there",
		VoiceID:         "voice-123",
		ModelID:         "model-x",
		Stability:       0.4,
		SimilarityBoost: 0.7,
		Style:           1.5, // clamped to 1
		SpeakerBoost:    true,
	})
	if err != nil {
		t.Fatalf("expected synthesis to succeed, got %v", err)
	}

	if gotPath != "/v1/text-to-speech/voice-123" {
		t.Fatalf("expected voice id in path, got %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotBody.Text != "hello there" || gotBody.ModelID != "model-x" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if gotBody.VoiceSettings.Style != 1 {
		t.Fatalf("expected style clamped to 1, got %v", gotBody.VoiceSettings.Style)
	}
	if !gotBody.VoiceSettings.UseSpeakerBoost {
		t.Fatalf("expected speaker boost to be set")
	}
	if len(speech.Audio) != 4 {
		t.Fatalf("expected 4 audio bytes, got %d", len(speech.Audio))
	}
	if speech.Encoding.IsZero() {
		t.Fatalf("expected encoding info on synthesized speech")
	}
}

func TestSynthesizeFallsBackToDefaultVoice(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte{0x01})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Synthesize(context.Background(), texttospeech.Request{Text: "hi"}); err != nil {
		t.Fatalf("expected synthesis to succeed, got %v", err)
	}
	if !strings.HasSuffix(gotPath, "/default-voice") {
		t.Fatalf("expected default voice id in path, got %q", gotPath)
	}
}

func TestSynthesizeReturnsGenerationErrorWithStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Synthesize(context.Background(), texttospeech.Request{Text: "hi", VoiceID: "v"})
	if err == nil {
		t.Fatalf("expected an error for a non-2xx response")
	}

	generationErr, ok := texttospeech.AsGenerationError(err)
	if !ok {
		t.Fatalf("expected a *texttospeech.GenerationError, got %T", err)
	}
	if generationErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, generationErr.Status)
	}
	if !strings.Contains(generationErr.Message, "quota exceeded") {
		t.Fatalf("expected provider message preserved, got %q", generationErr.Message)
	}
}

func TestSynthesizeRejectsEmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Synthesize(context.Background(), texttospeech.Request{Text: "hi", VoiceID: "v"}); err == nil {
		t.Fatalf("expected an error for an empty audio body")
	}
}

func TestNewClientWithoutKeyReportsNotConfigured(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")

	if _, err := NewClient(); !errors.Is(err, texttospeech.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

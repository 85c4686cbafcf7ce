package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/vijay-kartik/voice-ai-agent/core/audio"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultModelID = "eleven_flash_v2_5"

	// pcm_16000 keeps provider output aligned with the playback device
	// without resampling.
	outputFormat = "pcm_16000"
)

// Client synthesizes speech through the ElevenLabs HTTP API.
type Client struct {
	apiKey         string
	defaultVoiceID string
	baseURL        string
	httpClient     *http.Client
}

// NewClient builds a client from ELEVENLABS_API_KEY and
// ELEVENLABS_VOICE_ID. Returns [texttospeech.ErrNotConfigured] when the key
// is absent so callers can skip straight to their fallback provider.
func NewClient() (*Client, error) {
	apiKey, ok := os.LookupEnv("ELEVENLABS_API_KEY")
	if !ok || apiKey == "" {
		return nil, texttospeech.ErrNotConfigured
	}

	return &Client{
		apiKey:         apiKey,
		defaultVoiceID: os.Getenv("ELEVENLABS_VOICE_ID"),
		baseURL:        defaultBaseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}, nil
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesisBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize requests one utterance worth of PCM audio. Non-2xx responses
// come back as *texttospeech.GenerationError carrying the provider status.
func (c *Client) Synthesize(ctx context.Context, request texttospeech.Request) (*texttospeech.Speech, error) {
	ctx, span := tracer.Start(ctx, "elevenlabs synthesize")
	defer span.End()

	voiceID := request.VoiceID
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}
	if voiceID == "" {
		return nil, &texttospeech.GenerationError{Message: "no voice id configured"}
	}
	modelID := request.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}

	endpoint, err := url.Parse(c.baseURL + "/v1/text-to-speech/" + url.PathEscape(voiceID))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis url: %w", err)
	}
	query := endpoint.Query()
	query.Set("output_format", outputFormat)
	endpoint.RawQuery = query.Encode()

	body, err := json.Marshal(synthesisBody{
		Text:    request.Text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       clampUnit(request.Stability),
			SimilarityBoost: clampUnit(request.SimilarityBoost),
			Style:           clampUnit(request.Style),
			UseSpeakerBoost: request.SpeakerBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		generationErr := &texttospeech.GenerationError{Message: err.Error()}
		span.RecordError(generationErr)
		span.SetStatus(codes.Error, generationErr.Error())
		return nil, generationErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		generationErr := &texttospeech.GenerationError{
			Status:  resp.StatusCode,
			Message: string(bytes.TrimSpace(msg)),
		}
		span.RecordError(generationErr)
		span.SetStatus(codes.Error, generationErr.Error())
		return nil, generationErr
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		generationErr := &texttospeech.GenerationError{Message: fmt.Sprintf("failed to read audio body: %v", err)}
		span.RecordError(generationErr)
		span.SetStatus(codes.Error, generationErr.Error())
		return nil, generationErr
	}
	if len(pcm) == 0 {
		return nil, &texttospeech.GenerationError{Status: resp.StatusCode, Message: "provider returned empty audio"}
	}

	return &texttospeech.Speech{
		Audio:    pcm,
		Encoding: audio.GetDefaultEncodingInfo(),
	}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

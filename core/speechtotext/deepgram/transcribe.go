package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
	"github.com/vijay-kartik/voice-ai-agent/core/speechtotext"
)

// errorResponseType is the message type deepgram uses for in-band errors.
const errorResponseType api.TypeResponse = "Error"

// Transcribe opens the streaming socket and starts delivering hypotheses to
// the configured callbacks. Audio is pushed through SendAudio.
func (c *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{
		Locale:       "en-US",
		EncodingInfo: audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return &speechtotext.CaptureError{Kind: speechtotext.CaptureErrorUnsupported, Reason: err.Error()}
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate:     encoding.sampleRate,
		encoding:       encoding.name,
		locale:         options.Locale,
		interimResults: options.InterimResults,
	})
	if err != nil {
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.closed = false
	c.connMu.Unlock()

	go c.readAndProcessMessages(ctx, conn, *options)

	return nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	locale     string

	interimResults bool
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, &speechtotext.CaptureError{
			Kind:   speechtotext.CaptureErrorUnsupported,
			Reason: "deepgram api key not found",
		}
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", options.locale)
	queryParams.Set("smart_format", "true")
	if options.interimResults {
		queryParams.Set("interim_results", "true")
	}
	queryParams.Set("endpointing", "300")

	listenUrl.RawQuery = queryParams.Encode()
	conn, resp, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &speechtotext.CaptureError{
				Kind:   speechtotext.CaptureErrorPermissionDenied,
				Reason: fmt.Sprintf("deepgram rejected credentials with status %d", resp.StatusCode),
			}
		}
		return nil, &speechtotext.CaptureError{
			Kind:   speechtotext.CaptureErrorEngineFault,
			Reason: fmt.Sprintf("failed to open socket connection to deepgram: %v", err),
		}
	}

	return conn, nil
}

// SendAudio pushes one chunk of caller audio into the live session.
func (c *TranscriptionClient) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("transcription session not open")
	}

	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "KeepAlive"}); err != nil {
		logger.Warn("failed to send keepalive to deepgram", "error", err)
	}
}

// Close asks the recognizer to flush and close the stream. Safe to call more
// than once.
func (c *TranscriptionClient) Close(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil || c.closed {
		return nil
	}
	c.closed = true

	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, options speechtotext.TranscriptionOptions) {
	keepAliveCtx, keepAliveCancel := context.WithCancel(ctx)
	defer keepAliveCancel()
	go c.keepAliveLoop(keepAliveCtx)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			c.connMu.Lock()
			wasClosed := c.closed
			c.conn = nil
			c.connMu.Unlock()
			conn.Close()

			if !wasClosed && !websocket.IsCloseError(err, websocket.CloseNormalClosure) && ctx.Err() == nil {
				if options.ErrorCallback != nil {
					options.ErrorCallback(&speechtotext.CaptureError{
						Kind:   speechtotext.CaptureErrorEngineFault,
						Reason: fmt.Sprintf("deepgram socket read failed: %v", err),
					})
				}
			}
			if options.EndedCallback != nil {
				options.EndedCallback()
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(msg, options)
		}
	}
}

func (c *TranscriptionClient) processMessage(msg []byte, options speechtotext.TranscriptionOptions) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram transcript message", "error", err)
			return
		}

		if len(msgResp.Channel.Alternatives) == 0 {
			return
		}
		transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		if transcript == "" {
			return
		}
		if options.HypothesisCallback != nil {
			options.HypothesisCallback(transcript, msgResp.IsFinal)
		}

	case errorResponseType:
		if options.ErrorCallback != nil {
			options.ErrorCallback(&speechtotext.CaptureError{
				Kind:   speechtotext.CaptureErrorEngineFault,
				Reason: fmt.Sprintf("deepgram reported an error: %s", strings.TrimSpace(string(msg))),
			})
		}
	}
}

// keepAliveLoop keeps the socket open during long silences. Deepgram closes
// idle connections after ~10s without audio or a KeepAlive message.
func (c *TranscriptionClient) keepAliveLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.connMu.Lock()
			idle := time.Since(c.lastMsgTs) >= 5*time.Second
			c.connMu.Unlock()
			if idle {
				c.sendKeepAlive()
			}
		}
	}
}

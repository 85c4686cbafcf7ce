// Package miniaudio provides speaker playback and microphone capture
// through malgo. One Client owns the malgo context and both devices.
package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext

	output outputClient
	input  inputClient

	closeOnce sync.Once
}

// NewClient initializes the audio backend and both devices. The output
// device is initialized but not started; the playback manager starts it
// when there is something to play.
func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio backend: %w", err)
	}

	client := Client{audioContext: audioCtx}

	if err := client.output.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize output device: %w", err)
	}

	if err := client.input.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize input device: %w", err)
	}

	return &client, nil
}

// Playback side. Start and Stop gate the device without touching queued
// audio, so stop/start pairs behave like pause/resume.

func (c *Client) Start() error               { return c.output.Start() }
func (c *Client) Stop() error                { return c.output.Stop() }
func (c *Client) SendAudio(pcm []byte) error { return c.output.Enqueue(pcm) }
func (c *Client) ClearBuffer()               { c.output.Clear() }

// Mark registers a callback fired once playback passes the end of the
// audio queued so far.
func (c *Client) Mark(mark string, callback func(string)) error {
	return c.output.Mark(mark, callback)
}

// Capture side.

func (c *Client) StartCapture(_ context.Context, onAudio func(pcm []byte)) error {
	return c.input.Start(onAudio)
}

func (c *Client) StopCapture() error { return c.input.Stop() }

// Stream starts capture and blocks until the context is cancelled.
func (c *Client) Stream(ctx context.Context, onAudio func(pcm []byte)) error {
	if err := c.input.Start(onAudio); err != nil {
		return err
	}
	<-ctx.Done()
	return c.input.Stop()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.input.Uninit()
		_ = c.output.Uninit()
		_ = c.audioContext.Uninit()
		c.audioContext.Free()
	})
}

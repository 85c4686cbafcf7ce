// Package portaudio captures microphone audio through PortAudio. It is an
// alternative input backend for hosts where the miniaudio capture device
// misbehaves.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
)

type Client struct {
	bufferSize int
	stream     *portaudio.Stream
	in         []int16

	closeOnce sync.Once
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, audio.DefaultSampleRate, bufferSize, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	return &Client{bufferSize: bufferSize, stream: stream, in: in}, nil
}

// Stream reads microphone audio until the context is cancelled, delivering
// each buffer as little-endian 16-bit PCM.
func (c *Client) Stream(ctx context.Context, onAudio func(pcm []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start capture stream: %w", err)
	}
	defer c.stream.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := c.stream.Read(); err != nil {
			// Overflows happen when the consumer stalls briefly; drop the
			// buffer and keep capturing.
			if err == portaudio.InputOverflowed {
				continue
			}
			return fmt.Errorf("failed to read capture stream: %w", err)
		}

		buffer := bytes.Buffer{}
		if err := binary.Write(&buffer, binary.LittleEndian, c.in); err != nil {
			return fmt.Errorf("failed to encode captured audio: %w", err)
		}
		onAudio(buffer.Bytes())
	}
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.stream.Close()
		portaudio.Terminate()
	})
}

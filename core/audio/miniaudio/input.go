package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
)

// inputClient captures microphone audio and hands each frame batch to the
// registered listener.
type inputClient struct {
	device  *malgo.Device
	mu      sync.Mutex
	onAudio func(pcm []byte)
}

func (c *inputClient) Init(audioContext *malgo.AllocatedContext) error {
	sampleRate := uint32(audio.DefaultSampleRate)
	format := malgo.FormatS16
	channels := 1
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = sampleRate
	config.Capture.Format = format
	config.Capture.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = 480 // 30ms batches at 16kHz
	config.Periods = 3

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if n == 0 || len(pInput) < n {
				return
			}
			c.mu.Lock()
			onAudio := c.onAudio
			c.mu.Unlock()
			if onAudio != nil {
				onAudio(pInput[:n])
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.device = device
	return nil
}

func (c *inputClient) Start(onAudio func(pcm []byte)) error {
	if c.device == nil {
		return fmt.Errorf("capture device not initialized")
	}
	if c.device.IsStarted() {
		return nil
	}

	c.mu.Lock()
	c.onAudio = onAudio
	c.mu.Unlock()

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	return nil
}

func (c *inputClient) Stop() error {
	if c.device == nil {
		return fmt.Errorf("capture device not initialized")
	}
	if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}

	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()
	return nil
}

func (c *inputClient) Uninit() error {
	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()
	return nil
}

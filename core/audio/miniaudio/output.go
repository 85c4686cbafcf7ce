package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
)

// outputClient feeds queued PCM to the playback device. Marks are offsets
// into the queue; when the device consumes past an offset the mark's
// callback fires, which is how the playback manager learns an utterance
// has drained.
type outputClient struct {
	device *malgo.Device

	mu     sync.Mutex
	queued []byte
	marks  []outputMark
}

type outputMark struct {
	name     string
	position int
	callback func(string)
}

func (c *outputClient) Init(audioContext *malgo.AllocatedContext) error {
	sampleRate := uint32(audio.DefaultSampleRate)
	format := malgo.FormatS16
	channels := 1
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = sampleRate
	config.Playback.Format = format
	config.Playback.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			c.fill(pOutput, int(frameCount)*bytesPerFrame)
		},
	})
	if err != nil {
		return err
	}

	c.device = device
	return nil
}

func (c *outputClient) Start() error {
	if c.device == nil {
		return fmt.Errorf("output device not initialized")
	}
	if c.device.IsStarted() {
		return nil
	}
	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start output device: %w", err)
	}
	return nil
}

// Stop halts the device but keeps queued audio, so a later Start resumes
// where playback left off.
func (c *outputClient) Stop() error {
	if c.device == nil {
		return fmt.Errorf("output device not initialized")
	}
	if !c.device.IsStarted() {
		return nil
	}
	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop output device: %w", err)
	}
	return nil
}

func (c *outputClient) Enqueue(pcm []byte) error {
	if c.device == nil {
		return fmt.Errorf("output device not initialized")
	}

	c.mu.Lock()
	c.queued = append(c.queued, pcm...)
	c.mu.Unlock()
	return nil
}

func (c *outputClient) Mark(name string, callback func(string)) error {
	c.mu.Lock()
	c.marks = append(c.marks, outputMark{
		name:     name,
		position: len(c.queued),
		callback: callback,
	})
	c.mu.Unlock()
	return nil
}

func (c *outputClient) Clear() {
	c.mu.Lock()
	c.queued = nil
	c.marks = nil
	c.mu.Unlock()
}

func (c *outputClient) Uninit() error {
	if c.device == nil {
		return fmt.Errorf("output device not initialized")
	}
	c.device.Uninit()
	c.device = nil
	c.Clear()
	return nil
}

// fill runs on the device callback thread. It copies up to need bytes of
// queued audio into the device buffer and fires any marks the copy passed.
func (c *outputClient) fill(pOutput []byte, need int) {
	c.mu.Lock()

	consumed := min(need, len(c.queued))
	copy(pOutput, c.queued[:consumed])
	c.queued = c.queued[consumed:]

	var passed []outputMark
	remaining := c.marks[:0]
	for _, mark := range c.marks {
		// A mark at the very end of the queue only counts as passed once
		// the device asked for more than was left.
		if mark.position < consumed || (mark.position == consumed && need > consumed) {
			passed = append(passed, mark)
			continue
		}
		mark.position -= consumed
		remaining = append(remaining, mark)
	}
	c.marks = remaining
	c.mu.Unlock()

	if len(passed) > 0 {
		// Callbacks run off the device thread; they may call back into the
		// client.
		go func() {
			for _, mark := range passed {
				mark.callback(mark.name)
			}
		}()
	}
}

package orchestration

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vijay-kartik/voice-ai-agent/core/audio"
	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
)

// AudioDevice is the playback sink. Start may refuse with an
// autoplay-blocked error on platforms that gate output behind a user
// gesture; see [PlaybackErrorAutoplayBlocked].
type AudioDevice interface {
	EncodingInfo() audio.EncodingInfo
	Start() error
	Stop() error
	SendAudio(audio []byte) error
	Mark(mark string, callback func(mark string)) error
	ClearBuffer()
}

// playbackSession owns the audio buffer for one utterance. release is safe
// to call from every exit path; the buffer is dropped exactly once no
// matter how the session ends.
type playbackSession struct {
	id          string
	speech      *texttospeech.Speech
	releaseOnce sync.Once
	onReleased  func()
}

func (s *playbackSession) release() {
	s.releaseOnce.Do(func() {
		s.speech = nil
		if s.onReleased != nil {
			s.onReleased()
		}
	})
}

// playbackManager drives the output device through one session at a time.
// A new session supersedes the current one: the old buffer is cleared and
// released before the new one loads.
//
// All state changes go through transition, so every observer sees the same
// sequence of states.
type playbackManager struct {
	mu sync.Mutex

	device  AudioDevice
	state   events.PlaybackState
	session *playbackSession
	paused  bool

	emit    eventEmitter
	pending chan events.Event
	// onSessionReleased observes buffer releases, mostly for tests.
	onSessionReleased func()

	closed    bool
	closeOnce sync.Once
}

func newPlaybackManager(device AudioDevice) *playbackManager {
	m := &playbackManager{
		device:  device,
		state:   events.PlaybackIdle,
		emit:    noopEventEmitter,
		pending: make(chan events.Event, 32),
	}
	// Transitions are emitted off the hot path but in order, from a single
	// dispatcher, so observers never see states out of sequence.
	go func() {
		for event := range m.pending {
			m.emitter()(event)
		}
	}()
	return m
}

func (m *playbackManager) emitter() eventEmitter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emit
}

func (m *playbackManager) setEmitter(emit eventEmitter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if emit == nil {
		emit = noopEventEmitter
	}
	m.emit = emit
}

func (m *playbackManager) State() events.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Play starts a new session for the given speech, superseding whatever is
// currently playing.
func (m *playbackManager) Play(speech *texttospeech.Speech) error {
	if speech == nil || len(speech.Audio) == 0 {
		return &PlaybackError{Kind: PlaybackErrorDecode, Message: "no audio to play"}
	}

	speech, err := conformSpeech(speech, m.device.EncodingInfo())
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.supersedeLocked()
	session := &playbackSession{
		id:         uuid.NewString(),
		speech:     speech,
		onReleased: m.onSessionReleased,
	}
	m.session = session
	m.transitionLocked(events.PlaybackLoading)
	m.mu.Unlock()

	return m.startSession(session)
}

// conformSpeech adapts generated audio to the encoding the output device
// consumes. Linear16 audio at the wrong sample rate is resampled (the local
// engine emits 22050 Hz WAV against a 16000 Hz device); any other mismatch
// is rejected rather than queued to play at the wrong speed and pitch.
func conformSpeech(speech *texttospeech.Speech, device audio.EncodingInfo) (*texttospeech.Speech, error) {
	source := speech.Encoding
	if source.IsZero() || device.IsZero() || source == device {
		return speech, nil
	}

	if source.Format != device.Format {
		return nil, &PlaybackError{
			Kind:    PlaybackErrorDecode,
			Message: fmt.Sprintf("cannot play %s audio on a %s device", source.Format.Name(), device.Format.Name()),
		}
	}
	if source.Format != audio.EncodingLinear16 {
		return nil, &PlaybackError{
			Kind:    PlaybackErrorDecode,
			Message: fmt.Sprintf("cannot convert %s audio from %d Hz to %d Hz", source.Format.Name(), source.SampleRate, device.SampleRate),
		}
	}

	return &texttospeech.Speech{
		Audio:    audio.ResampleLinear16(speech.Audio, source.SampleRate, device.SampleRate),
		Encoding: device,
	}, nil
}

func (m *playbackManager) startSession(session *playbackSession) error {
	if err := m.device.Start(); err != nil {
		if IsAutoplayBlocked(err) {
			// Keep the session: a user gesture can still play it.
			m.mu.Lock()
			if m.session == session {
				m.transitionLocked(events.PlaybackNeedsUserGesture)
			}
			m.mu.Unlock()
			return err
		}
		return m.failSession(session, fmt.Errorf("failed to start output device: %w", err))
	}

	m.mu.Lock()
	if m.session != session {
		// Superseded while starting; the buffer is already released.
		m.mu.Unlock()
		return nil
	}
	audioData := session.speech.Audio
	m.mu.Unlock()

	if err := m.device.SendAudio(audioData); err != nil {
		return m.failSession(session, fmt.Errorf("failed to queue audio: %w", err))
	}
	if err := m.device.Mark(session.id, func(string) { m.sessionDrained(session) }); err != nil {
		return m.failSession(session, fmt.Errorf("failed to mark end of audio: %w", err))
	}

	m.mu.Lock()
	if m.session == session {
		m.transitionLocked(events.PlaybackPlaying)
	}
	m.mu.Unlock()
	return nil
}

func (m *playbackManager) sessionDrained(session *playbackSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != session {
		return
	}
	session.release()
	m.session = nil
	m.transitionLocked(events.PlaybackEnded)
}

func (m *playbackManager) failSession(session *playbackSession, err error) error {
	m.mu.Lock()
	session.release()
	if m.session == session {
		m.session = nil
		m.transitionLocked(events.PlaybackError)
	}
	m.mu.Unlock()

	logger.Error("playback session failed", "error", err)
	return err
}

// Stop cancels the current session, clearing the device buffer and
// releasing the session's audio.
func (m *playbackManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return
	}
	m.supersedeLocked()
	m.transitionLocked(events.PlaybackStopped)
}

// Pause halts the output device without dropping buffered audio.
func (m *playbackManager) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != events.PlaybackPlaying || m.paused {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to pause output device: %w", err)
	}
	m.paused = true
	return nil
}

// Resume restarts a paused device.
func (m *playbackManager) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.paused {
		return nil
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to resume output device: %w", err)
	}
	m.paused = false
	return nil
}

// ResumeWithGesture retries a session parked on autoplay refusal. It is the
// only path out of the needs-user-gesture state and must be called in
// direct response to a user action.
func (m *playbackManager) ResumeWithGesture() error {
	m.mu.Lock()
	if m.state != events.PlaybackNeedsUserGesture || m.session == nil {
		m.mu.Unlock()
		return nil
	}
	session := m.session
	m.mu.Unlock()

	return m.startSession(session)
}

// Close releases the current session, if any. The device itself belongs to
// the caller.
func (m *playbackManager) Close() {
	m.mu.Lock()
	m.supersedeLocked()
	m.closed = true
	m.mu.Unlock()

	m.closeOnce.Do(func() { close(m.pending) })
}

// supersedeLocked clears and releases the current session, if any.
func (m *playbackManager) supersedeLocked() {
	if m.session == nil {
		return
	}
	m.device.ClearBuffer()
	m.session.release()
	m.session = nil
}

func (m *playbackManager) transitionLocked(state events.PlaybackState) {
	if m.state == state || m.closed {
		return
	}
	m.state = state
	m.paused = false
	select {
	case m.pending <- events.NewPlaybackStateChanged(state):
	default:
		logger.Warn("dropping playback state event, dispatch queue full", "state", string(state))
	}
}

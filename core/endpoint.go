package orchestration

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vijay-kartik/voice-ai-agent/core/events"
)

// DefaultSilenceWindow is how long the endpoint detector waits after the
// last hypothesis before committing a turn.
const DefaultSilenceWindow = 1000 * time.Millisecond

// Turn is one committed user utterance.
type Turn struct {
	ID          string
	Text        string
	Reason      events.FinalizationReason
	StartedAt   time.Time
	FinalizedAt time.Time
}

// endpointDetector decides when the user has finished speaking. Every
// hypothesis restarts a silence timer; when the timer fires (or the user
// stops manually) the accumulated text is committed as exactly one Turn.
//
// Committed (final) hypotheses accumulate; an interim hypothesis replaces
// the previous interim tail. The text read at finalization time is whatever
// the latest hypothesis produced, never a stale snapshot.
type endpointDetector struct {
	mu sync.Mutex

	listening bool
	committed []string
	interim   string
	startedAt time.Time

	timer *time.Timer
	// generation invalidates in-flight timer callbacks: a fire whose
	// generation no longer matches lost the race to a restart or a manual
	// stop and must do nothing.
	generation uint64

	silenceWindow time.Duration
	onFinalized   func(Turn)
	onError       func(error)
}

func newEndpointDetector(silenceWindow time.Duration, onFinalized func(Turn)) *endpointDetector {
	if silenceWindow <= 0 {
		silenceWindow = DefaultSilenceWindow
	}
	return &endpointDetector{
		silenceWindow: silenceWindow,
		onFinalized:   onFinalized,
	}
}

func (d *endpointDetector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listening = true
}

// OnHypothesis feeds one transcription hypothesis into the detector and
// restarts the silence timer. Hypotheses arriving while the detector is not
// listening are dropped.
func (d *endpointDetector) OnHypothesis(text string, isFinal bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.listening {
		return
	}

	if d.latestTextLocked() == "" && strings.TrimSpace(text) != "" {
		d.startedAt = time.Now()
	}

	if isFinal {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			d.committed = append(d.committed, trimmed)
		}
		d.interim = ""
	} else {
		d.interim = strings.TrimSpace(text)
	}

	d.restartTimerLocked()
}

// StopManually commits the current utterance immediately, without waiting
// for the silence window.
func (d *endpointDetector) StopManually() {
	d.finalize(events.FinalizedByManualStop)
}

// OnSourceEnded handles the transcription source closing. Nothing is
// committed; a partial utterance with no silence gap is discarded.
func (d *endpointDetector) OnSourceEnded() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.listening = false
}

// OnSourceError handles a transcription source failure, discarding any
// partial utterance.
func (d *endpointDetector) OnSourceError(err error) {
	d.mu.Lock()
	d.resetLocked()
	d.listening = false
	onError := d.onError
	d.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}

// InterimText returns the utterance accumulated so far, for live display.
func (d *endpointDetector) InterimText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latestTextLocked()
}

func (d *endpointDetector) restartTimerLocked() {
	d.generation++
	generation := d.generation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.silenceWindow, func() {
		d.finalizeIfCurrent(generation)
	})
}

// finalizeIfCurrent commits on a silence timer fire, unless the fire is
// stale. The generation check and the commit share one critical section, so
// a hypothesis racing the fire either restarts the window (and the fire does
// nothing) or lands after the commit as the start of the next utterance.
func (d *endpointDetector) finalizeIfCurrent(generation uint64) {
	d.mu.Lock()
	if generation != d.generation {
		d.mu.Unlock()
		return
	}
	onFinalized, turn, ok := d.commitLocked(events.FinalizedBySilence)
	d.mu.Unlock()

	if ok {
		onFinalized(turn)
	}
}

func (d *endpointDetector) finalize(reason events.FinalizationReason) {
	d.mu.Lock()
	onFinalized, turn, ok := d.commitLocked(reason)
	d.mu.Unlock()

	if ok {
		onFinalized(turn)
	}
}

// commitLocked builds the turn from the utterance accumulated so far and
// resets the detector. The text is read here, under the lock at commit time,
// so a hypothesis that arrived after the timer was scheduled still makes it
// into the turn. Empty utterances are dropped without a turn.
func (d *endpointDetector) commitLocked(reason events.FinalizationReason) (func(Turn), Turn, bool) {
	if !d.listening {
		return nil, Turn{}, false
	}

	text := d.latestTextLocked()
	startedAt := d.startedAt
	d.resetLocked()

	if text == "" || d.onFinalized == nil {
		return nil, Turn{}, false
	}

	return d.onFinalized, Turn{
		ID:          uuid.NewString(),
		Text:        text,
		Reason:      reason,
		StartedAt:   startedAt,
		FinalizedAt: time.Now(),
	}, true
}

func (d *endpointDetector) latestTextLocked() string {
	parts := d.committed
	if d.interim != "" {
		parts = append(append([]string{}, d.committed...), d.interim)
	}
	return strings.Join(parts, " ")
}

// resetLocked clears the accumulation and invalidates any pending timer.
// The detector stays listening; the next hypothesis starts a new utterance.
func (d *endpointDetector) resetLocked() {
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.committed = nil
	d.interim = ""
	d.startedAt = time.Time{}
}

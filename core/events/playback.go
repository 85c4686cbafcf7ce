package events

const (
	// KindPlaybackStateChanged identifies a playback manager state transition.
	KindPlaybackStateChanged Kind = "playback.state_changed"
)

// PlaybackState enumerates the playback manager states.
type PlaybackState string

const (
	PlaybackIdle    PlaybackState = "idle"
	PlaybackLoading PlaybackState = "loading"
	PlaybackPlaying PlaybackState = "playing"
	PlaybackEnded   PlaybackState = "ended"
	PlaybackError   PlaybackState = "error"
	PlaybackStopped PlaybackState = "stopped"
	// PlaybackNeedsUserGesture means the platform rejected autoplay and
	// playback may only be retried in direct response to a user gesture.
	PlaybackNeedsUserGesture PlaybackState = "needs_user_gesture"
)

// PlaybackStateChanged marks a playback manager state transition.
type PlaybackStateChanged struct {
	Base
	State PlaybackState
}

// NewPlaybackStateChanged creates a playback state changed event.
func NewPlaybackStateChanged(state PlaybackState) PlaybackStateChanged {
	return PlaybackStateChanged{Base: NewBase(KindPlaybackStateChanged), State: state}
}

package orchestration

import (
	"errors"
	"fmt"
)

// PipelineErrorStage identifies where in the turn pipeline a failure happened.
type PipelineErrorStage string

const (
	StageClassification PipelineErrorStage = "classification"
	StageResponse       PipelineErrorStage = "response"
	StageSpeech         PipelineErrorStage = "speech"
)

// PipelineError wraps a failure inside turn processing. The turn that caused
// it is already accepted at that point, so the error is reported and the
// conversation continues.
type PipelineError struct {
	Stage PipelineErrorStage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("turn pipeline failed during %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// PlaybackErrorKind distinguishes recoverable playback failures from fatal
// ones.
type PlaybackErrorKind string

const (
	// PlaybackErrorDecode means the audio payload could not be decoded or
	// the output device rejected it. The session is unrecoverable.
	PlaybackErrorDecode PlaybackErrorKind = "decode"
	// PlaybackErrorAutoplayBlocked means the output device refused to start
	// without an explicit user action. The session is kept and can be
	// retried through [Orchestrator.EnableAudioWithGesture].
	PlaybackErrorAutoplayBlocked PlaybackErrorKind = "autoplay_blocked"
)

type PlaybackError struct {
	Kind    PlaybackErrorKind
	Message string
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed (%s): %s", e.Kind, e.Message)
}

// IsAutoplayBlocked reports whether err is a playback refusal that a user
// gesture can clear.
func IsAutoplayBlocked(err error) bool {
	var playbackErr *PlaybackError
	return errors.As(err, &playbackErr) && playbackErr.Kind == PlaybackErrorAutoplayBlocked
}

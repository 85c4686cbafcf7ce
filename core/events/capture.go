package events

const (
	// KindCaptureInterimTranscript identifies mutable interim transcript snapshots.
	KindCaptureInterimTranscript Kind = "capture.interim_transcript"
	// KindCaptureFailed identifies a typed transcription source failure.
	KindCaptureFailed Kind = "capture.failed"
)

// CaptureInterimTranscript carries the current interim transcript snapshot.
type CaptureInterimTranscript struct {
	Base
	Transcript string
}

// NewCaptureInterimTranscript creates a capture interim transcript event.
func NewCaptureInterimTranscript(transcript string) CaptureInterimTranscript {
	return CaptureInterimTranscript{Base: NewBase(KindCaptureInterimTranscript), Transcript: transcript}
}

// CaptureFailed marks a typed transcription source failure.
//
// PermissionDenied failures must be surfaced persistently with a re-request
// affordance; they are terminal for the session until access is granted.
type CaptureFailed struct {
	Base
	Reason           string
	PermissionDenied bool
}

// NewCaptureFailed creates a capture failed event.
func NewCaptureFailed(reason string, permissionDenied bool) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), Reason: reason, PermissionDenied: permissionDenied}
}

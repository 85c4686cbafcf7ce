package speechtotext

import (
	"errors"
	"fmt"
)

// CaptureErrorKind classifies transcription source failures.
type CaptureErrorKind string

const (
	// CaptureErrorPermissionDenied means the user has not granted microphone
	// access. Terminal for the session until access is granted again; must be
	// surfaced persistently, never auto-retried.
	CaptureErrorPermissionDenied CaptureErrorKind = "permission_denied"
	// CaptureErrorUnsupported means the capture capability is unavailable on
	// this platform or configuration.
	CaptureErrorUnsupported CaptureErrorKind = "unsupported"
	// CaptureErrorEngineFault covers recognizer and transport failures.
	CaptureErrorEngineFault CaptureErrorKind = "engine_fault"
)

// CaptureError is a typed transcription source failure.
type CaptureError struct {
	Kind   CaptureErrorKind
	Reason string
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture error (%s): %s", e.Kind, e.Reason)
}

// IsPermissionDenied reports whether err is a permission-denied capture
// failure, which callers must surface persistently with a re-request
// affordance.
func IsPermissionDenied(err error) bool {
	var captureErr *CaptureError
	return errors.As(err, &captureErr) && captureErr.Kind == CaptureErrorPermissionDenied
}

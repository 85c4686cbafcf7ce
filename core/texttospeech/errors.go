package texttospeech

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means the provider has no credentials. Distinct from a
// runtime failure: callers skip straight to the fallback without surfacing
// an error.
var ErrNotConfigured = errors.New("synthesis provider not configured")

// GenerationError is a remote synthesis failure carrying an HTTP-style
// status. Always recoverable via the local fallback.
type GenerationError struct {
	Status  int
	Message string
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("speech generation failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("speech generation failed: %s", e.Message)
}

// AsGenerationError unwraps err into a *GenerationError if it is one.
func AsGenerationError(err error) (*GenerationError, bool) {
	var generationErr *GenerationError
	if errors.As(err, &generationErr) {
		return generationErr, true
	}
	return nil, false
}

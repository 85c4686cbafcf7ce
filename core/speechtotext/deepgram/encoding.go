package deepgram

import (
	"fmt"

	"github.com/vijay-kartik/voice-ai-agent/core/audio"
)

type wireEncoding struct {
	name       string
	sampleRate int
}

func convertEncoding(info audio.EncodingInfo) (wireEncoding, error) {
	if info.IsZero() {
		info = audio.GetDefaultEncodingInfo()
	}

	switch info.Format.Name() {
	case "linear16", "mulaw", "alaw":
		return wireEncoding{name: info.Format.Name(), sampleRate: info.SampleRate}, nil
	}

	return wireEncoding{}, fmt.Errorf("encoding %q is not supported by deepgram streaming", info.Format.Name())
}

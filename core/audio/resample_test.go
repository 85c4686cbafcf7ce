package audio

import (
	"encoding/binary"
	"testing"
)

func pcmFromSamples(samples []int16) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}
	return pcm
}

func TestResampleLinear16ScalesSampleCount(t *testing.T) {
	// One second at 22050 Hz should come out as one second at 16000 Hz.
	in := make([]int16, 22050)
	out := ResampleLinear16(pcmFromSamples(in), 22050, 16000)

	if got := len(out) / 2; got != 16000 {
		t.Fatalf("expected 16000 samples after downsampling, got %d", got)
	}
}

func TestResampleLinear16PreservesConstantSignal(t *testing.T) {
	in := make([]int16, 441)
	for i := range in {
		in[i] = 1000
	}

	out := ResampleLinear16(pcmFromSamples(in), 44100, 16000)
	if len(out) == 0 {
		t.Fatalf("expected resampled output")
	}
	for i := 0; i < len(out); i += 2 {
		if sample := int16(binary.LittleEndian.Uint16(out[i:])); sample != 1000 {
			t.Fatalf("expected constant signal to survive resampling, sample %d was %d", i/2, sample)
		}
	}
}

func TestResampleLinear16PassesThroughMatchingRates(t *testing.T) {
	in := pcmFromSamples([]int16{1, 2, 3})
	out := ResampleLinear16(in, 16000, 16000)
	if &out[0] != &in[0] {
		t.Fatalf("expected matching rates to pass the buffer through unchanged")
	}
}

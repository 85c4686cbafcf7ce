package audio

import "encoding/binary"

// ResampleLinear16 converts 16-bit little-endian mono PCM between sample
// rates by linear interpolation. Good enough for speech; callers that need
// band-limited resampling should convert upstream.
func ResampleLinear16(pcm []byte, fromRate, toRate int) []byte {
	if fromRate <= 0 || toRate <= 0 || fromRate == toRate {
		return pcm
	}

	sampleCount := len(pcm) / 2
	if sampleCount == 0 {
		return nil
	}

	outCount := int(int64(sampleCount) * int64(toRate) / int64(fromRate))
	if outCount == 0 {
		outCount = 1
	}

	out := make([]byte, outCount*2)
	ratio := float64(fromRate) / float64(toRate)
	for i := 0; i < outCount; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= sampleCount {
			idx = sampleCount - 1
		}
		frac := pos - float64(idx)

		s0 := int16(binary.LittleEndian.Uint16(pcm[idx*2:]))
		s1 := s0
		if idx+1 < sampleCount {
			s1 = int16(binary.LittleEndian.Uint16(pcm[(idx+1)*2:]))
		}

		sample := float64(s0) + (float64(s1)-float64(s0))*frac
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sample)))
	}
	return out
}

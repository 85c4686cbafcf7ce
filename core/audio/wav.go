package audio

import (
	"encoding/binary"
	"fmt"
)

// StripWAVHeader extracts the raw PCM payload and encoding info from a RIFF
// WAVE container. Only PCM (format tag 1) single- and dual-channel files are
// supported; anything else is rejected rather than guessed at.
func StripWAVHeader(wav []byte) ([]byte, EncodingInfo, error) {
	if len(wav) < 44 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, EncodingInfo{}, fmt.Errorf("not a RIFF WAVE container")
	}

	var (
		info    EncodingInfo
		fmtSeen bool
	)

	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(wav) {
			chunkSize = len(wav) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, EncodingInfo{}, fmt.Errorf("truncated fmt chunk")
			}
			formatTag := binary.LittleEndian.Uint16(wav[body : body+2])
			channels := binary.LittleEndian.Uint16(wav[body+2 : body+4])
			sampleRate := binary.LittleEndian.Uint32(wav[body+4 : body+8])
			bitsPerSample := binary.LittleEndian.Uint16(wav[body+14 : body+16])

			if formatTag != 1 {
				return nil, EncodingInfo{}, fmt.Errorf("unsupported WAVE format tag %d, expected PCM", formatTag)
			}
			if bitsPerSample != 16 {
				return nil, EncodingInfo{}, fmt.Errorf("unsupported bit depth %d, expected 16", bitsPerSample)
			}
			if channels != 1 && channels != 2 {
				return nil, EncodingInfo{}, fmt.Errorf("unsupported channel count %d", channels)
			}

			info = EncodingInfo{SampleRate: int(sampleRate), Format: EncodingLinear16}
			fmtSeen = true

		case "data":
			if !fmtSeen {
				return nil, EncodingInfo{}, fmt.Errorf("data chunk before fmt chunk")
			}
			pcm := make([]byte, chunkSize)
			copy(pcm, wav[body:body+chunkSize])
			return pcm, info, nil
		}

		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	return nil, EncodingInfo{}, fmt.Errorf("no data chunk found")
}

// EncodeWAV wraps raw 16-bit mono PCM in a minimal RIFF WAVE header.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8

	out := make([]byte, 44+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], channels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], channels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[44:], pcm)
	return out
}

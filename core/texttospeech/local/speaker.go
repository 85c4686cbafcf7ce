// Package local synthesizes speech with an on-machine espeak engine. It is
// the fallback path when no remote provider is configured or the remote
// provider fails: no credentials, no network, lower quality.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vijay-kartik/voice-ai-agent/core/audio"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
)

const (
	// espeak-ng defaults: 175 words per minute, pitch 50 of 99, amplitude
	// 100 of 200. LocalRequest multipliers scale around these.
	baseRateWPM   = 175
	basePitch     = 50
	baseAmplitude = 100
)

// Speaker synthesizes through the espeak-ng (or espeak) command line tool.
type Speaker struct {
	binaryPath string
}

// NewSpeaker locates the synthesis binary. Unlike the remote provider this
// never needs credentials; an error here means the machine has no engine
// installed at all.
func NewSpeaker() (*Speaker, error) {
	for _, candidate := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return &Speaker{binaryPath: path}, nil
		}
	}
	return nil, fmt.Errorf("no local speech engine found (install espeak-ng)")
}

// SynthesizeLocal renders one utterance to PCM via the engine's WAV output.
func (s *Speaker) SynthesizeLocal(ctx context.Context, request texttospeech.LocalRequest) (*texttospeech.Speech, error) {
	text := strings.TrimSpace(request.Text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	cmd := exec.CommandContext(ctx, s.binaryPath, buildArgs(request)...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("local synthesis failed: %s", detail)
	}

	pcm, encoding, err := audio.StripWAVHeader(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("local engine produced unreadable audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("local engine produced no audio")
	}

	return &texttospeech.Speech{Audio: pcm, Encoding: encoding}, nil
}

// buildArgs maps prosody multipliers onto espeak flags. Text is passed on
// stdin to avoid any quoting trouble.
func buildArgs(request texttospeech.LocalRequest) []string {
	args := []string{"--stdout", "--stdin"}

	rate := request.Rate
	if rate <= 0 {
		rate = 1
	}
	args = append(args, "-s", strconv.Itoa(clampInt(int(float64(baseRateWPM)*rate), 80, 450)))

	pitch := request.Pitch
	if pitch <= 0 {
		pitch = 1
	}
	args = append(args, "-p", strconv.Itoa(clampInt(int(float64(basePitch)*pitch), 0, 99)))

	volume := request.Volume
	if volume <= 0 {
		volume = 1
	}
	args = append(args, "-a", strconv.Itoa(clampInt(int(float64(baseAmplitude)*volume), 0, 200)))

	if request.VoiceName != "" {
		args = append(args, "-v", request.VoiceName)
	}

	return args
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

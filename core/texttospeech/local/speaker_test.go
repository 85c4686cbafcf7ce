package local

import (
	"testing"

	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
)

func TestBuildArgsAppliesProsodyMultipliers(t *testing.T) {
	args := buildArgs(texttospeech.LocalRequest{
		Text:   "hello",
		Rate:   1.2,
		Pitch:  0.5,
		Volume: 2.5, // clamped to the engine maximum
	})

	want := map[string]string{"-s": "210", "-p": "25", "-a": "200"}
	for flag, value := range want {
		if !hasFlagValue(args, flag, value) {
			t.Fatalf("expected %s %s in args, got %v", flag, value, args)
		}
	}
}

func TestBuildArgsDefaultsToNeutralProsody(t *testing.T) {
	args := buildArgs(texttospeech.LocalRequest{Text: "hello"})

	want := map[string]string{"-s": "175", "-p": "50", "-a": "100"}
	for flag, value := range want {
		if !hasFlagValue(args, flag, value) {
			t.Fatalf("expected %s %s in args, got %v", flag, value, args)
		}
	}
}

func TestBuildArgsIncludesVoiceNameOnlyWhenSet(t *testing.T) {
	withVoice := buildArgs(texttospeech.LocalRequest{Text: "hi", VoiceName: "en-gb"})
	if !hasFlagValue(withVoice, "-v", "en-gb") {
		t.Fatalf("expected -v en-gb in args, got %v", withVoice)
	}

	withoutVoice := buildArgs(texttospeech.LocalRequest{Text: "hi"})
	for _, arg := range withoutVoice {
		if arg == "-v" {
			t.Fatalf("expected no voice flag without a voice name, got %v", withoutVoice)
		}
	}
}

func hasFlagValue(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// Command voice-agent runs the voice conversation loop in the terminal:
// microphone capture feeds live transcription, committed turns are answered
// and spoken back, and the session transcript scrolls in a small TUI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/vijay-kartik/voice-ai-agent/core"
	"github.com/vijay-kartik/voice-ai-agent/core/audio/miniaudio"
	"github.com/vijay-kartik/voice-ai-agent/core/audio/portaudio"
	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"github.com/vijay-kartik/voice-ai-agent/core/speechtotext/deepgram"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech/elevenlabs"
	"github.com/vijay-kartik/voice-ai-agent/core/texttospeech/local"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "voice-agent:", err)
		os.Exit(1)
	}
}

func run() error {
	locale := flag.String("locale", "en-US", "transcription language tag")
	silence := flag.Duration("silence", orchestration.DefaultSilenceWindow, "silence window before a turn is committed")
	presetsPath := flag.String("presets", "", "path to a voice preset override file (JSON)")
	printSchema := flag.Bool("presets-schema", false, "print the preset file JSON schema and exit")
	textOnly := flag.Bool("text-only", false, "skip audio devices; type turns instead of speaking them")
	usePortaudio := flag.Bool("portaudio", false, "capture through PortAudio instead of the miniaudio input device")
	flag.Parse()

	if *printSchema {
		schema, err := json.MarshalIndent(orchestration.PresetSchema(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	}

	opts := []orchestration.OrchestratorOption{
		orchestration.WithLocale(*locale),
		orchestration.WithSilenceWindow(*silence),
	}

	if *presetsPath != "" {
		presets, err := orchestration.LoadPresetFile(*presetsPath)
		if err != nil {
			return err
		}
		opts = append(opts, orchestration.WithVoicePresets(presets...))
	}

	var notices []string

	if remote, err := elevenlabs.NewClient(); err == nil {
		opts = append(opts, orchestration.WithSynthesizer(remote))
	} else if errors.Is(err, texttospeech.ErrNotConfigured) {
		notices = append(notices, "no ELEVENLABS_API_KEY, using the local voice")
	} else {
		return err
	}

	if speaker, err := local.NewSpeaker(); err == nil {
		opts = append(opts, orchestration.WithLocalSynthesizer(speaker))
	} else {
		notices = append(notices, fmt.Sprintf("local voice unavailable: %v", err))
	}

	var audioClient *miniaudio.Client
	if !*textOnly {
		client, err := miniaudio.NewClient()
		if err != nil {
			return fmt.Errorf("failed to open audio devices (try -text-only): %w", err)
		}
		audioClient = client
		defer audioClient.Close()

		opts = append(opts,
			orchestration.WithAudioDevice(audioClient),
			orchestration.WithSpeechToTextClient(deepgram.NewTranscriptionClient()),
		)
	}

	orchestrator := orchestration.NewOrchestrator(opts...)
	defer orchestrator.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(newModel(orchestrator, notices), tea.WithAltScreen())

	orchestrator.Orchestrate(ctx,
		orchestration.WithTurnFinalizedCallback(func(turn orchestration.Turn) {
			program.Send(turnMsg{turn})
		}),
		orchestration.WithMessageCallback(func(message orchestration.Message) {
			program.Send(messageMsg{message})
		}),
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			program.Send(interimMsg{transcript})
		}),
		orchestration.WithPlaybackStateCallback(func(state events.PlaybackState) {
			program.Send(playbackMsg{state})
		}),
		orchestration.WithFallbackEngagedCallback(func(reason string) {
			program.Send(fallbackMsg{reason})
		}),
		orchestration.WithCaptureErrorCallback(func(reason string, permissionDenied bool) {
			program.Send(captureErrorMsg{reason, permissionDenied})
		}),
	)

	if audioClient != nil {
		stream := audioClient.Stream
		if *usePortaudio {
			capture, err := portaudio.NewClient(1024)
			if err != nil {
				return err
			}
			defer capture.Close()
			stream = capture.Stream
		}

		go func() {
			err := stream(ctx, func(pcm []byte) {
				_ = orchestrator.SendAudio(pcm)
			})
			if err != nil {
				program.Send(captureErrorMsg{reason: err.Error()})
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

func exportTranscript(orchestrator *orchestration.Orchestrator) (string, error) {
	path := fmt.Sprintf("conversation-%s.txt", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(path, []byte(orchestrator.ExportTranscript()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

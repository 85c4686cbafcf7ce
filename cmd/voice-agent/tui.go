package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/vijay-kartik/voice-ai-agent/core"
	"github.com/vijay-kartik/voice-ai-agent/core/events"
)

type turnMsg struct{ turn orchestration.Turn }
type messageMsg struct{ message orchestration.Message }
type interimMsg struct{ transcript string }
type playbackMsg struct{ state events.PlaybackState }
type fallbackMsg struct{ reason string }

type captureErrorMsg struct {
	reason           string
	permissionDenied bool
}

var (
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	agentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	interimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	orchestrator *orchestration.Orchestrator
	input        textinput.Model

	width  int
	height int

	messages      []orchestration.Message
	interim       string
	playbackState events.PlaybackState
	notices       []string
	captureError  string
	paused        bool
}

func newModel(orchestrator *orchestration.Orchestrator, notices []string) model {
	input := textinput.New()
	input.Placeholder = "type a message (or just speak)"
	input.Focus()

	return model{
		orchestrator:  orchestrator,
		input:         input,
		playbackState: events.PlaybackIdle,
		notices:       notices,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.orchestrator.SubmitText(text)
				m.input.Reset()
			}
			return m, nil
		case "ctrl+s":
			m.orchestrator.StopListening()
			return m, nil
		case "ctrl+g":
			// The keypress is the user gesture that unlocks parked audio.
			if err := m.orchestrator.EnableAudioWithGesture(); err != nil {
				m.notices = append(m.notices, fmt.Sprintf("audio still blocked: %v", err))
			}
			return m, nil
		case "ctrl+p":
			m.paused = !m.paused
			if m.paused {
				_ = m.orchestrator.PausePlayback()
			} else {
				_ = m.orchestrator.ResumePlayback()
			}
			return m, nil
		case "ctrl+x":
			m.orchestrator.StopSpeaking()
			return m, nil
		case "ctrl+v":
			var styles []string
			for _, preset := range m.orchestrator.Presets() {
				styles = append(styles, string(preset.Style))
			}
			m.notices = append(m.notices, "voice presets: "+strings.Join(styles, ", "))
			return m, nil
		case "ctrl+e":
			if path, err := exportTranscript(m.orchestrator); err == nil {
				m.notices = append(m.notices, "transcript saved to "+path)
			} else {
				m.notices = append(m.notices, fmt.Sprintf("export failed: %v", err))
			}
			return m, nil
		}

	case turnMsg:
		m.interim = ""
		return m, nil

	case messageMsg:
		m.messages = append(m.messages, msg.message)
		return m, nil

	case interimMsg:
		m.interim = msg.transcript
		return m, nil

	case playbackMsg:
		m.playbackState = msg.state
		if msg.state != events.PlaybackPlaying {
			m.paused = false
		}
		return m, nil

	case fallbackMsg:
		m.notices = append(m.notices, "using the local voice ("+msg.reason+")")
		return m, nil

	case captureErrorMsg:
		if msg.permissionDenied {
			m.captureError = "microphone access denied - grant access and restart"
		} else {
			m.captureError = msg.reason
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	b.WriteString(statusStyle.Render("voice-agent") + "  " + m.statusLine() + "\n\n")

	for _, message := range m.messages {
		label := userStyle.Render("you  ")
		if message.Role == events.MessageRoleAgent {
			label = agentStyle.Render("agent")
		}
		b.WriteString(label + " " + wordwrap.String(message.Text, width-8) + "\n")
	}

	if m.interim != "" {
		b.WriteString(interimStyle.Render("...   "+m.interim) + "\n")
	}

	if m.captureError != "" {
		b.WriteString("\n" + errorStyle.Render("mic: "+m.captureError) + "\n")
	}
	for _, notice := range lastN(m.notices, 3) {
		b.WriteString(noticeStyle.Render("note: "+notice) + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(helpStyle.Render(
		"enter send - ctrl+s end turn - ctrl+g enable audio - ctrl+p pause - ctrl+x stop voice - ctrl+v presets - ctrl+e export - esc quit"))

	return b.String()
}

func (m model) statusLine() string {
	state := string(m.playbackState)
	if m.paused {
		state = "paused"
	}
	if m.playbackState == events.PlaybackNeedsUserGesture {
		return errorStyle.Render("audio blocked - press ctrl+g to enable")
	}
	return helpStyle.Render("playback: " + state)
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

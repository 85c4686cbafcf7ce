package orchestration

import (
	"strings"
	"testing"

	"github.com/vijay-kartik/voice-ai-agent/core/events"
)

func TestConversationLogSnapshotsAreIndependent(t *testing.T) {
	log := newConversationLog()
	log.append(events.MessageRoleUser, "hello", "", "")

	snapshot := log.Snapshot()
	log.append(events.MessageRoleAgent, "hi there", EmotionFriendly, StyleFriendly)

	if len(snapshot) != 1 {
		t.Fatalf("expected the snapshot frozen at one message, got %d", len(snapshot))
	}
	if log.Len() != 2 {
		t.Fatalf("expected two messages in the log, got %d", log.Len())
	}
}

func TestConversationLogAssignsUniqueIDs(t *testing.T) {
	log := newConversationLog()
	first := log.append(events.MessageRoleUser, "one", "", "")
	second := log.append(events.MessageRoleUser, "two", "", "")

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", first.ID, second.ID)
	}
}

func TestTranscriptLabelsSpeakers(t *testing.T) {
	log := newConversationLog()
	log.append(events.MessageRoleUser, "how are you?", "", "")
	log.append(events.MessageRoleAgent, "doing great!", EmotionExcited, StyleExcited)

	transcript := log.Transcript()
	lines := strings.Split(strings.TrimSpace(transcript), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two transcript lines, got %d: %q", len(lines), transcript)
	}
	if !strings.Contains(lines[0], "You: how are you?") {
		t.Fatalf("expected a labelled user line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Agent: doing great!") {
		t.Fatalf("expected a labelled agent line, got %q", lines[1])
	}
}

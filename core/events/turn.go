package events

import "time"

const (
	// KindTurnFinalized identifies the commit of one user utterance.
	KindTurnFinalized Kind = "turn.finalized"
)

// FinalizationReason records why the endpoint detector committed a turn.
type FinalizationReason string

const (
	// FinalizedBySilence means the silence window elapsed with no new hypothesis.
	FinalizedBySilence FinalizationReason = "silence"
	// FinalizedByManualStop means the user explicitly ended the utterance.
	FinalizedByManualStop FinalizationReason = "manual_stop"
)

// TurnFinalized marks the commit of one user utterance, ready for
// classification and response.
type TurnFinalized struct {
	Base
	TurnID      string
	Text        string
	Reason      FinalizationReason
	StartedAt   time.Time
	FinalizedAt time.Time
}

// NewTurnFinalized creates a turn finalized event.
func NewTurnFinalized(turnID, text string, reason FinalizationReason, startedAt, finalizedAt time.Time) TurnFinalized {
	return TurnFinalized{
		Base:        NewBase(KindTurnFinalized),
		TurnID:      turnID,
		Text:        text,
		Reason:      reason,
		StartedAt:   startedAt,
		FinalizedAt: finalizedAt,
	}
}

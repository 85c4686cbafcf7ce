package events

import "time"

// Kind is a stable, dot-namespaced event identifier.
type Kind string

// Event is implemented by every orchestration event.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation timestamp shared by all events.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a base with the given kind and the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind           { return b.kind }
func (b Base) Timestamp() time.Time { return b.timestamp }

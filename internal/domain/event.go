package domain

import (
	"strings"
	"time"
)

// EventKind tags the origin of an Event on the wire.
type EventKind string

const (
	// KindConnection greets a freshly attached remote subscriber.
	KindConnection EventKind = "connection"
	// KindConnectionStatus reports that the metrics source came up or went away.
	KindConnectionStatus EventKind = "connection_status"
	// KindFocusStateChange reports a debounced focus transition.
	KindFocusStateChange EventKind = "focus_state_change"
)

// FocusLabel is the coarse focus state derived from the raw attention label.
type FocusLabel string

const (
	// Focused is reported for every label that is not Unfocused.
	Focused FocusLabel = "focused"
	// Unfocused is reported for labels mentioning "unfocused" or "low".
	Unfocused FocusLabel = "unfocused"
)

// CoarseFocus maps a raw attention label onto Focused or Unfocused.
// Any label containing "unfocused" or "low" (case-insensitive) is Unfocused.
func CoarseFocus(raw string) FocusLabel {
	l := strings.ToLower(raw)
	if strings.Contains(l, "unfocused") || strings.Contains(l, "low") {
		return Unfocused
	}
	return Focused
}

// Event is an immutable notification fanned out to every subscriber.
type Event struct {
	Timestamp  time.Time   `json:"timestamp"`
	FocusState *FocusLabel `json:"focus_state"`
	Message    string      `json:"message"`
	Kind       EventKind   `json:"type"`
}

// NewEvent builds an event without a focus label.
func NewEvent(kind EventKind, msg string, at time.Time) Event {
	return Event{Kind: kind, Message: msg, Timestamp: at.UTC()}
}

// NewFocusEvent builds a focus_state_change event carrying label.
func NewFocusEvent(label FocusLabel, at time.Time) Event {
	l := label
	msg := "Focus regained"
	if label == Unfocused {
		msg = "Focus lost"
	}
	return Event{
		Kind:       KindFocusStateChange,
		Message:    msg,
		Timestamp:  at.UTC(),
		FocusState: &l,
	}
}

// Focus returns the focus label, or "" when the event carries none.
func (e Event) Focus() FocusLabel {
	if e.FocusState == nil {
		return ""
	}
	return *e.FocusState
}

package registration

// EventKind tells subscribers how to read an Event.
type EventKind string

const (
	EventStateChanged EventKind = "state"
	EventFocus        EventKind = "focus"
	EventClear        EventKind = "clear"
	EventRedirect     EventKind = "redirect"
)

// Event is published to subscribers. State is set for EventStateChanged,
// Field for focus and clear, Target for redirect.
type Event struct {
	Kind   EventKind `json:"kind"`
	State  *State    `json:"state,omitempty"`
	Field  string    `json:"field,omitempty"`
	Target string    `json:"target,omitempty"`
}

func stateChanged(s State) Event { return Event{Kind: EventStateChanged, State: &s} }

func focus(field string) Event { return Event{Kind: EventFocus, Field: field} }

func clearField(field string) Event { return Event{Kind: EventClear, Field: field} }

func redirect(target string) Event { return Event{Kind: EventRedirect, Target: target} }

type subscriber struct {
	id uint64
	fn func(Event)
}

package connect

import "github.com/meikuraledutech/graphrel"

// Event is something the control asks its host to apply.
type Event interface {
	isEvent()
}

// Hidden means the control has closed.
type Hidden struct{}

// ResetRequested asks the host to clear its pending node selection.
type ResetRequested struct{}

// RelationshipCreated carries the store's copy of the new relationship.
// The host takes ownership of it.
type RelationshipCreated struct {
	Relationship graphrel.Relationship
}

// NoticeChanged sets the host's error notice. An empty Message clears it.
type NoticeChanged struct {
	Message string
}

func (Hidden) isEvent()              {}
func (ResetRequested) isEvent()      {}
func (RelationshipCreated) isEvent() {}
func (NoticeChanged) isEvent()       {}

// Sink receives events. Emit must not call back into the emitting Dialogue
// or NoticeBoard.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// ChanSink forwards events to a channel read by the host's state owner.
// Emit blocks while the channel is full.
type ChanSink chan<- Event

// Emit sends ev on the channel.
func (c ChanSink) Emit(ev Event) { c <- ev }

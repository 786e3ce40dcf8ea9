package port

import (
	"time"

	"github.com/flowmesh/runtime/notify"
	"github.com/flowmesh/runtime/typeid"
)

// MessagePushAttemptTimeout bounds how long a single OutputPort.Send push
// attempt blocks before the port re-checks whether its parent is still
// running. It is a var, not a const, so tests can shrink it.
var MessagePushAttemptTimeout = 100 * time.Millisecond

// Direction distinguishes a component's input ports from its output ports.
type Direction string

// Direction constants.
const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Host is the subset of Component a port needs: whether the component is
// still meant to be running, and the notification channel used to wake it.
// Ports hold a Host, not a concrete *component.Component, so this package
// has no dependency on component — component depends on port instead.
type Host interface {
	ShouldRun() bool
	Wake() *notify.Channel
}

// queueView is satisfied by *queue.MessageQueue[T] for any T; it is the
// type-erased subset of the queue's API a Port needs to expose without
// naming T.
type queueView interface {
	Type() typeid.ID
	HasMessage() bool
	Len() int
	Cap() int
	Closed() bool
	Close()
}

// Port is the type-erased facade every InputPort[T] and OutputPort[T]
// implements, used by the runtime registry when wiring edges by name
// without static knowledge of T.
type Port interface {
	TypeID() typeid.ID
	Direction() Direction
	HasMessage() bool
	Len() int
	Cap() int
	Closed() bool
	Close()
	// Connected reports whether this port already participates in an edge:
	// for an output, whether Connect has bound it to a queue; for an input,
	// whether an output has bound to it. The registry's Strict mode uses
	// this to report a duplicate edge instead of letting
	// Connect silently no-op it.
	Connected() bool
}

// base holds the state shared by InputPort and OutputPort: the parent host,
// the declared type, and an optional queue reference. If q is nil the
// zero-queue semantics in §4.3 of the spec apply: HasMessage false, Len/Cap
// 0, Closed true, Close a no-op.
type base struct {
	host      Host
	direction Direction
	typeID    typeid.ID
	q         queueView
}

func (b *base) TypeID() typeid.ID    { return b.typeID }
func (b *base) Direction() Direction { return b.direction }

func (b *base) HasMessage() bool {
	if b.q == nil {
		return false
	}
	return b.q.HasMessage()
}

func (b *base) Len() int {
	if b.q == nil {
		return 0
	}
	return b.q.Len()
}

func (b *base) Cap() int {
	if b.q == nil {
		return 0
	}
	return b.q.Cap()
}

func (b *base) Closed() bool {
	if b.q == nil {
		return true
	}
	return b.q.Closed()
}

func (b *base) Close() {
	if b.q == nil {
		return
	}
	b.q.Close()
}

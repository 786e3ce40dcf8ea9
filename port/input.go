package port

import (
	"context"

	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/notify"
	"github.com/flowmesh/runtime/queue"
	"github.com/flowmesh/runtime/typeid"
)

// InputPort is the typed receiving end of a connection. It creates its own
// queue at construction time and registers the parent host's notification
// channel as that queue's reader wake-target, so every successful Push from
// a connected OutputPort wakes this component.
type InputPort[T any] struct {
	base
	q         *queue.MessageQueue[T]
	connected bool // true once an OutputPort has bound to this port

	metrics *metric.Metrics
	label   [2]string // component, port name
}

// NewInputPort declares an input port of element type T with the given
// queue capacity, owned by host.
func NewInputPort[T any](host Host, capacity int) *InputPort[T] {
	q := queue.New[T](capacity, host.Wake())
	p := &InputPort[T]{
		q: q,
	}
	p.base = base{
		host:      host,
		direction: DirectionInput,
		typeID:    typeid.Of[T](),
		q:         q,
	}
	return p
}

// Receive returns the next message, blocking until one is available, the
// parent component's ShouldRun flips false, or ctx is cancelled. A
// cancelled ctx is reported the same way as Terminated, since this runtime
// has no separate "deadline exceeded" status on the hot path.
func (p *InputPort[T]) Receive(ctx context.Context) typeid.Optional[T] {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() { p.host.Wake().Signal(notify.MessageArrival) })
		defer stop()
	}
	for {
		if !p.host.ShouldRun() || ctx.Err() != nil {
			return typeid.Failed[T](typeid.Terminated)
		}

		if p.q.HasMessage() {
			v, ok := p.q.Pop(context.Background())
			if !ok {
				// Closed and drained by a concurrent Close between the
				// HasMessage check and the Pop; re-check ShouldRun.
				continue
			}
			p.metrics.RecordMessageReceived(p.label[0], p.label[1])
			return typeid.Ok(v)
		}

		p.host.Wake().Wait(notify.MessageArrival | notify.ProcessShutdown)
	}
}

// SetMetrics attaches m to this port, labelled by component/port name, and
// threads the same labels down to the port's own queue so Push/Pop can
// report occupancy. Called by AddInput when the owning Builder was given a
// *metric.Metrics.
func (p *InputPort[T]) SetMetrics(m *metric.Metrics, component, port string) {
	p.metrics = m
	p.label = [2]string{component, port}
	p.q.SetMetrics(m, component, port)
}

// Connected reports whether an OutputPort has bound to this input.
func (p *InputPort[T]) Connected() bool {
	return p.connected
}

// rawQueue exposes the underlying queue for Connect, which needs it to bind
// an OutputPort[T]'s reference without going through the type-erased Port
// interface.
func (p *InputPort[T]) rawQueue() *queue.MessageQueue[T] {
	return p.q
}

// sendDynamic recovers T from v before delegating to SendMessage; it backs
// SendMessageDynamic, the type-erased injection path the network registry
// uses for initial messages declared in a topology file.
func (p *InputPort[T]) sendDynamic(ctx context.Context, v any) typeid.Status {
	tv, ok := v.(T)
	if !ok {
		return typeid.TypeMismatch
	}
	return SendMessage(ctx, p, tv)
}

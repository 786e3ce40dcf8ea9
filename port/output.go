package port

import (
	"context"

	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/queue"
	"github.com/flowmesh/runtime/typeid"
)

// OutputPort is the typed sending end of a connection. It starts detached
// (no queue); Connect binds it to a single InputPort's queue.
type OutputPort[T any] struct {
	base
	q *queue.MessageQueue[T] // nil until Connect

	metrics *metric.Metrics
	label   [2]string // component, port name
}

// SetMetrics attaches m to this port, labelled by component/port name.
// Called by AddOutput when the owning Builder was given a *metric.Metrics.
func (p *OutputPort[T]) SetMetrics(m *metric.Metrics, component, port string) {
	p.metrics = m
	p.label = [2]string{component, port}
}

// NewOutputPort declares an output port of element type T, owned by host.
// It has no queue until Connect binds one.
func NewOutputPort[T any](host Host) *OutputPort[T] {
	p := &OutputPort[T]{}
	p.base = base{
		host:      host,
		direction: DirectionOutput,
		typeID:    typeid.Of[T](),
	}
	return p
}

// Send delivers v downstream. If the port is unconnected, Send silently
// discards v and reports Okay — a deliberate contract so components can be
// written to always send regardless of whether anything consumes a given
// output. If connected, Send retries the push against the downstream queue
// with a bounded timeout per attempt until it succeeds, the downstream
// queue is closed, or the parent component's ShouldRun flips false; the
// last two report Terminated.
func (p *OutputPort[T]) Send(v T) typeid.Status {
	if p.q == nil {
		p.metrics.RecordMessageDiscarded(p.label[0], p.label[1])
		return typeid.Okay
	}

	for p.host.ShouldRun() {
		if p.q.Closed() {
			return typeid.Terminated
		}
		ctx, cancel := context.WithTimeout(context.Background(), MessagePushAttemptTimeout)
		ok := p.q.Push(ctx, v)
		cancel()
		if ok {
			p.metrics.RecordMessageSent(p.label[0], p.label[1])
			return typeid.Okay
		}
	}
	return typeid.Terminated
}

// Connected reports whether Connect has bound this output to a queue.
func (p *OutputPort[T]) Connected() bool {
	return p.q != nil
}

// bind is called by Connect to attach q; it is not exported because callers
// outside this package must go through Connect's type and self-loop checks.
func (p *OutputPort[T]) bind(q *queue.MessageQueue[T]) {
	p.q = q
	p.base.q = q
}

// SendMessage performs an external, orchestrator-driven injection of v into
// in's queue. Unlike OutputPort.Send, it does not observe any sender's
// ShouldRun — only the receiver's Closed() state — which is what makes it
// suitable for delivering initial/configuration messages before a network
// is started. It retries until the push succeeds (Okay) or the target
// queue is closed (Terminated).
func SendMessage[T any](ctx context.Context, in *InputPort[T], v T) typeid.Status {
	for {
		if in.q.Closed() {
			return typeid.Terminated
		}

		pushCtx, cancel := context.WithTimeout(ctx, MessagePushAttemptTimeout)
		ok := in.q.Push(pushCtx, v)
		cancel()
		if ok {
			return typeid.Okay
		}
		if ctx.Err() != nil {
			return typeid.Terminated
		}
	}
}

// dynamicReceiver is implemented by every *InputPort[T]; it lets
// SendMessageDynamic recover T from a boxed value without the caller
// knowing it statically.
type dynamicReceiver interface {
	sendDynamic(ctx context.Context, v any) typeid.Status
}

// SendMessageDynamic is the type-erased counterpart to SendMessage, used by
// the network registry to deliver initial messages declared in a topology
// file against a port.Port it only knows by name. v's dynamic type must
// match in's element type exactly, or the call reports TypeMismatch.
func SendMessageDynamic(ctx context.Context, in Port, v any) typeid.Status {
	if in.Direction() != DirectionInput {
		return typeid.TypeMismatch
	}
	r, ok := in.(dynamicReceiver)
	if !ok {
		return typeid.TypeMismatch
	}
	return r.sendDynamic(ctx, v)
}

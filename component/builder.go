package component

import (
	"context"

	"github.com/google/uuid"

	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/notify"
	"github.com/flowmesh/runtime/port"
)

// Builder declares a component's ports before its behavior is fixed by
// Build. Ports must not be declared after Build; the underlying Component
// rejects StartProcess until Build has run, and nothing in this package
// lets a caller reach back into a Builder's ports afterward.
type Builder struct {
	c *Component
}

// NewBuilder starts declaring a new component instance named name. name is
// used only for diagnostics and registry bookkeeping; it plays no part in
// message routing.
func NewBuilder(name string) *Builder {
	return &Builder{c: newComponent(name)}
}

func newComponent(name string) *Component {
	return &Component{
		name: name,
		id:   uuid.New(),
		wake: notify.New(),
	}
}

// WithMetrics attaches m to the component under construction. Every port
// declared by a subsequent AddInput/AddOutput call is labelled with this
// component's name and its own port name and reports through m; Build and
// the run loop report component-level state, processing duration and
// errors through it as well. Call WithMetrics before declaring ports — a
// port added before it has no metrics attached, matching the zero-cost
// default of a Builder that never calls it at all.
func (b *Builder) WithMetrics(m *metric.Metrics) *Builder {
	b.c.metrics = m
	return b
}

// AddInput declares a new input port named name, of element type T, with
// the given queue capacity, on the component under construction. The
// returned port is ready to Connect before the network starts and to
// Receive from once the component is running. name must be unique among
// the component's input ports; it is how the network registry addresses
// the port when wiring edges declared by name.
func AddInput[T any](b *Builder, name string, capacity int) *port.InputPort[T] {
	p := port.NewInputPort[T](b.c, capacity)
	if b.c.metrics != nil {
		p.SetMetrics(b.c.metrics, b.c.name, name)
	}
	b.c.inputNames = append(b.c.inputNames, name)
	b.c.inputs = append(b.c.inputs, p)
	return p
}

// AddOutput declares a new output port named name, of element type T, on
// the component under construction. It starts unconnected; Send on an
// unconnected output silently discards until Connect binds it. name must
// be unique among the component's output ports.
func AddOutput[T any](b *Builder, name string) *port.OutputPort[T] {
	p := port.NewOutputPort[T](b.c)
	if b.c.metrics != nil {
		p.SetMetrics(b.c.metrics, b.c.name, name)
	}
	b.c.outputNames = append(b.c.outputNames, name)
	b.c.outputs = append(b.c.outputs, p)
	return p
}

// Build freezes the port set and supplies the component's behavior:
// initFn runs once when the process goroutine starts, before the first
// call to processFn; processFn runs repeatedly, once per iteration of the
// component's run loop, until it returns a non-nil error, ctx is done, or
// StopProcess is called. initFn may be nil for components with no setup
// step.
func (b *Builder) Build(initFn func() error, processFn func(ctx context.Context) error) *Component {
	b.c.initFn = initFn
	b.c.processFn = processFn
	b.c.built.Store(true)
	b.c.setState(StateBuilt)
	return b.c
}

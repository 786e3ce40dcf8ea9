package component

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/flowmesh/runtime/errors"
	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/notify"
	"github.com/flowmesh/runtime/port"
	"github.com/flowmesh/runtime/typeid"
)

// Component is the runtime unit of a network: a named process with a fixed
// set of input and output ports, an Initialize step, and a Process step that
// the runtime repeats until the component is told to stop. Component
// implements port.Host so its own ports can observe ShouldRun and wait on
// its wake channel without port depending on this package in return.
type Component struct {
	name string
	id   uuid.UUID

	wake      *notify.Channel
	shouldRun atomic.Bool
	running   atomic.Bool
	built     atomic.Bool
	state     atomic.Int32
	done      chan struct{}

	initFn    func() error
	processFn func(ctx context.Context) error

	inputs      []port.Port
	inputNames  []string
	outputs     []port.Port
	outputNames []string

	mu      sync.Mutex
	lastErr error

	metrics *metric.Metrics // nil unless the Builder was given one via WithMetrics
}

// Name returns the instance name the component was declared with.
func (c *Component) Name() string { return c.name }

// ID returns the component's process-unique diagnostic identifier, assigned
// once at construction. It plays no part in message routing, which is
// always by declared name; it exists purely so log lines and metrics labels
// can correlate a component instance across a restart under the same name.
func (c *Component) ID() uuid.UUID { return c.id }

// ShouldRun satisfies port.Host: it reports whether the process goroutine
// is still meant to be iterating its Process step.
func (c *Component) ShouldRun() bool { return c.shouldRun.Load() }

// Wake satisfies port.Host: every port created by this component's Builder
// shares this single notification channel, so any MessageArrival on any
// input port, or a shutdown signal, wakes whichever port the process
// goroutine is blocked in.
func (c *Component) Wake() *notify.Channel { return c.wake }

// State reports where the component currently sits in its lifecycle.
func (c *Component) State() State { return State(c.state.Load()) }

func (c *Component) setState(s State) {
	c.state.Store(int32(s))
	c.metrics.RecordComponentState(c.name, int(s))
}

// InputCount and OutputCount report the number of declared ports of each
// direction, fixed once Build has run.
func (c *Component) InputCount() int  { return len(c.inputs) }
func (c *Component) OutputCount() int { return len(c.outputs) }

// InputPort returns the type-erased facade for the input port at idx, for
// registry wiring and introspection.
func (c *Component) InputPort(idx int) port.Port { return c.inputs[idx] }

// OutputPort returns the type-erased facade for the output port at idx.
func (c *Component) OutputPort(idx int) port.Port { return c.outputs[idx] }

// InputNames and OutputNames report the declared port names in declaration
// order, parallel to the indices InputPort and OutputPort accept.
func (c *Component) InputNames() []string  { return c.inputNames }
func (c *Component) OutputNames() []string { return c.outputNames }

// InputPortByName returns the type-erased facade for the named input port,
// and false if no input port was declared with that name.
func (c *Component) InputPortByName(name string) (port.Port, bool) {
	for i, n := range c.inputNames {
		if n == name {
			return c.inputs[i], true
		}
	}
	return nil, false
}

// OutputPortByName returns the type-erased facade for the named output
// port, and false if no output port was declared with that name.
func (c *Component) OutputPortByName(name string) (port.Port, bool) {
	for i, n := range c.outputNames {
		if n == name {
			return c.outputs[i], true
		}
	}
	return nil, false
}

// LastError returns the error that caused Initialize or Process to stop the
// component, if any.
func (c *Component) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Component) setLastErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// StartProcess launches the component's process goroutine. It is an error
// to call StartProcess before Build has frozen the port set, or more than
// once per component instance.
func (c *Component) StartProcess(ctx context.Context) error {
	if !c.built.Load() {
		return errors.WrapInvalid(errors.ErrPortsFrozen, "Component", "StartProcess", "starting before Build")
	}
	if !c.state.CompareAndSwap(int32(StateBuilt), int32(StateRunning)) {
		return errors.WrapInvalid(errors.ErrAlreadyStarted, "Component", "StartProcess", "starting "+c.name)
	}

	c.shouldRun.Store(true)
	c.running.Store(true)
	c.metrics.RecordComponentState(c.name, int(StateRunning))
	c.done = make(chan struct{})
	go c.run(ctx)
	c.wake.Signal(notify.ProcessStart)
	return nil
}

// StopProcess signals the component to stop iterating its Process step and
// wakes it if it is currently blocked on a port. It does not itself wait
// for the goroutine to exit; call Join for that. Calling StopProcess on a
// component that was never started, or twice, is a no-op.
func (c *Component) StopProcess() {
	if !c.shouldRun.CompareAndSwap(true, false) {
		return
	}
	c.wake.Signal(notify.ProcessShutdown)
}

// Join blocks until the process goroutine has exited or ctx is done,
// whichever comes first.
func (c *Component) Join(ctx context.Context) error {
	if c.done == nil {
		return errors.WrapInvalid(errors.ErrNotStarted, "Component", "Join", "joining "+c.name)
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Await blocks until one of the input ports named by indices has a message
// ready, ctx is cancelled, or the component is stopped, returning the
// index (into the indices slice's own addressing of c.inputs) of a ready
// port. It is the multi-port counterpart to a single InputPort's Receive,
// used by components that must service more than one upstream. Ports are
// checked in the order indices lists them, so when several are ready the
// first one listed wins.
func (c *Component) Await(ctx context.Context, indices []uint) typeid.Optional[uint] {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() { c.wake.Signal(notify.MessageArrival) })
		defer stop()
	}
	for {
		if !c.ShouldRun() || ctx.Err() != nil {
			return typeid.Failed[uint](typeid.Terminated)
		}

		for _, idx := range indices {
			if int(idx) >= len(c.inputs) {
				continue
			}
			if c.inputs[idx].HasMessage() {
				return typeid.Ok(idx)
			}
		}

		c.wake.Wait(notify.MessageArrival | notify.ProcessShutdown)
	}
}

// run blocks for the ProcessStart signal StartProcess sends right after
// spawning this goroutine, then drives Initialize/Process until shouldRun
// goes false. A ProcessShutdown observed in that same wait (StopProcess
// called before this goroutine got scheduled) skips Initialize entirely.
func (c *Component) run(ctx context.Context) {
	defer func() {
		c.running.Store(false)
		c.setState(StateStopped)
		close(c.done)
	}()

	if observed := c.wake.Wait(notify.ProcessStart | notify.ProcessShutdown); observed&notify.ProcessShutdown != 0 {
		return
	}

	if c.initFn != nil {
		if err := c.initFn(); err != nil {
			c.setLastErr(err)
			c.metrics.RecordError(c.name, errors.Classify(err).String())
			c.shouldRun.Store(false)
			return
		}
	}

	for c.shouldRun.Load() && ctx.Err() == nil {
		start := time.Now()
		err := c.processFn(ctx)
		c.metrics.RecordProcessingDuration(c.name, time.Since(start))
		if err != nil {
			c.setLastErr(err)
			c.metrics.RecordError(c.name, errors.Classify(err).String())
			c.shouldRun.Store(false)
			return
		}
	}
}

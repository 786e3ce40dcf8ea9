// Package runtime assembles components into a running network: a Registry
// holds the known component factories and the named instances built from
// them, wires edges and initial messages between those instances, and
// starts/stops the whole graph atomically.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/flowmesh/runtime/component"
	"github.com/flowmesh/runtime/errors"
	"github.com/flowmesh/runtime/port"
	"github.com/flowmesh/runtime/typeid"
)

// Factory is a parameterless producer of a new Component instance. A
// factory is registered once per component type and called once per
// AddNode, so it must not return a component that has already been built
// and used elsewhere.
type Factory func() (*component.Component, error)

// Registry holds the two mappings that make up a network: componentID →
// Factory, and instance name → the Component built from it. It is an
// explicit struct rather than process-global state, so tests and
// independent networks never share hidden registration state.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]*component.Component

	strict  bool
	logger  *slog.Logger
	metrics *networkMetrics
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics wires the registry's lifecycle operations into a metrics
// registry shared with the rest of the process. A nil metrics registry (the
// default) disables network-level metrics entirely.
func WithMetrics(metrics *networkMetrics) Option {
	return func(r *Registry) { r.metrics = metrics }
}

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]*component.Component),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strict switches AddEdge and AddInitial between their two documented
// behaviors for an unknown instance name: silent no-op (the default) or a
// returned ErrUnknownName. Production callers that want a malformed
// topology to fail loudly rather than silently drop an edge should call
// Strict(true) once, before building the network.
func (r *Registry) Strict(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strict = enabled
}

// RegisterFactory records factory under id. Re-registering an id already
// present replaces the previous factory and logs at Warn rather than
// erroring, since re-registration is a normal pattern for tests that swap
// in a fake factory for an integration one.
func (r *Registry) RegisterFactory(id string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		r.logger.Warn("replacing component factory", "component_id", id)
	}
	r.factories[id] = factory
}

// Factories returns the set of registered component type ids, for
// diagnostics and declarative-config validation.
func (r *Registry) Factories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	return ids
}

// AddNode instantiates the component registered under componentID and
// stores it under name. name must be unused in this registry.
func (r *Registry) AddNode(componentID, name string) (*component.Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	factory, ok := r.factories[componentID]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrUnknownFactory, "Registry", "AddNode",
			fmt.Sprintf("component type %q", componentID))
	}
	if _, exists := r.instances[name]; exists {
		return nil, errors.WrapInvalid(errors.ErrDuplicateName, "Registry", "AddNode",
			fmt.Sprintf("instance %q", name))
	}

	instance, err := factory()
	if err != nil {
		return nil, errors.WrapFatal(err, "Registry", "AddNode",
			fmt.Sprintf("factory for %q failed", componentID))
	}

	r.instances[name] = instance
	r.metrics.recordNode("add")
	r.logger.Debug("node added", "name", name, "component_id", componentID, "instance_id", instance.ID())
	return instance, nil
}

// RemoveNode destroys the named instance by closing its input ports'
// queues, which unblocks any upstream producer currently blocked in Send
// against it with Terminated. It does not call StopProcess; a caller that
// wants the component's own goroutine to exit cleanly first should do that
// itself before removing the node.
func (r *Registry) RemoveNode(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, ok := r.instances[name]
	if !ok {
		return errors.WrapInvalid(errors.ErrUnknownName, "Registry", "RemoveNode", fmt.Sprintf("instance %q", name))
	}

	for i := 0; i < instance.InputCount(); i++ {
		instance.InputPort(i).Close()
	}
	delete(r.instances, name)
	r.metrics.recordNode("remove")
	r.logger.Debug("node removed", "name", name)
	return nil
}

// Lookup returns the named instance, for callers that need to reach a
// component directly (e.g. to call StartProcess individually rather than
// through StartNetwork).
func (r *Registry) Lookup(name string) (*component.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.instances[name]
	return instance, ok
}

// AddEdge resolves srcName/tgtName and wires outIdx's output port to
// inIdx's input port via port.ConnectPorts. An unknown name, a self-loop
// (srcName == tgtName resolving to the same instance), or rebinding a port
// that already participates in an edge are all silent no-ops by default,
// matching port.Connect's own contract — Strict(true) turns all three into
// a returned error instead.
func (r *Registry) AddEdge(srcName string, outIdx uint, tgtName string, inIdx uint) error {
	r.mu.RLock()
	src, srcOK := r.instances[srcName]
	tgt, tgtOK := r.instances[tgtName]
	strict := r.strict
	r.mu.RUnlock()

	if !srcOK || !tgtOK {
		if strict {
			missing := srcName
			if srcOK {
				missing = tgtName
			}
			return errors.WrapInvalid(errors.ErrUnknownName, "Registry", "AddEdge", fmt.Sprintf("instance %q", missing))
		}
		r.logger.Warn("AddEdge skipped: unknown instance name", "src", srcName, "tgt", tgtName)
		return nil
	}

	if int(outIdx) >= src.OutputCount() || int(inIdx) >= tgt.InputCount() {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "Registry", "AddEdge", "port index out of range")
	}

	outPort := src.OutputPort(int(outIdx))
	inPort := tgt.InputPort(int(inIdx))

	if src == tgt || outPort.Connected() || inPort.Connected() {
		reason := errors.ErrDuplicateEdge
		if src == tgt {
			reason = errors.ErrSelfLoop
		}
		if strict {
			return errors.WrapInvalid(reason, "Registry", "AddEdge", fmt.Sprintf("%s[%d] -> %s[%d]", srcName, outIdx, tgtName, inIdx))
		}
		r.logger.Warn("AddEdge skipped", "reason", reason, "src", srcName, "out", outIdx, "tgt", tgtName, "in", inIdx)
		return nil
	}

	if err := port.ConnectPorts(outPort, inPort); err != nil {
		return errors.WrapInvalid(err, "Registry", "AddEdge", fmt.Sprintf("%s[%d] -> %s[%d]", srcName, outIdx, tgtName, inIdx))
	}

	edgeID := uuid.New()
	r.metrics.recordEdge()
	r.logger.Debug("edge added", "edge_id", edgeID, "src", srcName, "out", outIdx, "tgt", tgtName, "in", inIdx)
	return nil
}

// AddInitial injects value into the named component's input port at inIdx,
// for seeding a network with startup messages before StartNetwork. value's
// dynamic type must match the port's declared element type exactly.
func (r *Registry) AddInitial(ctx context.Context, name string, inIdx uint, value any) error {
	r.mu.RLock()
	instance, ok := r.instances[name]
	strict := r.strict
	r.mu.RUnlock()

	if !ok {
		if strict {
			return errors.WrapInvalid(errors.ErrUnknownName, "Registry", "AddInitial", fmt.Sprintf("instance %q", name))
		}
		r.logger.Warn("AddInitial skipped: unknown instance name", "name", name)
		return nil
	}

	if int(inIdx) >= instance.InputCount() {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "Registry", "AddInitial", "port index out of range")
	}

	status := port.SendMessageDynamic(ctx, instance.InputPort(int(inIdx)), value)
	if status != typeid.Okay {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "Registry", "AddInitial",
			fmt.Sprintf("sending initial message to %s[%d]: %s", name, inIdx, status))
	}
	return nil
}

// StartNetwork starts every registered instance's process goroutine through
// an errgroup.Group, so a failing StartProcess call on one instance is
// reported through the group's combined error without skipping the
// remaining instances. There is no ordering guarantee between instances;
// components must tolerate being started before their upstreams.
func (r *Registry) StartNetwork(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, _ := errgroup.WithContext(ctx)
	for name, instance := range r.instances {
		name, instance := name, instance
		g.Go(func() error {
			if err := instance.StartProcess(ctx); err != nil {
				return errors.WrapFatal(err, "Registry", "StartNetwork", fmt.Sprintf("starting %q", name))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	r.metrics.recordNetworkStart(len(r.instances))
	r.logger.Info("network started", "instances", len(r.instances))
	return nil
}

// StopNetwork signals every instance to stop and waits, with ctx bounding
// the total wait, for all of their process goroutines to exit.
func (r *Registry) StopNetwork(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, instance := range r.instances {
		instance.StopProcess()
	}

	g, _ := errgroup.WithContext(ctx)
	for name, instance := range r.instances {
		name, instance := name, instance
		g.Go(func() error {
			if err := instance.Join(ctx); err != nil {
				return errors.WrapTransient(err, "Registry", "StopNetwork", fmt.Sprintf("joining %q", name))
			}
			return nil
		})
	}

	err := g.Wait()
	r.metrics.recordNetworkStop(len(r.instances))
	r.logger.Info("network stopped", "instances", len(r.instances))
	return err
}

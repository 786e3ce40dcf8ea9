// Package runtime assembles components into a running network.
//
// A Registry holds two mappings: component type id to Factory, and
// instance name to the *component.Component built from a factory call.
// Networks are built purely through Go code:
//
//	reg := runtime.NewRegistry()
//	reg.RegisterFactory("doubler", newDoubler)
//	reg.RegisterFactory("sink", newSink)
//
//	if _, err := reg.AddNode("doubler", "d1"); err != nil {
//		// ErrUnknownFactory or ErrDuplicateName
//	}
//	if _, err := reg.AddNode("sink", "s1"); err != nil {
//		// ...
//	}
//	if err := reg.AddEdge("d1", 0, "s1", 0); err != nil {
//		// port-index/type mismatch; in Strict mode also an unknown name,
//		// a self-loop or a duplicate edge
//	}
//
//	ctx := context.Background()
//	if err := reg.StartNetwork(ctx); err != nil {
//		// one or more instances failed to start
//	}
//	defer reg.StopNetwork(ctx)
//
// or declaratively, from a YAML document describing nodes, edges and
// initial messages, validated against a JSON Schema before any node is
// instantiated:
//
//	topo, err := runtime.LoadTopology(yamlBytes)
//	if err != nil {
//		// malformed document or schema rejection
//	}
//	if err := topo.Apply(ctx, reg); err != nil {
//		// unknown component type, unknown instance name (Strict mode), ...
//	}
//
// AddEdge and AddInitial resolve instance names and, by default, silently
// skip an edge or initial message that names an instance the registry does
// not have — matching the reference project's documented behavior for a
// missing component config. Registry.Strict(true) turns that into a
// returned ErrUnknownName for callers that want a malformed topology to
// fail loudly instead.
//
// StartNetwork and StopNetwork drive every instance's process goroutine
// through an errgroup.Group, so one instance failing to start is reported
// through the group's combined error without leaving the others stuck
// mid-startup, and StopNetwork's wait is bounded by the context passed to
// it rather than blocking forever on a wedged component.
package runtime

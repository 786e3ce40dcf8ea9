// Package flowmesh is a small flow-based-programming runtime: components
// exchange typed messages over ports linked by bounded message queues,
// each running concurrently in its own goroutine until the network is
// told to stop.
//
// # Packages
//
// Core FBP model:
//   - typeid: process-stable, comparable type identity for message elements
//   - notify: a per-component bitmask wake channel
//   - queue: the bounded, blocking MessageQueue[T] ring buffer
//   - port: InputPort[T]/OutputPort[T], Connect, and the type-erased Port
//     facade the registry uses to wire edges by name
//   - component: Component and its Builder, the runtime unit that owns a
//     fixed set of ports and runs Initialize once then Process in a loop
//   - runtime: Registry, which instantiates components by factory id,
//     wires edges and initial messages, and starts/stops the network
//
// Ambient stack:
//   - errors: a classified error taxonomy (transient/invalid/fatal) with
//     the sentinel errors the rest of the module wraps
//   - metric: Prometheus-backed metrics for the runtime and for individual
//     components, served over HTTP with optional TLS/mTLS
//   - pkg/security, pkg/tlsutil: shared TLS/mTLS configuration for any
//     component that serves or dials over HTTP
//
// # Building a network
//
//	reg := runtime.NewRegistry()
//	reg.RegisterFactory("doubler", newDoubler)
//	reg.RegisterFactory("printer", newPrinter)
//
//	d, _ := reg.AddNode("doubler", "d1")
//	p, _ := reg.AddNode("printer", "p1")
//	_ = reg.AddEdge("d1", 0, "p1", 0)
//
//	ctx := context.Background()
//	_ = reg.StartNetwork(ctx)
//	defer reg.StopNetwork(ctx)
//
// A component is declared through component.Builder, which needs to exist
// before its ports do, since a port holds a reference to its parent's
// wake channel and running flag:
//
//	func newDoubler() (*component.Component, error) {
//		b := component.NewBuilder("doubler")
//		in := component.AddInput[int](b, "in", 8)
//		out := component.AddOutput[int](b, "out")
//		return b.Build(nil, func(ctx context.Context) error {
//			msg := in.Receive(ctx)
//			if !msg.IsOkay() {
//				return nil
//			}
//			out.Send(msg.Value * 2)
//			return nil
//		}), nil
//	}
//
// Networks can also be assembled from a YAML topology document describing
// nodes, edges, and initial messages; see runtime.LoadTopology.
package flowmesh

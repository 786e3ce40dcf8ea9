// Package component provides the runtime unit of a network: a Component
// with a fixed set of typed ports, an Initialize step, and a Process step
// repeated until the component is stopped.
//
// Components are declared through a Builder rather than constructed
// directly, because a port needs its parent's wake channel and ShouldRun
// flag to exist before the port itself does:
//
//	b := component.NewBuilder("doubler")
//	in := component.AddInput[int](b, "in", 8)
//	out := component.AddOutput[int](b, "out")
//	doubler := b.Build(nil, func(ctx context.Context) error {
//		msg := in.Receive(ctx)
//		if !msg.IsOkay() {
//			return nil
//		}
//		out.Send(msg.Value * 2)
//		return nil
//	})
//
// Build freezes the port set and returns the *Component; StartProcess then
// launches its process goroutine, which runs initFn once and processFn in
// a loop until processFn returns an error, the context passed to
// StartProcess is done, or StopProcess is called. The network that wires
// components together lives in the runtime package, which connects ports
// across components before any of them starts.
package component

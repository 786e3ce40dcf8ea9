package port

import (
	"github.com/flowmesh/runtime/errors"
)

// Connect wires out to in, making in the single consumer of everything out
// sends from this point on. It is the only way an OutputPort acquires a
// queue; before Connect, Send silently discards.
//
// Connect treats each of the following as a silent no-op, leaving out
// unconnected, rather than an error:
//   - a self-loop, where out and in share the same parent host
//   - binding an OutputPort that is already connected (one output, one edge)
//   - binding an InputPort that already has an upstream (one input, one edge)
//
// This mirrors the base runtime's own connect(), which is void-returning and
// simply refuses the bind. Callers that need these conditions reported —
// the network registry's Strict mode, for instance — check Connected() on
// both ports themselves before calling Connect, since Connect has no way to
// tell a deliberate validation pass from routine wiring.
//
// Type safety is structural: Connect is generic over the single T shared by
// out and in, so a mismatched element type is a compile error, not a runtime
// one. The dynamically-typed registry that wires edges by name at the
// port.Port boundary is responsible for checking TypeID() equality itself
// before calling into a type-specific Connect.
func Connect[T any](out *OutputPort[T], in *InputPort[T]) error {
	if out.host == in.host || out.Connected() || in.connected {
		return nil
	}

	out.bind(in.rawQueue())
	in.connected = true
	return nil
}

// connector is implemented by every *OutputPort[T]; it recovers T from the
// candidate input port before delegating to Connect.
type connector interface {
	connectTo(in Port) error
}

func (p *OutputPort[T]) connectTo(in Port) error {
	target, ok := in.(*InputPort[T])
	if !ok {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "port", "ConnectPorts", "input port element type does not match output port")
	}
	return Connect(p, target)
}

// ConnectPorts wires a type-erased output Port to a type-erased input Port.
// It is the dynamic counterpart to Connect, used by the network registry
// when building a graph from named ports without static knowledge of the
// element type; TypeID equality is what makes the type assertion inside
// connectTo succeed.
func ConnectPorts(out, in Port) error {
	if out.Direction() != DirectionOutput {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "port", "ConnectPorts", "left port is not an output port")
	}
	if in.Direction() != DirectionInput {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "port", "ConnectPorts", "right port is not an input port")
	}
	if out.TypeID() != in.TypeID() {
		return errors.WrapInvalid(errors.ErrPortTypeMismatch, "port", "ConnectPorts", "element types differ")
	}
	c, ok := out.(connector)
	if !ok {
		return errors.WrapFatal(errors.ErrPortTypeMismatch, "port", "ConnectPorts", "output port does not implement connector")
	}
	return c.connectTo(in)
}

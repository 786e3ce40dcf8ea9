// Package port provides the typed port facades — InputPort and OutputPort —
// that sit between a Component and the MessageQueue connecting it to its
// peers. InputPort owns and creates its queue; OutputPort starts detached
// and only holds a queue reference after Connect binds it to an InputPort.
package port

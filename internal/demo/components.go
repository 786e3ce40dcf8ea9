// Package demo provides small illustrative component factories for running
// a flowmesh network from the command line: a counter that emits increasing
// integers and a logger that prints whatever it receives. They exist to
// give the flowmesh binary something to wire a topology document against;
// they are not a component catalog and carry no domain logic of their own.
package demo

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowmesh/runtime/component"
	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/runtime"
)

// Register adds the demo component factories to registry under the type
// ids "counter" and "logger". metrics may be nil, in which case the
// factories build components the same way but without anything attached
// to record against.
func Register(registry *runtime.Registry, metrics *metric.Metrics) {
	registry.RegisterFactory("counter", counterFactory(metrics))
	registry.RegisterFactory("logger", loggerFactory(metrics))
}

// counterFactory returns a Factory building a component with a single int
// output port that emits an increasing value once per tick, starting at
// zero.
func counterFactory(metrics *metric.Metrics) runtime.Factory {
	return func() (*component.Component, error) {
		b := component.NewBuilder("counter")
		if metrics != nil {
			b = b.WithMetrics(metrics)
		}
		out := component.AddOutput[int](b, "out")

		next := 0
		c := b.Build(nil, func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
				return nil
			}
			out.Send(next)
			next++
			return nil
		})
		return c, nil
	}
}

// loggerFactory returns a Factory building a component with a single int
// input port that logs every message it receives at Info level and stops
// when the port is terminated.
func loggerFactory(metrics *metric.Metrics) runtime.Factory {
	return func() (*component.Component, error) {
		b := component.NewBuilder("logger")
		if metrics != nil {
			b = b.WithMetrics(metrics)
		}
		in := component.AddInput[int](b, "in", 16)

		c := b.Build(nil, func(ctx context.Context) error {
			msg := in.Receive(ctx)
			if !msg.IsOkay() {
				return nil
			}
			slog.Info("received message", "component", "logger", "value", msg.Value)
			return nil
		})
		return c, nil
	}
}

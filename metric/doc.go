// Package metric provides Prometheus-backed metrics for the runtime and for
// individual components, through a single MetricsRegistry shared across
// both.
//
// # Two kinds of metrics
//
// Core metrics (component lifecycle state, queue depth and capacity,
// message counts, processing duration, errors) are created once by
// NewMetricsRegistry and are always present, whether or not any component
// registers metrics of its own:
//
//	registry := metric.NewMetricsRegistry()
//	core := registry.CoreMetrics()
//	core.RecordQueueDepth("adder", "in", 3)
//	core.RecordMessageSent("adder", "out")
//
// Component-specific metrics are registered against the same registry
// under the component's instance name, so a duplicate metric name across
// two components is caught as a registration conflict rather than a silent
// Prometheus panic:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{
//		Namespace: "flowmesh",
//		Subsystem: "adder",
//		Name:      "overflow_total",
//		Help:      "Total number of additions that overflowed",
//	})
//	if err := registry.RegisterCounter("adder", "overflow_total", counter); err != nil {
//		// duplicate registration, or a name Prometheus itself rejects
//	}
//
// # Serving metrics
//
// Server wraps the registry in an HTTP server using promhttp.HandlerFor,
// with the same optional TLS/mTLS support the rest of the runtime's HTTP
// surfaces use:
//
//	srv := metric.NewServer(9090, "/metrics", registry, security.Config{})
//	go srv.Start()
//	defer srv.Stop()
//
// A nil *Metrics disables metrics without a conditional at every call
// site: every Record method on a nil metrics struct is a no-op. Obtaining
// one still needs a non-nil MetricsRegistry: CoreMetrics on a nil registry
// panics, and a Server built with a nil registry fails in Start.
package metric

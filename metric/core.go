package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the platform-level metrics for the runtime: component
// lifecycle state, per-port queue occupancy, message throughput, and
// errors. Domain-specific components may register their own metrics
// through the same MetricsRegistry; these are the ones the runtime itself
// always exposes.
type Metrics struct {
	ComponentState     *prometheus.GaugeVec
	MessagesSent       *prometheus.CounterVec
	MessagesReceived   *prometheus.CounterVec
	MessagesDiscarded  *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec
	ErrorsTotal        *prometheus.CounterVec

	QueueDepth    *prometheus.GaugeVec
	QueueCapacity *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ComponentState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowmesh",
				Subsystem: "component",
				Name:      "state",
				Help:      "Component lifecycle state (0=building, 1=built, 2=running, 3=stopped)",
			},
			[]string{"component"},
		),

		MessagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "messages",
				Name:      "sent_total",
				Help:      "Total number of messages sent from an output port",
			},
			[]string{"component", "port"},
		),

		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "messages",
				Name:      "received_total",
				Help:      "Total number of messages received on an input port",
			},
			[]string{"component", "port"},
		),

		MessagesDiscarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "messages",
				Name:      "discarded_total",
				Help:      "Total number of messages sent to an unconnected output port and discarded",
			},
			[]string{"component", "port"},
		),

		ProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "flowmesh",
				Subsystem: "processing",
				Name:      "duration_seconds",
				Help:      "Process step duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of classified errors raised by a component",
			},
			[]string{"component", "class"},
		),

		QueueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowmesh",
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Current number of messages buffered in a port's queue",
			},
			[]string{"component", "port"},
		),

		QueueCapacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowmesh",
				Subsystem: "queue",
				Name:      "capacity",
				Help:      "Configured capacity of a port's queue",
			},
			[]string{"component", "port"},
		),
	}
}

// RecordComponentState updates a component's lifecycle state gauge. Nil-safe,
// like every Record* method here, so components built without metrics wired
// in (the default) pay no cost for these calls on their hot path.
func (c *Metrics) RecordComponentState(component string, state int) {
	if c == nil {
		return
	}
	c.ComponentState.WithLabelValues(component).Set(float64(state))
}

// RecordMessageSent increments the sent-message counter for component/port.
func (c *Metrics) RecordMessageSent(component, port string) {
	if c == nil {
		return
	}
	c.MessagesSent.WithLabelValues(component, port).Inc()
}

// RecordMessageReceived increments the received-message counter for component/port.
func (c *Metrics) RecordMessageReceived(component, port string) {
	if c == nil {
		return
	}
	c.MessagesReceived.WithLabelValues(component, port).Inc()
}

// RecordMessageDiscarded increments the discarded-message counter for an
// unconnected output port.
func (c *Metrics) RecordMessageDiscarded(component, port string) {
	if c == nil {
		return
	}
	c.MessagesDiscarded.WithLabelValues(component, port).Inc()
}

// RecordProcessingDuration records how long a Process step took.
func (c *Metrics) RecordProcessingDuration(component string, duration time.Duration) {
	if c == nil {
		return
	}
	c.ProcessingDuration.WithLabelValues(component).Observe(duration.Seconds())
}

// RecordError increments the error counter for component/class.
func (c *Metrics) RecordError(component, class string) {
	if c == nil {
		return
	}
	c.ErrorsTotal.WithLabelValues(component, class).Inc()
}

// RecordQueueDepth sets the current occupancy of a port's queue.
func (c *Metrics) RecordQueueDepth(component, port string, depth int) {
	if c == nil {
		return
	}
	c.QueueDepth.WithLabelValues(component, port).Set(float64(depth))
}

// RecordQueueCapacity sets the configured capacity of a port's queue.
func (c *Metrics) RecordQueueCapacity(component, port string, capacity int) {
	if c == nil {
		return
	}
	c.QueueCapacity.WithLabelValues(component, port).Set(float64(capacity))
}

// Package metrics exports notifier events as Prometheus metrics.
//
//	collector := metrics.NewCollector(metrics.WithNamespace("app"))
//	n := coalesce.New(0, coalesce.WithObserver[int](collector))
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/coalesce"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "coalesce").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for listeners per dispatch.
	// Default: 1, 2, 4 ... 128
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "coalesce",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector is a coalesce.Observer that counts notifier events. Share one
// collector between notifiers; registering two on the same registry panics.
type Collector struct {
	writes               *prometheus.CounterVec
	dispatches           prometheus.Counter
	reverts              prometheus.Counter
	invocations          prometheus.Counter
	panics               prometheus.Counter
	reclaimed            prometheus.Counter
	disposals            prometheus.Counter
	listenersPerDispatch prometheus.Histogram
}

func NewCollector(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Writes that changed a notifier value, by whether they armed a dispatch or were coalesced",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		dispatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Dispatch loops run",
			ConstLabels: config.ConstLabels,
		}),

		reverts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reverts_total",
			Help:        "Dispatches skipped because the value reverted within its window",
			ConstLabels: config.ConstLabels,
		}),

		invocations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_invocations_total",
			Help:        "Listener calls made by dispatches",
			ConstLabels: config.ConstLabels,
		}),

		panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_panics_total",
			Help:        "Listener calls that panicked",
			ConstLabels: config.ConstLabels,
		}),

		reclaimed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reclaimed_listeners_total",
			Help:        "Weak listener registrations dropped after garbage collection",
			ConstLabels: config.ConstLabels,
		}),

		disposals: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "disposals_total",
			Help:        "Notifiers disposed",
			ConstLabels: config.ConstLabels,
		}),

		listenersPerDispatch: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_listeners",
			Help:        "Live listeners in each dispatch snapshot",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (c *Collector) OnEvent(ctx context.Context, event coalesce.Event) {
	switch event.Type {
	case coalesce.EventWriteArmed:
		c.writes.WithLabelValues("armed").Inc()
	case coalesce.EventWriteCoalesced:
		c.writes.WithLabelValues("coalesced").Inc()
	case coalesce.EventDispatchStart:
		c.listenersPerDispatch.Observe(float64(event.Listeners))
	case coalesce.EventDispatchEnd:
		c.dispatches.Inc()
		c.invocations.Add(float64(event.Invoked))
	case coalesce.EventDispatchReverted:
		c.reverts.Inc()
	case coalesce.EventListenerPanic:
		c.panics.Inc()
	case coalesce.EventListenerReclaimed:
		c.reclaimed.Add(float64(event.Listeners))
	case coalesce.EventDisposed:
		c.disposals.Inc()
	}
}

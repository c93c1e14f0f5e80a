package metrics

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of the service in its own registry.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	StoreLoads       *prometheus.CounterVec
	StoreSaves       *prometheus.CounterVec
	StoreSaveSeconds *prometheus.HistogramVec
	StoreQuarantines *prometheus.CounterVec

	Mutations *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoreLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_loads_total",
				Help:      "Data file loads by result",
			},
			[]string{"file", "result"},
		),
		StoreSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_saves_total",
				Help:      "Data file saves by result",
			},
			[]string{"file", "result"},
		),
		StoreSaveSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_save_duration_seconds",
				Help:      "Time spent writing and renaming a data file",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
			},
			[]string{"file"},
		),
		StoreQuarantines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_quarantines_total",
				Help:      "Corrupted data files copied aside",
			},
			[]string{"file"},
		),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_mutations_total",
				Help:      "Applied contact and category mutations by action",
			},
			[]string{"action"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.StoreLoads,
		c.StoreSaves,
		c.StoreSaveSeconds,
		c.StoreQuarantines,
		c.Mutations,
	)
	return c
}

// Registry exposes the registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveLoad(path string, count int, err error) {
	if c == nil {
		return
	}
	c.StoreLoads.WithLabelValues(filepath.Base(path), result(err)).Inc()
}

func (c *Collector) ObserveSave(path string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	file := filepath.Base(path)
	c.StoreSaves.WithLabelValues(file, result(err)).Inc()
	c.StoreSaveSeconds.WithLabelValues(file).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveQuarantine(path string) {
	if c == nil {
		return
	}
	c.StoreQuarantines.WithLabelValues(filepath.Base(path)).Inc()
}

func (c *Collector) RecordMutation(action string) {
	if c == nil {
		return
	}
	c.Mutations.WithLabelValues(action).Inc()
}

func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records outgoing calls to the mess API.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	dropped  prometheus.Counter
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mess_portal",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Outgoing mess API requests by method, route and status class.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mess_portal",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of outgoing mess API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mess_portal",
			Subsystem: "notify",
			Name:      "dropped_total",
			Help:      "Notifications dropped because the queue was full.",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.requests, c.latency, c.dropped)
	}

	return c
}

// ObserveRequest records one call. status 0 means no response was received.
func (c *Collector) ObserveRequest(method string, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}

	c.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) NotificationDropped() {
	if c == nil {
		return
	}
	c.dropped.Inc()
}

func statusClass(status int) string {
	if status <= 0 {
		return "transport_error"
	}
	return strconv.Itoa(status/100) + "xx"
}

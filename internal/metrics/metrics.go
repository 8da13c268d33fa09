// Package metrics counts what happened during one send: candidates
// resolved, connect attempts, bytes written, errors by kind.
//
// Counters live in a private Prometheus registry so they never collide
// with a host process's default registry.  A nil *Collector is a valid
// no-op receiver, so callers never need to nil-check.
package metrics

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/encoding/json"
)

const namespace = "sockyc"

// Collector tracks metrics for a single sockyc run.
type Collector struct {
	registry *prometheus.Registry
	sendID   uuid.UUID
	start    time.Time

	candidates      prometheus.Gauge
	connectAttempts prometheus.Counter
	connectFailures prometheus.Counter
	connections     prometheus.Counter
	bytesSent       prometheus.Counter
	errors          *prometheus.CounterVec

	mu           sync.Mutex
	lastErrorMsg string
}

// New creates a collector with a fresh send ID.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sendID:   uuid.New(),
		start:    time.Now(),
	}

	c.candidates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "resolved_candidates",
		Help:      "Number of IPv4 candidates returned by name resolution.",
	})
	c.connectAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connect_attempts_total",
		Help:      "Number of candidate addresses a connect was attempted to.",
	})
	c.connectFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connect_failures_total",
		Help:      "Number of candidate connects that failed.",
	})
	c.connections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Number of established connections.",
	})
	c.bytesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bytes_sent_total",
		Help:      "Bytes written to the destination, terminator included.",
	})
	c.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Errors by kind.",
	}, []string{"kind"})

	c.registry.MustRegister(
		c.candidates,
		c.connectAttempts,
		c.connectFailures,
		c.connections,
		c.bytesSent,
		c.errors,
	)
	return c
}

// SendID identifies this run in logs and snapshots.
func (c *Collector) SendID() string {
	if c == nil {
		return ""
	}
	return c.sendID.String()
}

// ── Recording ────────────────────────────────────────────────────────

// Resolved records how many candidates resolution produced.
func (c *Collector) Resolved(n int) {
	if c == nil {
		return
	}
	c.candidates.Set(float64(n))
}

// ConnectAttempt records one candidate dial.
func (c *Collector) ConnectAttempt() {
	if c == nil {
		return
	}
	c.connectAttempts.Inc()
}

// ConnectFailed records one failed candidate dial.
func (c *Collector) ConnectFailed() {
	if c == nil {
		return
	}
	c.connectFailures.Inc()
}

// Connected records an established connection.
func (c *Collector) Connected() {
	if c == nil {
		return
	}
	c.connections.Inc()
}

// BytesSent records n bytes written to the network.
func (c *Collector) BytesSent(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesSent.Add(float64(n))
}

// RecordError increments the error counter for kind and stores msg.
func (c *Collector) RecordError(kind, msg string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(kind).Inc()
	c.mu.Lock()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	SendID           string           `json:"send_id"`
	Elapsed          string           `json:"elapsed"`
	Candidates       int64            `json:"resolved_candidates"`
	ConnectAttempts  int64            `json:"connect_attempts"`
	ConnectFailures  int64            `json:"connect_failures"`
	Connections      int64            `json:"connections"`
	BytesSent        int64            `json:"bytes_sent"`
	Errors           map[string]int64 `json:"errors,omitempty"`
	LastErrorMessage string           `json:"last_error_message,omitempty"`
}

// Snapshot gathers the registry into a Snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}

	s := Snapshot{
		SendID:  c.sendID.String(),
		Elapsed: time.Since(c.start).Round(time.Millisecond).String(),
	}

	families, err := c.registry.Gather()
	if err != nil {
		return s
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case namespace + "_resolved_candidates":
				s.Candidates = int64(m.GetGauge().GetValue())
			case namespace + "_connect_attempts_total":
				s.ConnectAttempts = int64(m.GetCounter().GetValue())
			case namespace + "_connect_failures_total":
				s.ConnectFailures = int64(m.GetCounter().GetValue())
			case namespace + "_connections_total":
				s.Connections = int64(m.GetCounter().GetValue())
			case namespace + "_bytes_sent_total":
				s.BytesSent = int64(m.GetCounter().GetValue())
			case namespace + "_errors_total":
				if s.Errors == nil {
					s.Errors = make(map[string]int64)
				}
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "kind" {
						s.Errors[lp.GetValue()] = int64(m.GetCounter().GetValue())
					}
				}
			}
		}
	}

	c.mu.Lock()
	s.LastErrorMessage = c.lastErrorMsg
	c.mu.Unlock()
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}

package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OpMetrics counts registry operations by outcome. Each instance owns its
// registry so independent cores (and tests) never collide on registration.
type OpMetrics struct {
	registry *prometheus.Registry

	Ops       *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewOpMetrics(service string) *OpMetrics {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carrier",
		Subsystem: service,
		Name:      "ops_total",
		Help:      "Total number of registry operations.",
	}, []string{"op", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "carrier",
		Subsystem: service,
		Name:      "op_duration_ms",
		Help:      "Registry operation latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"op"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(ops, latency)
	return &OpMetrics{registry: reg, Ops: ops, LatencyMS: latency}
}

// Observe records one completed operation.
func (m *OpMetrics) Observe(op, status string, durationMS float64) {
	m.Ops.WithLabelValues(op, status).Inc()
	m.LatencyMS.WithLabelValues(op).Observe(durationMS)
}

// Gatherer exposes the underlying registry for scraping or snapshots.
func (m *OpMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Snapshot renders the op counters as a single human-readable line,
// e.g. "accept_order{ok}=2 complete_delivery{missing_proof}=1".
func (m *OpMetrics) Snapshot() string {
	families, err := m.registry.Gather()
	if err != nil {
		return ""
	}
	var parts []string
	for _, fam := range families {
		if !strings.HasSuffix(fam.GetName(), "ops_total") {
			continue
		}
		for _, metric := range fam.GetMetric() {
			var op, status string
			for _, lbl := range metric.GetLabel() {
				switch lbl.GetName() {
				case "op":
					op = lbl.GetValue()
				case "status":
					status = lbl.GetValue()
				}
			}
			parts = append(parts, fmt.Sprintf("%s{%s}=%d", op, status, int64(metric.GetCounter().GetValue())))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func Handler(m *OpMetrics) http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics exports agent activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"browsing-agent/internal/application/port/output"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "browsing_agent"

var _ output.MetricsPort = (*Collector)(nil)

type Collector struct {
	registry *prometheus.Registry

	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	protocolErrors  *prometheus.CounterVec
	captchaRuns     *prometheus.CounterVec
	captchaAttempts prometheus.Histogram
	iterations      prometheus.Counter
}

// NewCollector registers on a private registry so several collectors can
// coexist in one process.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool invocations",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_duration_seconds",
				Help:      "Tool execution duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"tool"},
		),
		protocolErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "protocol_errors_total",
				Help:      "Command protocol violations by kind",
			},
			[]string{"kind"},
		),
		captchaRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "captcha_runs_total",
				Help:      "Captcha solver runs by outcome",
			},
			[]string{"outcome"},
		),
		captchaAttempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "captcha_attempts",
				Help:      "Tile rounds used per captcha run",
				Buckets:   prometheus.LinearBuckets(0, 1, 6),
			},
		),
		iterations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_iterations_total",
				Help:      "Total number of agent loop iterations",
			},
		),
	}
}

func (c *Collector) ObserveTool(tool, outcome string, d time.Duration) {
	c.toolCalls.WithLabelValues(tool, outcome).Inc()
	c.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

func (c *Collector) IncProtocolError(kind string) {
	c.protocolErrors.WithLabelValues(kind).Inc()
}

func (c *Collector) ObserveCaptcha(outcome string, attempts int) {
	c.captchaRuns.WithLabelValues(outcome).Inc()
	c.captchaAttempts.Observe(float64(attempts))
}

func (c *Collector) IncIteration() {
	c.iterations.Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics on addr. Start it with ListenAndServe.
func (c *Collector) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// Nop discards every observation.
type Nop struct{}

var _ output.MetricsPort = Nop{}

func (Nop) ObserveTool(string, string, time.Duration) {}
func (Nop) IncProtocolError(string)                   {}
func (Nop) ObserveCaptcha(string, int)                {}
func (Nop) IncIteration()                             {}

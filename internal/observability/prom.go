package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// Backend gateway
	GatewayDuration *prometheus.HistogramVec
	GatewayErrors   *prometheus.CounterVec

	// CV status watcher
	WatchersActive prometheus.Gauge
	WatchResults   *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hireloop",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hireloop",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "hireloop",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		GatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hireloop",
				Subsystem: "gateway",
				Name:      "call_duration_seconds",
				Help:      "Backend API call latency (logical op, not raw path)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		GatewayErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hireloop",
				Subsystem: "gateway",
				Name:      "errors_total",
				Help:      "Backend API errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		WatchersActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "hireloop",
				Subsystem: "cvwatch",
				Name:      "active",
				Help:      "Current number of running CV status watchers (per process)",
			},
		),
		WatchResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hireloop",
				Subsystem: "cvwatch",
				Name:      "results_total",
				Help:      "Watcher outcomes by terminal state.",
			},
			[]string{"result"}, // result=completed|error|cancelled
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.GatewayDuration, p.GatewayErrors, p.WatchersActive, p.WatchResults)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveGatewayCall records one backend call. class is a coarse error bucket
// ("network", "http_4xx", "http_5xx") and empty on success.
func (p *Prom) ObserveGatewayCall(op, status, class string, elapsed time.Duration) {
	p.GatewayDuration.WithLabelValues(op, status).Observe(elapsed.Seconds())

	if class != "" {
		p.GatewayErrors.WithLabelValues(op, class).Inc()
	}
}

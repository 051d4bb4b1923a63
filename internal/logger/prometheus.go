package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// PrometheusHook counts log statements per level so alarming on error
// bursts works without parsing log files.
type PrometheusHook struct {
	counter *prometheus.CounterVec
}

// NewPrometheusHook registers the log statement counter for the given service.
func NewPrometheusHook(serviceName string) *PrometheusHook {
	return &PrometheusHook{
		counter: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "log_statements_total",
			Help:        "Number of log statements, partitioned by log level.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"level"}),
	}
}

// Run implements the zerolog.Hook interface.
func (ph *PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.Disabled || level == zerolog.NoLevel {
		return
	}

	ph.counter.WithLabelValues(level.String()).Inc()
}

// Package metrics holds the bot's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketbot"

type Metrics struct {
	registry *prometheus.Registry

	// CommandsTotal counts dispatched commands by name and outcome.
	CommandsTotal *prometheus.CounterVec
	// ProviderErrorsTotal counts failed quote lookups by provider.
	ProviderErrorsTotal *prometheus.CounterVec
	AlertsFiredTotal    prometheus.Counter
	NotifyErrorsTotal   prometheus.Counter
	ActiveWatches       prometheus.Gauge
	PollDuration        prometheus.Histogram
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Dispatched chat commands by outcome",
		}, []string{"command", "outcome"}),
		ProviderErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Failed quote lookups by provider",
		}, []string{"provider"}),
		AlertsFiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "Price watches that reached their target",
		}),
		NotifyErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_errors_total",
			Help:      "Alert notifications that could not be delivered",
		}),
		ActiveWatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_watches",
			Help:      "Pending price watches",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of one alert poll tick",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.CommandsTotal,
		m.ProviderErrorsTotal,
		m.AlertsFiredTotal,
		m.NotifyErrorsTotal,
		m.ActiveWatches,
		m.PollDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCommand matches bot.Dispatcher.OnCommand.
func (m *Metrics) ObserveCommand(command, outcome string) {
	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// ObserveProviderError matches quote.Gateway.OnError.
func (m *Metrics) ObserveProviderError(provider string) {
	m.ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

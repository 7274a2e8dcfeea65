package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Fichajes      *prometheus.CounterVec
	Recordatorios *prometheus.CounterVec
	Emails        *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry, so tests can
// build as many instances as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		Fichajes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_fichajes_total",
			Help: "Registros de fichaje por tipo",
		}, []string{"tipo"}),
		Recordatorios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_recordatorios_total",
			Help: "Recordatorios evaluados por tipo y resultado",
		}, []string{"tipo", "resultado"}), // resultado: enviado|duplicado|error
		Emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_emails_total",
			Help: "Emails procesados por el worker",
		}, []string{"resultado"}), // enviado|reintento|aplazado|dlq
	}
	reg.MustRegister(
		m.HTTPRequests, m.HTTPDuration, m.Fichajes, m.Recordatorios, m.Emails,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// The helpers below accept a nil receiver so services can run without metrics.

func (m *Metrics) IncFichaje(tipo string) {
	if m != nil {
		m.Fichajes.WithLabelValues(tipo).Inc()
	}
}

func (m *Metrics) IncRecordatorio(tipo, resultado string) {
	if m != nil {
		m.Recordatorios.WithLabelValues(tipo, resultado).Inc()
	}
}

func (m *Metrics) IncEmail(resultado string) {
	if m != nil {
		m.Emails.WithLabelValues(resultado).Inc()
	}
}

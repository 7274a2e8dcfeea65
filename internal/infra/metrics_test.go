package infra

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.IncFichaje("entrada")
	m.IncFichaje("entrada")
	m.IncRecordatorio("salida", "enviado")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Fichajes.WithLabelValues("entrada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recordatorios.WithLabelValues("salida", "enviado")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncFichaje("entrada")
		m.IncRecordatorio("entrada", "enviado")
		m.IncEmail("enviado")
	})
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.IncEmail("enviado")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "impulsa_emails_total"))
}

package web

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/focuspal/internal/model"
)

func TestNewMetricsSharesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	second.RecordCommand(model.IntentTask)
	second.RecordSiteCheck(true)
	second.RecordRequest("/api/command", 200, 10*time.Millisecond)
	first.RecordCommand(model.IntentTask)

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				byName[family.GetName()] += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				byName[family.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.Equal(t, 2.0, byName["focuspal_commands_total"])
	assert.Equal(t, 1.0, byName["focuspal_site_checks_total"])
	assert.Equal(t, 1.0, byName["focuspal_http_request_duration_seconds"])
}

func TestNewMetricsRejectsConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focuspal",
		Name:      "commands_total",
		Help:      "Assistant commands by resolved intent.",
	}, []string{"kind"}))

	_, err := NewMetrics(reg)
	require.Error(t, err)
}

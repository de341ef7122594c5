package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Joseda-hg/focuspal/internal/model"
)

// Metrics counts assistant commands and HTTP traffic.
type Metrics struct {
	commands        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	siteChecks      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focuspal",
			Name:      "commands_total",
			Help:      "Assistant commands by resolved intent.",
		}, []string{"intent"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "focuspal",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
		siteChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focuspal",
			Name:      "site_checks_total",
			Help:      "Site-blocking checks by outcome.",
		}, []string{"outcome"}),
	}
	if err := register(reg, &m.commands); err != nil {
		return nil, err
	}
	if err := register(reg, &m.requestDuration); err != nil {
		return nil, err
	}
	if err := register(reg, &m.siteChecks); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds *collector to reg. When an identical collector is already
// registered, *collector is swapped for it so recordings reach the registry.
func register[C prometheus.Collector](reg prometheus.Registerer, collector *C) error {
	err := reg.Register(*collector)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			*collector = existing
			return nil
		}
	}
	return fmt.Errorf("register web metric: %w", err)
}

func (m *Metrics) RecordCommand(intent model.Intent) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(string(intent)).Inc()
}

func (m *Metrics) RecordRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, fmt.Sprint(status)).Observe(duration.Seconds())
}

func (m *Metrics) RecordSiteCheck(blocked bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if blocked {
		outcome = "blocked"
	}
	m.siteChecks.WithLabelValues(outcome).Inc()
}

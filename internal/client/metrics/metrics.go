// Package metrics exposes the QR lifecycle as Prometheus collectors. A
// Metrics value is plugged into the manager as an observer.
package metrics

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "labaccess"

const (
	modeOneShot   = "one_shot"
	modeAutoRenew = "auto_renew"
)

type Metrics struct {
	registry *prometheus.Registry

	issued  *prometheus.CounterVec
	renewed prometheus.Counter
	expired prometheus.Counter
	valid   prometheus.Gauge
}

// New registers the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_issued_total",
			Help:      "QR tokens issued, by user type and renewal mode.",
		}, []string{"user_type", "mode"}),
		renewed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_renewed_total",
			Help:      "Automatic QR renewals.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_expired_total",
			Help:      "QR tokens that reached their expiry window.",
		}),
		valid: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "qr_valid",
			Help:      "1 while the displayed QR code is valid.",
		}),
	}
	m.registry.MustRegister(m.issued, m.renewed, m.expired, m.valid)
	return m
}

// Observe implements qr.Observer.
func (m *Metrics) Observe(ev qr.Event, t qr.Token) {
	switch ev {
	case qr.EventIssued:
		m.issued.WithLabelValues(strings.ToLower(string(t.Identity.UserType)), mode(t)).Inc()
	case qr.EventRenewed:
		m.renewed.Inc()
	case qr.EventExpired:
		m.expired.Inc()
	}

	if ev == qr.EventClosed || t.Status() == qr.StatusExpired {
		m.valid.Set(0)
		return
	}
	m.valid.Set(1)
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func mode(t qr.Token) string {
	if t.AutoRenew {
		return modeAutoRenew
	}
	return modeOneShot
}

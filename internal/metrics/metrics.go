// Package metrics provides Prometheus metrics for sudotun relays and
// clients.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sudotun"

// Metrics holds every counter/gauge/histogram a relay or client exposes.
type Metrics struct {
	// Tunnel lifecycle
	TunnelsActive prometheus.Gauge
	TunnelsOpened prometheus.Counter
	TunnelsClosed *prometheus.CounterVec // reason: idle | client_close | upstream_error | server_shutdown

	// Data transfer, by direction (upload|stream)
	BytesSent     *prometheus.CounterVec
	BytesReceived *prometheus.CounterVec
	FramesSent    *prometheus.CounterVec
	FramesReceived *prometheus.CounterVec

	// Protocol errors, by kind (malformed|crypto|transport|resource_exhausted|protocol_state)
	HandlerErrors *prometheus.CounterVec

	// Poll transport
	UploadLatency prometheus.Histogram
	StreamPollLatency prometheus.Histogram
	RateLimitRejections prometheus.Counter

	// SOCKS5 front-end
	SOCKS5Connections      prometheus.Gauge
	SOCKS5ConnectionsTotal prometheus.Counter
	SOCKS5AuthFailures     prometheus.Counter
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the process-wide default metrics instance, registered
// against prometheus.DefaultRegisterer.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}

// NewMetrics creates a new Metrics instance registered against the
// default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new Metrics instance against a custom
// registry, so tests can avoid colliding with the global one.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TunnelsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tunnels_active",
			Help:      "Number of currently open tunnels",
		}),
		TunnelsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tunnels_opened_total",
			Help:      "Total number of tunnels opened",
		}),
		TunnelsClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tunnels_closed_total",
			Help:      "Total tunnels closed, by reason",
		}, []string{"reason"}),

		BytesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Total plaintext bytes sent, by direction",
		}, []string{"direction"}),
		BytesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total plaintext bytes received, by direction",
		}, []string{"direction"}),
		FramesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Total masked frames sent, by direction",
		}, []string{"direction"}),
		FramesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Total masked frames received, by direction",
		}, []string{"direction"}),

		HandlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_errors_total",
			Help:      "Total poll-transport handler errors, by kind",
		}, []string{"kind"}),

		UploadLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_latency_seconds",
			Help:      "Histogram of /api/v1/upload request latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		StreamPollLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_poll_latency_seconds",
			Help:      "Histogram of /stream long-poll round latency",
			Buckets:   []float64{.01, .1, .5, 1, 2.5, 5, 10, 25, 30},
		}),
		RateLimitRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Total requests rejected by the rate limiter",
		}),

		SOCKS5Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "socks5_connections_active",
			Help:      "Number of active local SOCKS5 connections",
		}),
		SOCKS5ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "socks5_connections_total",
			Help:      "Total SOCKS5 connections accepted",
		}),
		SOCKS5AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "socks5_auth_failures_total",
			Help:      "Total SOCKS5 authentication failures",
		}),
	}
}

// RecordTunnelOpen records a tunnel being established.
func (m *Metrics) RecordTunnelOpen() {
	m.TunnelsActive.Inc()
	m.TunnelsOpened.Inc()
}

// RecordTunnelClose records a tunnel being torn down.
func (m *Metrics) RecordTunnelClose(reason string) {
	m.TunnelsActive.Dec()
	m.TunnelsClosed.WithLabelValues(reason).Inc()
}

// RecordBytesSent records plaintext bytes sent in one direction.
func (m *Metrics) RecordBytesSent(direction string, n int) {
	m.BytesSent.WithLabelValues(direction).Add(float64(n))
}

// RecordBytesReceived records plaintext bytes received in one direction.
func (m *Metrics) RecordBytesReceived(direction string, n int) {
	m.BytesReceived.WithLabelValues(direction).Add(float64(n))
}

// RecordFrameSent records one masked frame sent in one direction.
func (m *Metrics) RecordFrameSent(direction string) {
	m.FramesSent.WithLabelValues(direction).Inc()
}

// RecordFrameReceived records one masked frame received in one direction.
func (m *Metrics) RecordFrameReceived(direction string) {
	m.FramesReceived.WithLabelValues(direction).Inc()
}

// RecordHandlerError records a poll-transport handler error by kind.
func (m *Metrics) RecordHandlerError(kind string) {
	m.HandlerErrors.WithLabelValues(kind).Inc()
}

// RecordUploadLatency records one /api/v1/upload call's latency.
func (m *Metrics) RecordUploadLatency(seconds float64) {
	m.UploadLatency.Observe(seconds)
}

// RecordStreamPollLatency records one /stream long-poll round's latency.
func (m *Metrics) RecordStreamPollLatency(seconds float64) {
	m.StreamPollLatency.Observe(seconds)
}

// RecordRateLimitRejection records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitRejection() {
	m.RateLimitRejections.Inc()
}

// RecordSOCKS5Connect records a new local SOCKS5 connection.
func (m *Metrics) RecordSOCKS5Connect() {
	m.SOCKS5Connections.Inc()
	m.SOCKS5ConnectionsTotal.Inc()
}

// RecordSOCKS5Disconnect records a local SOCKS5 connection closing.
func (m *Metrics) RecordSOCKS5Disconnect() {
	m.SOCKS5Connections.Dec()
}

// RecordSOCKS5AuthFailure records a failed SOCKS5 authentication attempt.
func (m *Metrics) RecordSOCKS5AuthFailure() {
	m.SOCKS5AuthFailures.Inc()
}

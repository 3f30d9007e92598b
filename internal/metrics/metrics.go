// Package metrics exposes shell activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deskshell"

// Metrics holds the shell's collectors. It implements window.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	WindowsOpen   prometheus.Gauge
	WindowsOpened *prometheus.CounterVec
	WindowsClosed *prometheus.CounterVec
	FocusChanges  prometheus.Counter
	CloseVetoes   prometheus.Counter
	Snaps         *prometheus.CounterVec
	DesktopIcons  prometheus.Gauge
	IPCRequests   *prometheus.CounterVec
	IPCDuration   *prometheus.HistogramVec
	ConfigReloads *prometheus.CounterVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		WindowsOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "windows_open",
			Help:      "Number of open windows",
		}),
		WindowsOpened: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_opened_total",
			Help:      "Windows opened, by component",
		}, []string{"component"}),
		WindowsClosed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_closed_total",
			Help:      "Windows closed, by component",
		}, []string{"component"}),
		FocusChanges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_changes_total",
			Help:      "Focus and cycle operations that changed the active window",
		}),
		CloseVetoes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "close_vetoes_total",
			Help:      "Close requests refused by a close guard",
		}),
		Snaps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snaps_total",
			Help:      "Windows snapped, by zone",
		}, []string{"zone"}),
		DesktopIcons: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "desktop_icons",
			Help:      "Number of desktop icons",
		}),
		IPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ipc",
			Name:      "requests_total",
			Help:      "IPC requests, by command and status",
		}, []string{"command", "status"}),
		IPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ipc",
			Name:      "request_duration_seconds",
			Help:      "IPC request handling time",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"command"}),
		ConfigReloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Config reloads, by result",
		}, []string{"result"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) WindowOpened(component string) {
	m.WindowsOpened.WithLabelValues(component).Inc()
	m.WindowsOpen.Inc()
}

func (m *Metrics) WindowClosed(component string) {
	m.WindowsClosed.WithLabelValues(component).Inc()
	m.WindowsOpen.Dec()
}

func (m *Metrics) WindowFocused() { m.FocusChanges.Inc() }

func (m *Metrics) CloseVetoed() { m.CloseVetoes.Inc() }

func (m *Metrics) WindowSnapped(zone string) { m.Snaps.WithLabelValues(zone).Inc() }

// ObserveIPC records one handled IPC request.
func (m *Metrics) ObserveIPC(command, status string, seconds float64) {
	m.IPCRequests.WithLabelValues(command, status).Inc()
	m.IPCDuration.WithLabelValues(command).Observe(seconds)
}

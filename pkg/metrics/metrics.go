package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records operational counters for lifecycle and batch operations.
type Metrics struct {
	transitions *prometheus.CounterVec
	importRows  *prometheus.CounterVec
	qrBatches   *prometheus.CounterVec
	alertsGauge *prometheus.GaugeVec
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transitions_total",
		Help: "Lifecycle transitions applied, by transaction type.",
	}, []string{"type"})
	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_import_rows_total",
		Help: "CSV import rows, by outcome.",
	}, []string{"outcome"})
	qrBatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_batch_items_total",
		Help: "QR batch export items, by outcome.",
	}, []string{"outcome"})
	alertsGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "active_alerts",
		Help: "Currently derived alerts, by severity.",
	}, []string{"severity"})
	reg.MustRegister(transitions, importRows, qrBatches, alertsGauge)
	return &Metrics{
		transitions: transitions,
		importRows:  importRows,
		qrBatches:   qrBatches,
		alertsGauge: alertsGauge,
	}
}

// IncTransition counts one applied lifecycle transition.
func (m *Metrics) IncTransition(txType string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(txType)).Inc()
}

// AddImportRows counts imported rows for the given outcome.
func (m *Metrics) AddImportRows(outcome string, n int) {
	if m == nil || m.importRows == nil {
		return
	}
	m.importRows.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

// AddQRItems counts QR batch items for the given outcome.
func (m *Metrics) AddQRItems(outcome string, n int) {
	if m == nil || m.qrBatches == nil {
		return
	}
	m.qrBatches.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

// SetActiveAlerts records the size of the derived alert set per severity.
func (m *Metrics) SetActiveAlerts(severity string, n int) {
	if m == nil || m.alertsGauge == nil {
		return
	}
	m.alertsGauge.WithLabelValues(normalizeLabel(severity)).Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type RightsMetrics struct {
	operations     *prometheus.CounterVec
	licensesIssued prometheus.Counter
	currentHeight  prometheus.Gauge
}

var (
	rightsOnce     sync.Once
	rightsRegistry *RightsMetrics
)

func Rights() *RightsMetrics {
	rightsOnce.Do(func() {
		rightsRegistry = &RightsMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "rights_operations_total",
				Help: "Count of ledger operations by name and result.",
			}, []string{"op", "result"}),
			licensesIssued: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "rights_licenses_issued_total",
				Help: "Total number of usage licenses issued.",
			}),
			currentHeight: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "rights_current_height",
				Help: "Externally supplied block height observed by the ledger.",
			}),
		}
		prometheus.MustRegister(
			rightsRegistry.operations,
			rightsRegistry.licensesIssued,
			rightsRegistry.currentHeight,
		)
	})
	return rightsRegistry
}

// ObserveOperation records the outcome of one ledger call.
func (m *RightsMetrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

// LicenseIssued bumps the issuance counter.
func (m *RightsMetrics) LicenseIssued() {
	if m == nil {
		return
	}
	m.licensesIssued.Inc()
}

// SetHeight publishes the most recently observed height.
func (m *RightsMetrics) SetHeight(height uint64) {
	if m == nil {
		return
	}
	m.currentHeight.Set(float64(height))
}

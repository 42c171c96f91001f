package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated       prometheus.Counter
	AssetsAttached     prometheus.Counter
	WorkAreasGenerated prometheus.Counter
	WorkItemsGenerated prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cbm_users_created_total",
			Help: "Total number of users registered in the system",
		}),
		AssetsAttached: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cbm_assets_attached_total",
			Help: "Total number of asset instances attached to locations",
		}),
		WorkAreasGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cbm_work_areas_generated_total",
			Help: "Total number of work areas created by template expansion",
		}),
		WorkItemsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cbm_work_items_generated_total",
			Help: "Total number of work items created by template expansion",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cbm_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveExpansion records the output size of one template expansion.
func (m *Metrics) ObserveExpansion(areas, items int) {
	if m == nil {
		return
	}
	m.WorkAreasGenerated.Add(float64(areas))
	m.WorkItemsGenerated.Add(float64(items))
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementAssetsAttached increments the assets attached counter by 1.
func (m *Metrics) IncrementAssetsAttached() {
	if m == nil {
		return
	}
	m.AssetsAttached.Inc()
}

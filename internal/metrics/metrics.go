package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query status label values.
const (
	StatusSuccess    = "success"
	StatusFailure    = "failure"
	StatusOutOfRange = "out_of_range"
	StatusBadRequest = "bad_request"
)

type Metrics struct {
	PointQueries  *prometheus.CounterVec
	QuerySeconds  *prometheus.HistogramVec
	PointLayers   *prometheus.HistogramVec
	SitesProfiled *prometheus.CounterVec
	ActiveWorkers prometheus.Gauge
	ModelLoadTime prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PointQueries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "crust_point_queries_total",
			Help: "Total number of point queries against the crust model.",
		}, []string{"source", "status"}),
		QuerySeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crust_point_query_duration_seconds",
			Help:    "Duration of point queries, including response encoding.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"source"}),
		SitesProfiled: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "crust_sites_profiled_total",
			Help: "Total number of sites processed by the profiling worker.",
		}, []string{"status"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "crust_profiler_active_workers",
			Help: "Current number of active workers processing sites.",
		}),
		ModelLoadTime: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "crust_model_load_seconds",
			Help: "Time spent loading the crust model data files at startup.",
		}),
		PointLayers: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crust_point_layers",
			Help:    "Number of layers returned per point query.",
			Buckets: prometheus.LinearBuckets(1, 1, 9),
		}, []string{"source"}),
	}
}

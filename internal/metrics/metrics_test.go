package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/crust1/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.PointQueries.WithLabelValues("http", metrics.StatusSuccess).Inc()
	m.PointQueries.WithLabelValues("http", metrics.StatusOutOfRange).Add(2)
	m.SitesProfiled.WithLabelValues(metrics.StatusFailure).Inc()
	m.ModelLoadTime.Set(1.5)

	assert.InDelta(t, 1, testutil.ToFloat64(m.PointQueries.WithLabelValues("http", metrics.StatusSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PointQueries.WithLabelValues("http", metrics.StatusOutOfRange)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SitesProfiled), 0)
	assert.InDelta(t, 1.5, testutil.ToFloat64(m.ModelLoadTime), 0)

	count, err := testutil.GatherAndCount(reg, "crust_point_queries_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "collectors must not register twice")
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	m := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		m[mf.GetName()] = mf
	}
	return m
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	require.True(t, Enabled())

	count := Counter("units_count")
	countVec := CounterVec("faults_count", []string{"kind"})
	gauge := Gauge("running")
	gaugeVec := GaugeVec("height", []string{"node"})
	hist := Histogram("height_duration_ms", BucketHeightMs)

	// same meter on lookup by name
	assert.Same(t, count, Counter("units_count"))

	count.Add(3)
	for i := range 4 {
		countVec.AddWithLabel(1, map[string]string{"kind": strconv.Itoa(i % 2)})
	}
	gauge.Add(5)
	gauge.Add(-2)
	gaugeVec.SetWithLabel(7, map[string]string{"node": "0"})
	gaugeVec.SetWithLabel(9, map[string]string{"node": "0"})
	gaugeVec.AddWithLabel(1, map[string]string{"node": "1"})
	hist.Observe(10)
	hist.Observe(20)

	m := gather(t)
	assert.Equal(t, float64(3), m["bftharness_units_count"].Metric[0].GetCounter().GetValue())
	assert.Len(t, m["bftharness_faults_count"].Metric, 2)
	assert.Equal(t, float64(3), m["bftharness_running"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(9), m["bftharness_height"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(1), m["bftharness_height"].Metric[1].GetGauge().GetValue())
	assert.Equal(t, float64(30), m["bftharness_height_duration_ms"].Metric[0].GetHistogram().GetSampleSum())

	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	parser := expfmt.TextParser{}
	scraped, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, float64(3), scraped["bftharness_units_count"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, uint64(2), scraped["bftharness_height_duration_ms"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopMetrics struct{}

func defaultNoopMetrics() Metrics { return &noopMetrics{} }

func (*noopMetrics) GetOrCreateCountMeter(string) CountMeter                  { return noopMetric }
func (*noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter  { return noopMetric }
func (*noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter                  { return noopMetric }
func (*noopMetrics) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter  { return noopMetric }
func (*noopMetrics) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return noopMetric }
func (*noopMetrics) GetOrCreateHandler() http.Handler                         { return nil }

var noopMetric = &noopMeters{}

type noopMeters struct{}

func (*noopMeters) Add(int64)                             {}
func (*noopMeters) Set(int64)                             {}
func (*noopMeters) Observe(int64)                         {}
func (*noopMeters) AddWithLabel(int64, map[string]string) {}
func (*noopMeters) SetWithLabel(int64, map[string]string) {}

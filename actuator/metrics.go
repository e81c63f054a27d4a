// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actuator

import (
	"github.com/vechain/bftharness/metrics"
)

var (
	metricUnits          = metrics.LazyLoadCounterVec("actuator_units_count", []string{"unit"})
	metricFaults         = metrics.LazyLoadCounterVec("actuator_faults_count", []string{"kind"})
	metricVotes          = metrics.LazyLoadCounterVec("actuator_votes_count", []string{"type", "source"})
	metricHeight         = metrics.LazyLoadGaugeVec("actuator_height", []string{"node"})
	metricRound          = metrics.LazyLoadGaugeVec("actuator_round", []string{"node"})
	metricHeightDuration = metrics.LazyLoadHistogram("actuator_height_duration_ms", metrics.BucketHeightMs)
)

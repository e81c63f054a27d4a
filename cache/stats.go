// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts lookups against a collector window.
// A miss means the requested height or round had already been evicted or never recorded.
type Stats struct {
	hit, miss atomic.Int64
	flag      atomic.Int32
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Record records a hit when found, otherwise a miss.
func (cs *Stats) Record(found bool) {
	if found {
		cs.Hit()
	} else {
		cs.Miss()
	}
}

// HitRate returns hits / lookups, 0 when nothing was looked up.
func (cs *Stats) HitRate() float64 {
	hit := cs.hit.Load()
	lookups := hit + cs.miss.Load()
	if lookups == 0 {
		return 0
	}
	return float64(hit) / float64(lookups)
}

// Stats returns the number of hits and misses and whether
// the hit rate changed (in permille) since the last call.
func (cs *Stats) Stats() (bool, int64, int64) {
	hit := cs.hit.Load()
	miss := cs.miss.Load()
	flag := int32(cs.HitRate() * 1000)
	return cs.flag.Swap(flag) != flag, hit, miss
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"github.com/vechain/bftharness/cache"
	"github.com/vechain/bftharness/message"
)

// VoteCacheSize is the number of heights, and rounds per height, a VoteCache retains.
const VoteCacheSize = 16

// StepCollector holds the vote sets of one round, by step.
type StepCollector struct {
	steps map[message.VoteType]*VoteSet
}

func newStepCollector() *StepCollector {
	return &StepCollector{steps: make(map[message.VoteType]*VoteSet, 2)}
}

func (sc *StepCollector) add(vote *message.Vote) bool {
	vs, ok := sc.steps[vote.Type]
	if !ok {
		vs = NewVoteSet()
		sc.steps[vote.Type] = vs
	}
	return vs.Add(vote.Voter, vote.Proposal)
}

// VoteSet returns the vote set of the step, or nil.
func (sc *StepCollector) VoteSet(typ message.VoteType) *VoteSet {
	return sc.steps[typ]
}

// RoundCollector holds the step collectors of one height, by round.
type RoundCollector struct {
	rounds *cache.LRU[uint64, *StepCollector]
}

func newRoundCollector() *RoundCollector {
	return &RoundCollector{rounds: cache.NewLRU[uint64, *StepCollector](VoteCacheSize, nil)}
}

func (rc *RoundCollector) add(vote *message.Vote) bool {
	return rc.rounds.GetOrAdd(vote.Round, newStepCollector).add(vote)
}

// Round returns the step collector of the round, or nil.
func (rc *RoundCollector) Round(round uint64) *StepCollector {
	sc, _ := rc.rounds.Get(round)
	return sc
}

// VoteCache collects votes by height, round and step.
// Old heights and rounds are evicted in LRU order.
type VoteCache struct {
	heights      *cache.LRU[uint64, *RoundCollector]
	prevoteCount map[uint64]int
	stats        cache.Stats
}

// NewVoteCache creates an empty vote cache.
func NewVoteCache() *VoteCache {
	return &VoteCache{
		heights:      cache.NewLRU[uint64, *RoundCollector](VoteCacheSize, nil),
		prevoteCount: make(map[uint64]int),
	}
}

// Add inserts a vote. It returns false if the voter already voted in the slot.
func (vc *VoteCache) Add(vote *message.Vote) bool {
	if !vc.heights.GetOrAdd(vote.Height, newRoundCollector).add(vote) {
		return false
	}
	if vote.Type == message.Prevote {
		vc.prevoteCount[vote.Round]++
	}
	return true
}

// VoteSet returns the vote set of (height, round, typ), or nil if no vote was observed.
func (vc *VoteCache) VoteSet(height, round uint64, typ message.VoteType) *VoteSet {
	var vs *VoteSet
	if rc, ok := vc.heights.Get(height); ok {
		if sc := rc.Round(round); sc != nil {
			vs = sc.VoteSet(typ)
		}
	}
	vc.stats.Record(vs != nil)
	return vs
}

// Height returns the round collector of the height, or nil.
func (vc *VoteCache) Height(height uint64) *RoundCollector {
	rc, _ := vc.heights.Get(height)
	return rc
}

// PrevoteCount returns the number of prevotes accepted for round since the last clear.
func (vc *VoteCache) PrevoteCount(round uint64) int {
	return vc.prevoteCount[round]
}

// ClearPrevoteCount resets the per-round prevote counters, at a new height.
func (vc *VoteCache) ClearPrevoteCount() {
	vc.prevoteCount = make(map[uint64]int)
}

// Stats returns the lookup statistics.
func (vc *VoteCache) Stats() *cache.Stats {
	return &vc.stats
}

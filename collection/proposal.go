// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"github.com/vechain/bftharness/cache"
	"github.com/vechain/bftharness/message"
)

// ProposalCacheSize is the number of heights a ProposalCollector retains.
const ProposalCacheSize = 20

// ProposalCollector stores at most one proposal per (height, round).
type ProposalCollector struct {
	heights *cache.LRU[uint64, map[uint64]*message.Proposal]
}

// NewProposalCollector creates an empty collector.
func NewProposalCollector() *ProposalCollector {
	return &ProposalCollector{
		heights: cache.NewLRU[uint64, map[uint64]*message.Proposal](ProposalCacheSize, nil),
	}
}

// Add stores the proposal. It returns false if the round already has one.
func (pc *ProposalCollector) Add(p *message.Proposal) bool {
	rounds := pc.heights.GetOrAdd(p.Height, func() map[uint64]*message.Proposal {
		return make(map[uint64]*message.Proposal)
	})
	if _, ok := rounds[p.Round]; ok {
		return false
	}
	rounds[p.Round] = p
	return true
}

// Proposal returns the proposal of (height, round), or nil.
func (pc *ProposalCollector) Proposal(height, round uint64) *message.Proposal {
	if rounds, ok := pc.heights.Get(height); ok {
		return rounds[round]
	}
	return nil
}

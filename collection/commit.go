// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"github.com/vechain/bftharness/cache"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/message"
)

// CommitCacheSize is the number of heights a CommitCollector retains.
const CommitCacheSize = 20

type heightCommits struct {
	result message.Value
	nodes  map[int]struct{}
}

// CommitCollector checks the commits of one height agree and come once per participant.
type CommitCollector struct {
	participants  int
	checkProposal bool
	heights       *cache.LRU[uint64, *heightCommits]
	proposals     *cache.LRU[uint64, message.Value]
}

// NewCommitCollector creates a collector for participant ids [0, participants).
// With checkProposal set, commits are checked against the value registered
// by SetProposal for their height.
func NewCommitCollector(participants int, checkProposal bool) *CommitCollector {
	return &CommitCollector{
		participants:  participants,
		checkProposal: checkProposal,
		heights:       cache.NewLRU[uint64, *heightCommits](CommitCacheSize, nil),
		proposals:     cache.NewLRU[uint64, message.Value](CommitCacheSize, nil),
	}
}

// SetProposal registers the value the height is expected to commit.
// A later call for the same height replaces it.
func (cc *CommitCollector) SetProposal(height uint64, value message.Value) {
	cc.proposals.Add(height, value.Clone())
}

// Add records the commit, or returns the verdict it breaks.
func (cc *CommitCollector) Add(c *message.Commit) error {
	if c.Node < 0 || c.Node >= cc.participants {
		return fault.New(fault.MultipleCommit, c.Height, 0).WithValues(nil, c.Result)
	}

	hc, ok := cc.heights.Get(c.Height)
	if ok {
		if _, dup := hc.nodes[c.Node]; dup {
			return fault.New(fault.MultipleCommit, c.Height, 0).WithValues(hc.result, c.Result)
		}
		if !hc.result.Equal(c.Result) {
			return fault.New(fault.CommitDiff, c.Height, 0).WithValues(hc.result, c.Result)
		}
	}

	if cc.checkProposal {
		proposal, ok := cc.proposals.Get(c.Height)
		if !ok {
			return fault.New(fault.CommitInvalid, c.Height, 0).WithValues(nil, c.Result)
		}
		if !proposal.Equal(c.Result) {
			return fault.New(fault.CommitIncorrect, c.Height, 0).WithValues(proposal, c.Result)
		}
	}

	if hc == nil {
		hc = &heightCommits{
			result: c.Result.Clone(),
			nodes:  make(map[int]struct{}, cc.participants),
		}
		cc.heights.Add(c.Height, hc)
	}
	hc.nodes[c.Node] = struct{}{}
	return nil
}

// Result returns the canonical commit result of the height.
func (cc *CommitCollector) Result(height uint64) (message.Value, bool) {
	if hc, ok := cc.heights.Get(height); ok {
		return hc.result, true
	}
	return nil, false
}

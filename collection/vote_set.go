// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"bytes"
	"sort"

	"github.com/vechain/bftharness/message"
)

// VoteSet tracks the votes of one (height, round, step) slot.
// The nil value is tallied like any other value.
type VoteSet struct {
	votes  map[message.Address]message.Value
	counts map[string]int
	values map[string]message.Value
	total  int
}

// NewVoteSet creates an empty vote set.
func NewVoteSet() *VoteSet {
	return &VoteSet{
		votes:  make(map[message.Address]message.Value),
		counts: make(map[string]int),
		values: make(map[string]message.Value),
	}
}

// Add records the voter's value. It returns false, leaving the tally
// unchanged, if the voter has already voted in this slot.
func (vs *VoteSet) Add(voter message.Address, value message.Value) bool {
	if _, ok := vs.votes[voter]; ok {
		return false
	}
	value = value.Clone()
	key := value.Key()

	vs.votes[voter] = value
	vs.counts[key]++
	vs.values[key] = value
	vs.total++
	return true
}

// Vote returns the value the voter chose.
func (vs *VoteSet) Vote(voter message.Address) (message.Value, bool) {
	v, ok := vs.votes[voter]
	return v, ok
}

// Count returns the number of votes for value.
func (vs *VoteSet) Count(value message.Value) int {
	return vs.counts[value.Key()]
}

// Total returns the number of voters.
func (vs *VoteSet) Total() int {
	return vs.total
}

// Values returns the distinct values voted, most voted first.
func (vs *VoteSet) Values() []message.Value {
	keys := make([]string, 0, len(vs.counts))
	for k := range vs.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if vs.counts[keys[i]] != vs.counts[keys[j]] {
			return vs.counts[keys[i]] > vs.counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	values := make([]message.Value, 0, len(keys))
	for _, k := range keys {
		values = append(values, vs.values[k])
	}
	return values
}

// Majority returns the value voted by a supermajority of n authorities.
// At most one value can satisfy it.
func (vs *VoteSet) Majority(n int) (message.Value, bool) {
	for k, c := range vs.counts {
		if IsAboveThreshold(c, n) {
			return vs.values[k], true
		}
	}
	return nil, false
}

// ExtractPoLC returns the votes for value, as the evidence justifying it.
// Votes are ordered by voter.
func (vs *VoteSet) ExtractPoLC(height, round uint64, typ message.VoteType, value message.Value) []message.Vote {
	polc := make([]message.Vote, 0, vs.Count(value))
	for voter, v := range vs.votes {
		if !v.Equal(value) {
			continue
		}
		polc = append(polc, message.Vote{
			Height:   height,
			Round:    round,
			Type:     typ,
			Proposal: v,
			Voter:    voter,
		})
	}
	sort.Slice(polc, func(i, j int) bool {
		return bytes.Compare(polc[i].Voter[:], polc[j].Voter[:]) < 0
	})
	return polc
}

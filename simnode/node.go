// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package simnode is an in-process honest node for the harness to drive. It
// follows the Tendermint rules: lock and precommit on a polka, unlock on a
// nil polka, commit on a precommit quorum.
//
// Votes are produced lazily: Receive returns the node's prevote of the
// current round, then its precommit, computed from the votes delivered so far.
package simnode

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/collection"
	"github.com/vechain/bftharness/message"
)

// ErrIdle is returned by Receive when the node has voted both steps of the round.
var ErrIdle = errors.New("no pending vote")

// ErrStopped is returned by Receive after Stop.
var ErrStopped = errors.New("node stopped")

type step uint8

const (
	stepPrevote step = iota
	stepPrecommit
	stepDone
)

// Node is an honest node occupying authority seat 0.
type Node struct {
	mu          sync.Mutex
	authorities []message.Address
	logger      log.Logger

	height    uint64
	round     uint64
	step      step
	locked    bool
	lockRound uint64
	lockValue message.Value
	proposals map[uint64]message.Value // round -> value of the current height
	votes     *collection.VoteCache
	commit    *message.Commit
	stopped   bool
}

// New creates a node for the authority list.
func New(authorities []message.Address) *Node {
	n := &Node{
		authorities: authorities,
		logger:      log.New("pkg", "simnode"),
	}
	n.reset(0)
	return n
}

func (n *Node) reset(height uint64) {
	n.height = height
	n.round = 0
	n.step = stepPrevote
	n.locked = false
	n.lockRound = 0
	n.lockValue = nil
	n.proposals = make(map[uint64]message.Value)
	n.votes = collection.NewVoteCache()
	n.commit = nil
}

func (n *Node) self() message.Address {
	return n.authorities[0]
}

// enterRound moves to a later round of the current height.
func (n *Node) enterRound(round uint64) {
	if round > n.round {
		n.round = round
		n.step = stepPrevote
	}
}

// Send implements actuator.Support.
func (n *Node) Send(msg message.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch m := msg.(type) {
	case *message.Status:
		if len(m.Authorities) > 0 {
			n.authorities = m.Authorities
		}
		if m.Height != n.height || n.commit != nil {
			n.reset(m.Height)
		}
	case *message.Feed:
		if m.Height != n.height {
			return
		}
		n.enterRound(m.Round)
		value := m.Proposal
		if n.locked {
			value = n.lockValue
		}
		n.proposals[m.Round] = value.Clone()
	case *message.Proposal:
		if m.Height != n.height {
			return
		}
		n.enterRound(m.Round)
		if _, ok := n.proposals[m.Round]; !ok {
			n.proposals[m.Round] = m.Content.Clone()
		}
	case *message.Vote:
		if m.Height != n.height {
			return
		}
		n.addVote(m)
	}
}

func (n *Node) addVote(v *message.Vote) {
	if !n.votes.Add(v) || v.Type != message.Precommit || n.commit != nil {
		return
	}
	vs := n.votes.VoteSet(v.Height, v.Round, message.Precommit)
	if value, ok := vs.Majority(len(n.authorities)); ok && !value.IsNil() {
		n.commit = &message.Commit{Node: 0, Height: n.height, Result: value.Clone()}
		n.logger.Debug("committed", "height", n.height, "round", v.Round, "value", value)
	}
}

// Receive implements actuator.Support.
func (n *Node) Receive(ctx context.Context) (message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stopped {
		return nil, ErrStopped
	}

	var vote *message.Vote
	switch n.step {
	case stepPrevote:
		vote = n.vote(message.Prevote, n.prevoteValue())
	case stepPrecommit:
		vote = n.vote(message.Precommit, n.precommitValue())
	default:
		return nil, ErrIdle
	}
	n.step++
	n.addVote(vote)
	return vote, nil
}

func (n *Node) vote(typ message.VoteType, value message.Value) *message.Vote {
	return &message.Vote{
		Height:   n.height,
		Round:    n.round,
		Type:     typ,
		Proposal: value,
		Voter:    n.self(),
	}
}

func (n *Node) prevoteValue() message.Value {
	if n.locked {
		return n.lockValue.Clone()
	}
	return n.proposals[n.round].Clone()
}

func (n *Node) precommitValue() message.Value {
	vs := n.votes.VoteSet(n.height, n.round, message.Prevote)
	if vs == nil {
		return nil
	}
	value, ok := vs.Majority(len(n.authorities))
	if !ok {
		return nil
	}
	if value.IsNil() {
		n.locked = false
		n.lockValue = nil
		return nil
	}
	n.locked = true
	n.lockRound = n.round
	n.lockValue = value.Clone()
	return value.Clone()
}

// PollCommit implements actuator.Support.
func (n *Node) PollCommit() *message.Commit {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.commit != nil && n.commit.Height == n.height {
		c := *n.commit
		return &c
	}
	return nil
}

// Proposer implements actuator.Support, rotating round robin.
func (n *Node) Proposer(height, round uint64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return int((height + round) % uint64(len(n.authorities)))
}

// Stop implements actuator.Support.
func (n *Node) Stop() {
	n.mu.Lock()
	n.stopped = true
	n.mu.Unlock()
}

// Height returns the height the node works on.
func (n *Node) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.height
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package message defines the protocol messages exchanged between the harness
// and a consensus node under test.
package message

import "fmt"

// Kind is the kind of a message.
type Kind uint8

const (
	KindProposal Kind = iota + 1
	KindVote
	KindCommit
	KindFeed
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindProposal:
		return "proposal"
	case KindVote:
		return "vote"
	case KindCommit:
		return "commit"
	case KindFeed:
		return "feed"
	case KindStatus:
		return "status"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Message is implemented by every message kind.
type Message interface {
	Kind() Kind
}

// VoteType is the step a vote belongs to.
type VoteType uint8

const (
	Prevote VoteType = iota + 1
	Precommit
)

func (t VoteType) String() string {
	switch t {
	case Prevote:
		return "prevote"
	case Precommit:
		return "precommit"
	default:
		return fmt.Sprintf("votetype(%d)", uint8(t))
	}
}

// Proposal is a candidate value for a round, proposed by one authority.
// LockRound and LockVotes carry the proof of lock change when the proposer is locked.
type Proposal struct {
	Height    uint64  `json:"height"`
	Round     uint64  `json:"round"`
	Content   Value   `json:"content"`
	Proposer  Address `json:"proposer"`
	LockRound *uint64 `json:"lockRound"`
	LockVotes []Vote  `json:"lockVotes"`
}

func (p *Proposal) Kind() Kind { return KindProposal }

func (p *Proposal) String() string {
	lock := "none"
	if p.LockRound != nil {
		lock = fmt.Sprintf("%d(%d votes)", *p.LockRound, len(p.LockVotes))
	}
	return fmt.Sprintf("Proposal(h=%d r=%d content=%v proposer=%v lock=%s)", p.Height, p.Round, p.Content, p.Proposer, lock)
}

// Vote is a prevote or precommit for a value, possibly nil.
type Vote struct {
	Height   uint64   `json:"height"`
	Round    uint64   `json:"round"`
	Type     VoteType `json:"type"`
	Proposal Value    `json:"proposal"`
	Voter    Address  `json:"voter"`
}

func (v *Vote) Kind() Kind { return KindVote }

func (v *Vote) String() string {
	return fmt.Sprintf("Vote(%v h=%d r=%d value=%v voter=%v)", v.Type, v.Height, v.Round, v.Proposal, v.Voter)
}

// Commit is the decision a node reports for a height.
type Commit struct {
	Node   int    `json:"node"`
	Height uint64 `json:"height"`
	Result Value  `json:"result"`
}

func (c *Commit) Kind() Kind { return KindCommit }

func (c *Commit) String() string {
	return fmt.Sprintf("Commit(node=%d h=%d result=%v)", c.Node, c.Height, c.Result)
}

// Feed hands the node a candidate value to propose when it holds the proposer seat.
type Feed struct {
	Height   uint64 `json:"height"`
	Round    uint64 `json:"round"`
	Proposal Value  `json:"proposal"`
}

func (f *Feed) Kind() Kind { return KindFeed }

// Status announces the height the node should work on next and the authority list.
type Status struct {
	Height      uint64    `json:"height"`
	Authorities []Address `json:"authorities"`
}

func (s *Status) Kind() Kind { return KindStatus }

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fault defines the verdicts raised when a node under test breaks a
// consensus invariant. Every verdict is terminal for the running script.
package fault

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vechain/bftharness/message"
)

// Kind classifies a verdict.
type Kind int

const (
	// CommitDiff two differing commit results for one height.
	CommitDiff Kind = iota + 1
	// CommitIncorrect commit differs from the tracked proposal.
	CommitIncorrect
	// CommitInvalid commit where none is expected.
	CommitInvalid
	// MislaidCommit is reserved. No transition produces it.
	MislaidCommit
	// MultipleCommit duplicate commit from one participant.
	MultipleCommit
	// ShouldNotPrecommit precommit for a value without a prevote quorum.
	ShouldNotPrecommit
	// AbnormalProposal a proposal arrived where a vote was awaited.
	AbnormalProposal
	// IllegalVote vote of the wrong step, for a denylisted value, or without a voteset.
	IllegalVote
	// PrecommitErr precommit value disagrees with the quorum prevote value.
	PrecommitErr
	// PrecommitDiffPoLC not enough prevotes corroborate the precommitted value.
	PrecommitDiffPoLC
)

var kindNames = map[Kind]string{
	CommitDiff:         "CommitDiff",
	CommitIncorrect:    "CommitIncorrect",
	CommitInvalid:      "CommitInvalid",
	MislaidCommit:      "MislaidCommit",
	MultipleCommit:     "MultipleCommit",
	ShouldNotPrecommit: "ShouldNotPrecommit",
	AbnormalProposal:   "AbnormalProposal",
	IllegalVote:        "IllegalVote",
	PrecommitErr:       "PrecommitErr",
	PrecommitDiffPoLC:  "PrecommitDiffPoLC",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a verdict against the node under test.
type Error struct {
	Kind     Kind
	Height   uint64
	Round    uint64
	Vote     *message.Vote     // offending vote, if any
	Proposal *message.Proposal // offending proposal, if any
	Expected message.Value     // value the harness tracked, if relevant
	Actual   message.Value     // value the node produced, if relevant
}

// New creates a verdict for the given height and round.
func New(kind Kind, height, round uint64) *Error {
	return &Error{Kind: kind, Height: height, Round: round}
}

// WithVote attaches the offending vote.
func (e *Error) WithVote(v *message.Vote) *Error {
	e.Vote = v
	return e
}

// WithProposal attaches the offending proposal.
func (e *Error) WithProposal(p *message.Proposal) *Error {
	e.Proposal = p
	return e
}

// WithValues attaches the expected and actual values.
func (e *Error) WithValues(expected, actual message.Value) *Error {
	e.Expected = expected
	e.Actual = actual
	return e
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case CommitDiff:
		msg = fmt.Sprintf("commit different at height %d", e.Height)
	case CommitIncorrect:
		msg = fmt.Sprintf("commit differs from proposal at height %d", e.Height)
	case CommitInvalid:
		msg = fmt.Sprintf("no proposal at height %d", e.Height)
	case MislaidCommit:
		msg = fmt.Sprintf("mislaid commit of height %d", e.Height)
	case MultipleCommit:
		msg = fmt.Sprintf("multiple commit at height %d", e.Height)
	case ShouldNotPrecommit:
		msg = fmt.Sprintf("precommit without +2/3 prevotes at height %d, round %d", e.Height, e.Round)
	case AbnormalProposal:
		if e.Proposal == nil {
			msg = fmt.Sprintf("abnormal message at height %d, round %d", e.Height, e.Round)
		} else {
			msg = fmt.Sprintf("abnormal proposal %v", e.Proposal)
		}
	case IllegalVote:
		msg = fmt.Sprintf("illegal vote %v", e.Vote)
	case PrecommitErr:
		msg = fmt.Sprintf("precommit error at height %d, round %d", e.Height, e.Round)
	case PrecommitDiffPoLC:
		msg = fmt.Sprintf("precommit different from PoLC %v", e.Vote)
	default:
		msg = fmt.Sprintf("unknown fault at height %d, round %d", e.Height, e.Round)
	}
	return "bft " + e.Kind.String() + ": " + msg
}

// KindOf returns the verdict kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// Is reports whether err carries a verdict of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

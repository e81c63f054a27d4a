// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actuator

import (
	"context"

	"github.com/vechain/bftharness/message"
)

// Support is the capability set of a node under test, seen from the actuator.
// The node always occupies authority seat 0.
type Support interface {
	// Send delivers a Feed, Proposal, Vote or Status to the node.
	Send(msg message.Message)
	// Receive blocks until the node emits a message.
	Receive(ctx context.Context) (message.Message, error)
	// PollCommit returns the node's commit of the current height, or nil.
	PollCommit() *message.Commit
	// Proposer returns the authority index proposing (height, round).
	// Index 0 means the node itself, which is fed a value to propose.
	Proposer(height, round uint64) int
	// Stop terminates the node.
	Stop()
}

// Sink is the optional message log every exchanged message is appended to.
type Sink interface {
	Write(msg message.Message) error
	Close() error
}

type nopSink struct{}

func (nopSink) Write(message.Message) error { return nil }
func (nopSink) Close() error                { return nil }

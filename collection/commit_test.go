// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/message"
)

func TestCommitCollector(t *testing.T) {
	a := message.Value{0xa}
	b := message.Value{0xb}
	cc := NewCommitCollector(4, false)

	assert.NoError(t, cc.Add(&message.Commit{Node: 0, Height: 1, Result: a}))
	assert.NoError(t, cc.Add(&message.Commit{Node: 1, Height: 1, Result: a}))

	err := cc.Add(&message.Commit{Node: 0, Height: 1, Result: a})
	assert.True(t, fault.Is(err, fault.MultipleCommit))

	err = cc.Add(&message.Commit{Node: 2, Height: 1, Result: b})
	assert.True(t, fault.Is(err, fault.CommitDiff))

	// participant outside the id set has no slot
	err = cc.Add(&message.Commit{Node: 4, Height: 1, Result: a})
	assert.True(t, fault.Is(err, fault.MultipleCommit))

	// the first result is kept
	v, ok := cc.Result(1)
	assert.True(t, ok)
	assert.Equal(t, a, v)

	assert.NoError(t, cc.Add(&message.Commit{Node: 2, Height: 2, Result: b}))
	_, ok = cc.Result(3)
	assert.False(t, ok)
}

func TestCommitCollectorProposal(t *testing.T) {
	a := message.Value{0xa}
	b := message.Value{0xb}
	cc := NewCommitCollector(4, true)

	err := cc.Add(&message.Commit{Node: 0, Height: 1, Result: a})
	assert.True(t, fault.Is(err, fault.CommitInvalid))
	// rejected commits take no slot
	_, ok := cc.Result(1)
	assert.False(t, ok)

	cc.SetProposal(1, b)
	err = cc.Add(&message.Commit{Node: 0, Height: 1, Result: a})
	assert.True(t, fault.Is(err, fault.CommitIncorrect))

	cc.SetProposal(1, a)
	assert.NoError(t, cc.Add(&message.Commit{Node: 0, Height: 1, Result: a}))
}

func TestCommitCollectorEviction(t *testing.T) {
	cc := NewCommitCollector(1, false)
	for h := uint64(0); h <= CommitCacheSize; h++ {
		assert.NoError(t, cc.Add(&message.Commit{Height: h, Result: message.Value{byte(h)}}))
	}
	_, ok := cc.Result(0)
	assert.False(t, ok)
	// evicted height accepts a fresh commit again
	assert.NoError(t, cc.Add(&message.Commit{Height: 0, Result: message.Value{0xff}}))
}

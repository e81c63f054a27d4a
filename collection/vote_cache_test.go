// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/bftharness/message"
)

func newVote(height, round uint64, typ message.VoteType, value message.Value, voter message.Address) *message.Vote {
	return &message.Vote{Height: height, Round: round, Type: typ, Proposal: value, Voter: voter}
}

func TestVoteCacheAdd(t *testing.T) {
	authorities := message.NewAuthorityList(4)
	a := message.Value{0xa}
	vc := NewVoteCache()

	assert.Nil(t, vc.VoteSet(1, 0, message.Prevote))

	assert.True(t, vc.Add(newVote(1, 0, message.Prevote, a, authorities[0])))
	assert.False(t, vc.Add(newVote(1, 0, message.Prevote, a, authorities[0])))
	// same voter, other step or round
	assert.True(t, vc.Add(newVote(1, 0, message.Precommit, a, authorities[0])))
	assert.True(t, vc.Add(newVote(1, 1, message.Prevote, a, authorities[0])))

	vs := vc.VoteSet(1, 0, message.Prevote)
	require.NotNil(t, vs)
	assert.Equal(t, 1, vs.Total())
	assert.Nil(t, vc.VoteSet(1, 2, message.Prevote))
	assert.Nil(t, vc.VoteSet(2, 0, message.Prevote))

	assert.Equal(t, 1, vc.PrevoteCount(0))
	assert.Equal(t, 1, vc.PrevoteCount(1))
	vc.ClearPrevoteCount()
	assert.Equal(t, 0, vc.PrevoteCount(0))

	// votes are kept after the counter is cleared
	assert.NotNil(t, vc.VoteSet(1, 0, message.Prevote))
	assert.True(t, vc.Stats().HitRate() > 0)
}

func TestVoteCacheEviction(t *testing.T) {
	voter := message.NewAuthorityList(1)[0]
	vc := NewVoteCache()

	for h := uint64(0); h < VoteCacheSize; h++ {
		vc.Add(newVote(h, 0, message.Prevote, nil, voter))
	}
	// promote height 0, so height 1 is the least recently used
	assert.NotNil(t, vc.VoteSet(0, 0, message.Prevote))

	vc.Add(newVote(VoteCacheSize, 0, message.Prevote, nil, voter))
	assert.Nil(t, vc.VoteSet(1, 0, message.Prevote))
	assert.NotNil(t, vc.VoteSet(0, 0, message.Prevote))
	assert.NotNil(t, vc.VoteSet(VoteCacheSize, 0, message.Prevote))

	// rounds inside a height are bounded too
	for r := uint64(0); r <= VoteCacheSize; r++ {
		vc.Add(newVote(100, r, message.Prevote, nil, voter))
	}
	assert.Nil(t, vc.VoteSet(100, 0, message.Prevote))
	assert.NotNil(t, vc.VoteSet(100, VoteCacheSize, message.Prevote))
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/bftharness/actuator"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/message"
	"github.com/vechain/bftharness/scenario"
	"github.com/vechain/bftharness/simnode"
	"github.com/vechain/bftharness/store"
)

func honestNodes(cfg actuator.Config, n int, s *store.Store) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i].Support = simnode.New(cfg.Authorities)
		if s != nil {
			nodes[i].Sink = s.Node(i)
		}
	}
	return nodes
}

func TestRun(t *testing.T) {
	s, err := store.NewMem()
	require.NoError(t, err)
	defer s.Close()

	cfg := actuator.DefaultConfig(4)
	script, err := scenario.Build("one-byzantine", 4, 3)
	require.NoError(t, err)

	report, err := Run(context.Background(), cfg, script.Units, honestNodes(cfg, 4, s))
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	for i, res := range report.Results {
		assert.Equal(t, i, res.Node)
		assert.NoError(t, res.Err)
		assert.Equal(t, 100, res.Committed)
		assert.Equal(t, uint64(101), res.Height)
	}
	assert.Equal(t, 400, report.Committed())

	// every node sink was released
	assert.Equal(t, 0, s.Sinks())
	n, err := s.Count(message.KindCommit)
	require.NoError(t, err)
	assert.Equal(t, 400, n)
}

// lyingNode commits a value nobody proposed.
type lyingNode struct {
	*simnode.Node
}

func (n lyingNode) PollCommit() *message.Commit {
	if c := n.Node.PollCommit(); c != nil {
		return &message.Commit{Node: c.Node, Height: c.Height, Result: message.Value{0xde, 0xad}}
	}
	return nil
}

func TestRunFirstFailure(t *testing.T) {
	cfg := actuator.DefaultConfig(4)
	nodes := honestNodes(cfg, 3, nil)
	nodes[1].Support = lyingNode{simnode.New(cfg.Authorities)}

	script, err := scenario.Build("no-byzantine", 4, 0)
	require.NoError(t, err)

	report, err := Run(context.Background(), cfg, script.Units, nodes)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.CommitIncorrect))
	assert.Contains(t, err.Error(), "node 1")
	require.NotNil(t, report)
	assert.True(t, fault.Is(report.Results[1].Err, fault.CommitIncorrect))
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), actuator.DefaultConfig(4), nil, nil)
	assert.Error(t, err)

	report, err := Run(context.Background(), actuator.DefaultConfig(1), nil, []Node{{Support: simnode.New(message.NewAuthorityList(1))}})
	assert.Error(t, err)
	assert.Error(t, report.Results[0].Err)
}

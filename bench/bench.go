// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bench drives several nodes under test at once, one actuator each.
package bench

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/actuator"
	"github.com/vechain/bftharness/metrics"
	"github.com/vechain/bftharness/scenario"
	"golang.org/x/sync/errgroup"
)

var metricRunning = metrics.LazyLoadGauge("bench_nodes_running")

// progressInterval is how often unfinished nodes are reported.
var progressInterval = 5 * time.Second

// Node is one node under test and the sink of its messages.
type Node struct {
	Support actuator.Support
	Sink    actuator.Sink // optional
}

// Result is the outcome of one node.
type Result struct {
	Node      int           `json:"node"`
	Height    uint64        `json:"height"`
	Round     uint64        `json:"round"`
	Committed int           `json:"committed"`
	Elapsed   time.Duration `json:"elapsed"`
	Err       error         `json:"-"`
}

// Report is the outcome of a bench run.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// Committed returns the total of committed heights over all nodes.
func (r *Report) Committed() int {
	var n int
	for _, res := range r.Results {
		n += res.Committed
	}
	return n
}

// Run plays units against every node concurrently. cfg.Node is set per node.
// The first failure cancels the other nodes and is returned.
func Run(ctx context.Context, cfg actuator.Config, units []scenario.Unit, nodes []Node) (*Report, error) {
	if len(nodes) == 0 {
		return nil, errors.New("no node to drive")
	}
	logger := log.New("pkg", "bench")
	start := mclock.Now()

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan Result, len(nodes))

	for i, node := range nodes {
		g.Go(func() error {
			res := Result{Node: i}
			nodeStart := mclock.Now()
			metricRunning().Add(1)
			defer func() {
				metricRunning().Add(-1)
				res.Elapsed = time.Duration(mclock.Now() - nodeStart)
				done <- res
			}()

			c := cfg
			c.Node = i
			a, err := actuator.New(c, node.Support, node.Sink)
			if err != nil {
				res.Err = err
				return errors.WithMessagef(err, "node %d", i)
			}
			defer a.Close()

			res.Err = a.Run(ctx, units)
			res.Height, res.Round, res.Committed = a.Height(), a.Round(), a.Committed()
			return errors.WithMessagef(res.Err, "node %d", i)
		})
	}

	results := make([]Result, len(nodes))
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for pending := len(nodes); pending > 0; {
		select {
		case res := <-done:
			pending--
			results[res.Node] = res
			logger.Debug("node finished", "node", res.Node, "height", res.Height, "committed", res.Committed, "err", res.Err)
		case <-ticker.C:
			logger.Info("bench running", "finished", len(nodes)-pending, "nodes", len(nodes))
		}
	}

	err := g.Wait()
	report := &Report{Results: results, Elapsed: time.Duration(mclock.Now() - start)}
	logger.Info("bench finished", "nodes", len(nodes), "committed", report.Committed(), "elapsed", report.Elapsed, "err", err)
	return report, err
}

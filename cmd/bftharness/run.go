// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/actuator"
	"github.com/vechain/bftharness/admin"
	"github.com/vechain/bftharness/bench"
	"github.com/vechain/bftharness/health"
	"github.com/vechain/bftharness/metrics"
	"github.com/vechain/bftharness/scenario"
	"github.com/vechain/bftharness/simnode"
	"github.com/vechain/bftharness/store"
	pb "gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
)

// stallTimeout is how long a run may go without finishing a unit before it
// is reported unhealthy.
const stallTimeout = time.Minute

func runAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	script, err := loadScript(ctx)
	if err != nil {
		return err
	}
	cfg := actuator.DefaultConfig(script.Authorities)
	cfg.Seed = ctx.Uint64(seedFlag.Name)
	cfg.Height = ctx.Uint64(heightFlag.Name)
	cfg.RequireCommit = ctx.Bool(requireCommitFlag.Name)
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { log.Info("closing message db..."); db.Close() }()
		log.Info("recording messages", "db", db.Path(), "run", db.RunID(), "driver", db.DriverVersion())
	}

	exitCtx, stop := handleExitSignal()
	defer stop()

	status := health.New(stallTimeout)
	status.Start(script.Name, len(script.Units))
	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		url, shutdown, err := admin.StartServer(addr, logLevel, status)
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping admin server..."); shutdown() }()
		log.Info("admin API started", "url", url)
	}

	log.Info("running scenario", "name", script.Name, "authorities", script.Authorities, "units", len(script.Units), "seed", cfg.Seed)

	if n := ctx.Int(nodesFlag.Name); n > 1 {
		err = runBench(exitCtx, cfg, script, n, db, status)
	} else {
		err = runSingle(exitCtx, cfg, script, db, status, !ctx.Bool(noProgressFlag.Name))
	}
	if err != nil {
		status.Fail(err)
		reportFault(os.Stderr, err)
		return err
	}
	return nil
}

func runSingle(ctx context.Context, cfg actuator.Config, script *scenario.Script, db *store.Store, status *health.Health, progress bool) error {
	var sink actuator.Sink
	if db != nil {
		sink = db.Node(cfg.Node)
	}
	a, err := actuator.New(cfg, simnode.New(cfg.Authorities), sink)
	if err != nil {
		return err
	}
	defer a.Close()

	var bar *pb.ProgressBar
	if progress {
		bar = pb.New(len(script.Units)).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()
	}

	for i, u := range script.Units {
		if err := a.Step(ctx, u); err != nil {
			return errors.WithMessagef(err, "unit %d (%v)", i, u)
		}
		status.Update(health.Progress{Done: i + 1, Height: a.Height(), Round: a.Round(), Committed: a.Committed()})
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	log.Info("scenario passed", "name", script.Name, "committed", a.Committed(), "height", a.Height())
	return nil
}

func runBench(ctx context.Context, cfg actuator.Config, script *scenario.Script, n int, db *store.Store, status *health.Health) error {
	nodes := make([]bench.Node, n)
	for i := range nodes {
		nodes[i].Support = simnode.New(cfg.Authorities)
		if db != nil {
			nodes[i].Sink = db.Node(i)
		}
	}

	report, err := bench.Run(ctx, cfg, script.Units, nodes)
	if report != nil {
		status.Update(health.Progress{Done: len(script.Units), Committed: report.Committed()})
		for _, res := range report.Results {
			log.Info("node result", "node", res.Node, "height", res.Height, "round", res.Round, "committed", res.Committed, "elapsed", res.Elapsed, "err", res.Err)
		}
	}
	if err != nil {
		return err
	}
	log.Info("scenario passed", "name", script.Name, "nodes", n, "committed", report.Committed(), "elapsed", report.Elapsed)
	return nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

// verbosity levels, in the legacy numbering of log.FromLegacyLevel
const (
	verbosityCrit = iota
	verbosityError
	verbosityWarn
	verbosityInfo
	verbosityDebug
	verbosityTrace
)

var (
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Value: "no-byzantine",
		Usage: "name of a built-in scenario (see 'list')",
	}
	scenarioFileFlag = cli.StringFlag{
		Name:  "scenario-file",
		Usage: "path to a YAML scenario script, overrides --scenario",
	}
	authoritiesFlag = cli.IntFlag{
		Name:  "authorities",
		Value: 4,
		Usage: "number of authorities, the node under test included",
	}
	nodesFlag = cli.IntFlag{
		Name:  "nodes",
		Value: 1,
		Usage: "number of nodes under test driven concurrently",
	}
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of scenario generation and proposal values",
	}
	heightFlag = cli.Uint64Flag{
		Name:  "height",
		Value: 1,
		Usage: "height to start from",
	}
	dbFlag = cli.StringFlag{
		Name:  "db",
		Usage: "sqlite file to record exchanged messages, 'memory' for an in-memory db",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: verbosityInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Usage: "admin API listening address, empty to disable",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enable prometheus metrics, served on the admin API at /metrics",
	}
	requireCommitFlag = cli.BoolFlag{
		Name:  "require-commit",
		Usage: "fail when the node does not commit where the scenario expects it",
	}
	noProgressFlag = cli.BoolFlag{
		Name:  "no-progress",
		Usage: "disable the progress bar",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "file to write to, stdout if empty",
	}
)

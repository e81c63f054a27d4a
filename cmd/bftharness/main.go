// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/vechain/bftharness/scenario"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "bftharness",
		Usage:     "Scripted BFT consensus test harness",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:  "run",
				Usage: "play a scenario against the reference node",
				Flags: []cli.Flag{
					scenarioFlag,
					scenarioFileFlag,
					authoritiesFlag,
					nodesFlag,
					seedFlag,
					heightFlag,
					dbFlag,
					verbosityFlag,
					jsonLogsFlag,
					adminAddrFlag,
					enableMetricsFlag,
					requireCommitFlag,
					noProgressFlag,
				},
				Action: runAction,
			},
			{
				Name:   "list",
				Usage:  "list built-in scenarios",
				Action: listAction,
			},
			{
				Name:  "dump",
				Usage: "write a scenario script as YAML",
				Flags: []cli.Flag{
					scenarioFlag,
					authoritiesFlag,
					seedFlag,
					outFlag,
				},
				Action: dumpAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listAction(*cli.Context) error {
	for _, name := range scenario.Names() {
		fmt.Println(name)
	}
	return nil
}

func dumpAction(ctx *cli.Context) error {
	script, err := loadScript(ctx)
	if err != nil {
		return err
	}
	data, err := script.Encode()
	if err != nil {
		return err
	}
	if out := ctx.String(outFlag.Name); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		log.Info("scenario written", "name", script.Name, "units", len(script.Units), "file", out)
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

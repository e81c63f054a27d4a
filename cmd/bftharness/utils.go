// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/scenario"
	"github.com/vechain/bftharness/store"
	cli "gopkg.in/urfave/cli.v1"
)

// leveledHandler filters records below a level that can be changed at runtime.
type leveledHandler struct {
	slog.Handler
	level *slog.LevelVar
}

func (h *leveledHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h *leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveledHandler{h.Handler.WithAttrs(attrs), h.level}
}

func (h *leveledHandler) WithGroup(name string) slog.Handler {
	return &leveledHandler{h.Handler.WithGroup(name), h.level}
}

func newLogHandler(w io.Writer, jsonLogs bool, level *slog.LevelVar) slog.Handler {
	var inner slog.Handler
	if jsonLogs {
		inner = log.JSONHandlerWithLevel(w, log.LevelTrace)
	} else {
		useColor := false
		if f, ok := w.(*os.File); ok {
			useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
		}
		inner = log.NewTerminalHandlerWithLevel(w, log.LevelTrace, useColor)
	}
	return &leveledHandler{inner, level}
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity := ctx.Uint64(verbosityFlag.Name)
	if verbosity > verbosityTrace {
		return nil, errors.Errorf("invalid verbosity %d", verbosity)
	}
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(verbosity)))

	log.SetDefault(log.NewLogger(newLogHandler(os.Stderr, ctx.Bool(jsonLogsFlag.Name), &level)))
	return &level, nil
}

// handleExitSignal returns a context canceled on interrupt or terminate.
func handleExitSignal() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-exitSignalCh:
			log.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(exitSignalCh)
		cancel()
	}
}

func loadScript(ctx *cli.Context) (*scenario.Script, error) {
	if path := ctx.String(scenarioFileFlag.Name); path != "" {
		return scenario.Load(path)
	}
	return scenario.Build(ctx.String(scenarioFlag.Name), ctx.Int(authoritiesFlag.Name), ctx.Uint64(seedFlag.Name))
}

// openStore returns nil if no db is configured.
func openStore(ctx *cli.Context) (*store.Store, error) {
	switch path := ctx.String(dbFlag.Name); path {
	case "":
		return nil, nil
	case "memory":
		return store.NewMem()
	default:
		s, err := store.New(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open message db [%v]", path)
		}
		return s, nil
	}
}

// reportFault prints the detail of a verdict, if err carries one.
func reportFault(w io.Writer, err error) {
	var fe *fault.Error
	if !errors.As(err, &fe) {
		return
	}
	fmt.Fprintf(w, "verdict: %v at height %d, round %d\n", fe.Kind, fe.Height, fe.Round)
	if d := fe.Diff(); d != "" {
		fmt.Fprint(w, d)
	}
}

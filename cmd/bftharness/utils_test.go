// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/message"
)

func TestLeveledHandler(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(log.LevelWarn)
	logger := log.NewLogger(newLogHandler(&buf, true, &level)).New("pkg", "test")

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"pkg":"test"`)

	buf.Reset()
	level.Set(log.LevelDebug)
	logger.Debug("now shown")
	assert.Contains(t, buf.String(), "now shown")
}

func TestReportFault(t *testing.T) {
	var buf bytes.Buffer
	reportFault(&buf, errors.New("plain"))
	assert.Empty(t, buf.String())

	err := fault.New(fault.CommitIncorrect, 2, 0).WithValues(message.Value{0x01}, message.Value{0x02})
	reportFault(&buf, errors.WithMessage(err, "unit 3"))
	assert.Contains(t, buf.String(), "verdict: CommitIncorrect at height 2, round 0")
	assert.Contains(t, buf.String(), "+++ actual")
}

func TestVerbosityLevels(t *testing.T) {
	assert.Equal(t, log.LevelCrit, log.FromLegacyLevel(verbosityCrit))
	assert.Equal(t, log.LevelError, log.FromLegacyLevel(verbosityError))
	assert.Equal(t, log.LevelWarn, log.FromLegacyLevel(verbosityWarn))
	assert.Equal(t, log.LevelInfo, log.FromLegacyLevel(verbosityInfo))
	assert.Equal(t, log.LevelDebug, log.FromLegacyLevel(verbosityDebug))
	assert.Equal(t, log.LevelTrace, log.FromLegacyLevel(verbosityTrace))
	assert.Equal(t, uint64(verbosityInfo), verbosityFlag.Value)
}

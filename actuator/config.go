// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actuator

import (
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/message"
)

// Config of an actuator.
type Config struct {
	Node        int               // index of the node under test, for logs and metrics
	Height      uint64            // first height
	Round       uint64            // first round
	Authorities []message.Address // ordered authority list, seat 0 is the node under test
	Seed        uint64            // seed of the value source
	ValueSize   int               // bytes per drawn value
	MaxRedraw   int               // redraws allowed when a value hits the denylist

	// RequireCommit fails a SHOULD_COMMIT unit the node did not commit at,
	// instead of moving on to the next round.
	RequireCommit bool
}

// DefaultConfig returns the config for a generated list of n authorities.
func DefaultConfig(n int) Config {
	return Config{
		Height:      1,
		Authorities: message.NewAuthorityList(n),
		ValueSize:   32,
		MaxRedraw:   8,
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if len(c.Authorities) < 2 {
		return errors.Errorf("need at least 2 authorities, got %d", len(c.Authorities))
	}
	seen := make(map[message.Address]struct{}, len(c.Authorities))
	for i, a := range c.Authorities {
		if _, ok := seen[a]; ok {
			return errors.Errorf("duplicated authority %v at %d", a, i)
		}
		seen[a] = struct{}{}
	}
	if c.ValueSize <= 0 {
		return errors.Errorf("invalid value size %d", c.ValueSize)
	}
	if c.MaxRedraw < 0 {
		return errors.Errorf("invalid max redraw %d", c.MaxRedraw)
	}
	return nil
}

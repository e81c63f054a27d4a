// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scenario encodes round scripts: the ordered units an actuator
// plays against a node under test.
package scenario

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Behavior is how a scripted participant acts in one half of a round.
type Behavior uint8

const (
	// Offline emits nothing, and silences the remaining slots of the half.
	Offline Behavior = iota
	// Normal votes the working proposal, or the locked value.
	Normal
	// Byzantine votes a conflicting value.
	Byzantine
)

func (b Behavior) String() string {
	switch b {
	case Offline:
		return "offline"
	case Normal:
		return "normal"
	case Byzantine:
		return "byzantine"
	default:
		return fmt.Sprintf("behavior(%d)", uint8(b))
	}
}

// Sentinel is a control unit.
type Sentinel uint8

const (
	// None marks a ballot unit.
	None Sentinel = iota
	// NullRound advances the round without traffic.
	NullRound
	// ShouldCommit expects the node to have committed the height.
	ShouldCommit
	// NoCommitButLock expects no commit, and locks the working proposal.
	NoCommitButLock
	// NoCommitNoLock expects no commit.
	NoCommitNoLock
)

var sentinelNames = map[Sentinel]string{
	NullRound:       "NULL_ROUND",
	ShouldCommit:    "SHOULD_COMMIT",
	NoCommitButLock: "NO_COMMIT_BUT_LOCK",
	NoCommitNoLock:  "NO_COMMIT_NO_LOCK",
}

// numeric forms used by the six-digit tables.
var sentinelCodes = map[string]Sentinel{
	"777777": NullRound,
	"888888": ShouldCommit,
	"999888": NoCommitButLock,
	"999999": NoCommitNoLock,
}

func (s Sentinel) String() string {
	if s == None {
		return "BALLOT"
	}
	if name, ok := sentinelNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SENTINEL(%d)", uint8(s))
}

// Unit is one step of a script: either a sentinel, or a ballot giving the
// behavior of every non-proposer slot in the prevote and precommit halves.
type Unit struct {
	Sentinel  Sentinel
	Prevote   []Behavior
	Precommit []Behavior
}

// Ballot creates a ballot unit.
func Ballot(prevote, precommit []Behavior) Unit {
	return Unit{Prevote: prevote, Precommit: precommit}
}

// Control creates a sentinel unit.
func Control(s Sentinel) Unit {
	return Unit{Sentinel: s}
}

// Uniform creates a ballot unit where every slot behaves the same.
func Uniform(slots int, b Behavior) Unit {
	return Ballot(fill(slots, b), fill(slots, b))
}

func fill(n int, b Behavior) []Behavior {
	half := make([]Behavior, n)
	for i := range half {
		half[i] = b
	}
	return half
}

// IsBallot returns whether the unit carries votes.
func (u Unit) IsBallot() bool {
	return u.Sentinel == None
}

// Validate checks the unit against the slot count (authorities - 1).
func (u Unit) Validate(slots int) error {
	if !u.IsBallot() {
		if _, ok := sentinelNames[u.Sentinel]; !ok {
			return errors.Errorf("unknown sentinel %v", u.Sentinel)
		}
		return nil
	}
	if len(u.Prevote) != slots || len(u.Precommit) != slots {
		return errors.Errorf("ballot %v: want %d slots per half", u, slots)
	}
	for _, b := range append(append([]Behavior{}, u.Prevote...), u.Precommit...) {
		if b > Byzantine {
			return errors.Errorf("ballot %v: invalid %v", u, b)
		}
	}
	return nil
}

// String returns the compact form, e.g. "111102" or "SHOULD_COMMIT".
func (u Unit) String() string {
	if !u.IsBallot() {
		return u.Sentinel.String()
	}
	var sb strings.Builder
	for _, b := range u.Prevote {
		sb.WriteByte('0' + byte(b))
	}
	for _, b := range u.Precommit {
		sb.WriteByte('0' + byte(b))
	}
	return sb.String()
}

// Parse parses the compact form of a unit. Digits are split evenly into the
// prevote and precommit halves.
func Parse(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	for sentinel, name := range sentinelNames {
		if strings.EqualFold(s, name) {
			return Control(sentinel), nil
		}
	}
	if sentinel, ok := sentinelCodes[s]; ok {
		return Control(sentinel), nil
	}

	if len(s) == 0 || len(s)%2 != 0 {
		return Unit{}, errors.Errorf("unit %q: want an even number of digits", s)
	}
	behaviors := make([]Behavior, len(s))
	for i, c := range s {
		if c < '0' || c > '2' {
			return Unit{}, errors.Errorf("unit %q: invalid behavior %q", s, c)
		}
		behaviors[i] = Behavior(c - '0')
	}
	half := len(s) / 2
	return Ballot(behaviors[:half], behaviors[half:]), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// MarshalYAML implements yaml.Marshaler.
func (u Unit) MarshalYAML() (any, error) {
	return u.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *Unit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: unit must be a scalar", value.Line)
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return errors.WithMessagef(err, "line %d", value.Line)
	}
	*u = parsed
	return nil
}

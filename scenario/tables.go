// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"math/rand/v2"
	"sort"
)

// Generator builds a script for the given slot count (authorities - 1).
type Generator func(rng *rand.Rand, slots int) []Unit

var tables = map[string]Generator{
	"no-byzantine":              NoByzantine,
	"one-offline":               OneOffline,
	"one-byzantine":             OneByzantine,
	"two-byzantine":             TwoByzantine,
	"two-offline":               TwoOffline,
	"two-byzantine-one-offline": TwoByzantineOneOffline,
	"round-leap":                RoundLeap,
	"lock-proposal":             LockProposal,
}

// Names returns the names of the built-in scripts, sorted.
func Names() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the generator of a built-in script.
func Lookup(name string) (Generator, bool) {
	g, ok := tables[name]
	return g, ok
}

// RandOne returns a ballot of base behaviors, where one random slot of each
// half behaves as attr.
func RandOne(rng *rand.Rand, slots int, attr, base Behavior) Unit {
	u := Ballot(fill(slots, base), fill(slots, base))
	u.Prevote[rng.IntN(slots)] = attr
	u.Precommit[rng.IntN(slots)] = attr
	return u
}

// RandAllButOne returns a ballot of attr behaviors, where one random slot of
// each half keeps the base behavior. With three slots it makes two attr
// participants per half.
func RandAllButOne(rng *rand.Rand, slots int, attr, base Behavior) Unit {
	u := Ballot(fill(slots, attr), fill(slots, attr))
	u.Prevote[rng.IntN(slots)] = base
	u.Precommit[rng.IntN(slots)] = base
	return u
}

// NoByzantine every participant is honest, every height commits.
func NoByzantine(_ *rand.Rand, slots int) []Unit {
	units := make([]Unit, 0, 200)
	for range 100 {
		units = append(units, Uniform(slots, Normal), Control(ShouldCommit))
	}
	return units
}

// OneOffline one participant per half is offline.
func OneOffline(rng *rand.Rand, slots int) []Unit {
	units := make([]Unit, 0, 200)
	for range 100 {
		units = append(units, RandOne(rng, slots, Offline, Normal), Control(ShouldCommit))
	}
	return units
}

// OneByzantine one participant per half votes a conflicting value.
func OneByzantine(rng *rand.Rand, slots int) []Unit {
	units := make([]Unit, 0, 200)
	for range 100 {
		units = append(units, RandOne(rng, slots, Byzantine, Normal), Control(ShouldCommit))
	}
	return units
}

// TwoByzantine too many conflicting votes, nothing commits until the last round.
func TwoByzantine(rng *rand.Rand, slots int) []Unit {
	units := make([]Unit, 0, 200)
	for range 99 {
		units = append(units, RandAllButOne(rng, slots, Byzantine, Normal), Control(NoCommitNoLock))
	}
	return append(units, Uniform(slots, Normal), Control(ShouldCommit))
}

// TwoOffline too many offline participants, with null rounds in between.
func TwoOffline(rng *rand.Rand, slots int) []Unit {
	var units []Unit
	for range 10 {
		units = append(units,
			RandAllButOne(rng, slots, Offline, Normal),
			Control(NoCommitNoLock),
			Control(NullRound),
			Control(NullRound),
		)
	}
	return append(units, Uniform(slots, Normal), Control(ShouldCommit))
}

// TwoByzantineOneOffline conflicting votes mixed with an offline participant.
func TwoByzantineOneOffline(rng *rand.Rand, slots int) []Unit {
	var units []Unit
	for range 10 {
		units = append(units, RandAllButOne(rng, slots, Byzantine, Offline), Control(NoCommitNoLock))
	}
	return append(units, Uniform(slots, Normal), Control(ShouldCommit))
}

// RoundLeap heights that commit after a random number of failed rounds.
func RoundLeap(rng *rand.Rand, slots int) []Unit {
	var units []Unit
	for range 10 {
		for range rng.IntN(256) + 1 {
			units = append(units, RandAllButOne(rng, slots, Offline, Normal), Control(NoCommitNoLock))
		}
		units = append(units, Uniform(slots, Normal), Control(ShouldCommit))
	}
	return units
}

// LockProposal rounds that lock without committing, mixed with rounds that
// neither lock nor commit. The locked value must be carried to the final commit.
func LockProposal(rng *rand.Rand, slots int) []Unit {
	// lock: every prevote, a single precommit
	lock := Uniform(slots, Normal)
	lock.Precommit = fill(slots, Offline)
	lock.Precommit[0] = Normal
	if slots > 2 {
		lock.Precommit[slots-1] = Byzantine
	}

	// no lock: honest, byzantine, then silence, in both halves
	noLock := Uniform(slots, Offline)
	noLock.Prevote[0], noLock.Precommit[0] = Normal, Normal
	if slots > 1 {
		noLock.Prevote[1], noLock.Precommit[1] = Byzantine, Byzantine
	}

	var units []Unit
	for range 100 {
		if rng.IntN(2) == 0 {
			units = append(units, lock, Control(NoCommitButLock))
		} else {
			units = append(units, noLock, Control(NoCommitNoLock))
		}
	}
	return append(units, Uniform(slots, Normal), Control(ShouldCommit))
}

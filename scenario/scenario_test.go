// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
	}{
		{"111111", Uniform(3, Normal)},
		{"111102", Ballot([]Behavior{Normal, Normal, Normal}, []Behavior{Normal, Offline, Byzantine})},
		{"12", Ballot([]Behavior{Normal}, []Behavior{Byzantine})},
		{"SHOULD_COMMIT", Control(ShouldCommit)},
		{"should_commit", Control(ShouldCommit)},
		{"888888", Control(ShouldCommit)},
		{"777777", Control(NullRound)},
		{"999888", Control(NoCommitButLock)},
		{" NO_COMMIT_NO_LOCK ", Control(NoCommitNoLock)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "11111", "113111", "abcdef", "SHOULD"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestUnitString(t *testing.T) {
	for _, s := range []string{"111111", "120120", "SHOULD_COMMIT", "NULL_ROUND", "NO_COMMIT_BUT_LOCK", "NO_COMMIT_NO_LOCK"} {
		assert.Equal(t, s, MustParse(s).String())
	}
	assert.Panics(t, func() { MustParse("x") })
}

func TestUnitValidate(t *testing.T) {
	assert.NoError(t, MustParse("111111").Validate(3))
	assert.Error(t, MustParse("111111").Validate(4))
	assert.NoError(t, Control(NullRound).Validate(3))
	assert.Error(t, Control(Sentinel(42)).Validate(3))
	assert.Error(t, Ballot([]Behavior{Normal}, []Behavior{Behavior(5)}).Validate(1))
}

func TestRandHelpers(t *testing.T) {
	rng := NewRand(1)
	count := func(half []Behavior, b Behavior) (n int) {
		for _, x := range half {
			if x == b {
				n++
			}
		}
		return
	}
	for range 50 {
		u := RandOne(rng, 3, Byzantine, Normal)
		assert.Equal(t, 1, count(u.Prevote, Byzantine))
		assert.Equal(t, 1, count(u.Precommit, Byzantine))

		u = RandAllButOne(rng, 3, Offline, Normal)
		assert.Equal(t, 2, count(u.Prevote, Offline))
		assert.Equal(t, 1, count(u.Precommit, Normal))
	}
}

func TestBuiltinScripts(t *testing.T) {
	assert.Len(t, Names(), 8)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Build(name, 4, 7)
			require.NoError(t, err)
			require.NoError(t, s.Validate())
			require.NotEmpty(t, s.Units)

			// every script ends expecting a commit
			assert.Equal(t, ShouldCommit, s.Units[len(s.Units)-1].Sentinel)
			assert.True(t, s.Units[len(s.Units)-2].IsBallot())

			// same seed, same script
			again, err := Build(name, 4, 7)
			require.NoError(t, err)
			assert.Equal(t, s.Units, again.Units)
		})
	}

	_, err := Build("nope", 4, 0)
	assert.Error(t, err)
	_, err = Build("no-byzantine", 1, 0)
	assert.Error(t, err)
}

func TestLockProposalUnits(t *testing.T) {
	s, err := Build("lock-proposal", 4, 3)
	require.NoError(t, err)
	for i, u := range s.Units[:len(s.Units)-2] {
		if i%2 == 0 {
			assert.Contains(t, []string{"111102", "120120"}, u.String())
			continue
		}
		if s.Units[i-1].String() == "111102" {
			assert.Equal(t, NoCommitButLock, u.Sentinel)
		} else {
			assert.Equal(t, NoCommitNoLock, u.Sentinel)
		}
	}
}

func TestLoad(t *testing.T) {
	data := []byte(`
name: custom
authorities: 4
units:
  - 111111
  - SHOULD_COMMIT
  - "120120"
  - NO_COMMIT_NO_LOCK
`)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", s.Name)
	assert.Equal(t, 4, s.Authorities)
	assert.Equal(t, []Unit{
		Uniform(3, Normal),
		Control(ShouldCommit),
		MustParse("120120"),
		Control(NoCommitNoLock),
	}, s.Units)

	out, err := s.Encode()
	require.NoError(t, err)
	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = Decode([]byte("authorities: 4\nunits: [\"11\"]\n"))
	assert.Error(t, err)
	_, err = Decode([]byte("authorities: 4\nunits: [[1, 1]]\n"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

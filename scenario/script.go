// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"math/rand/v2"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Script is a named sequence of units for a fixed authority count.
type Script struct {
	Name        string `yaml:"name"`
	Authorities int    `yaml:"authorities"`
	Units       []Unit `yaml:"units"`
}

// NewRand returns the deterministic source used to generate scripts.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) // #nosec G404
}

// Build generates the built-in script for the given authority count.
func Build(name string, authorities int, seed uint64) (*Script, error) {
	g, ok := Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown scenario %q", name)
	}
	if authorities < 2 {
		return nil, errors.Errorf("scenario %q: need at least 2 authorities, got %d", name, authorities)
	}
	return &Script{
		Name:        name,
		Authorities: authorities,
		Units:       g(NewRand(seed), authorities-1),
	}, nil
}

// Validate checks every unit fits the authority count.
func (s *Script) Validate() error {
	if s.Authorities < 2 {
		return errors.Errorf("script %q: need at least 2 authorities, got %d", s.Name, s.Authorities)
	}
	for i, u := range s.Units {
		if err := u.Validate(s.Authorities - 1); err != nil {
			return errors.WithMessagef(err, "script %q unit %d", s.Name, i)
		}
	}
	return nil
}

// Decode parses and validates a YAML script.
func Decode(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a YAML script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return Decode(data)
}

// Encode renders the script as YAML.
func (s *Script) Encode() ([]byte, error) {
	return yaml.Marshal(s)
}

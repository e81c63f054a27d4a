// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fault

import (
	"encoding/json"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/vechain/bftharness/message"
)

type side struct {
	Height uint64        `json:"height"`
	Round  uint64        `json:"round"`
	Value  message.Value `json:"value"`
	Vote   *message.Vote `json:"vote,omitempty"`
	Hash   string        `json:"hash,omitempty"`
}

func (e *Error) side(v message.Value, vote *message.Vote) side {
	s := side{Height: e.Height, Round: e.Round, Value: v, Vote: vote}
	if !v.IsNil() {
		h := message.ValueHash(v)
		s.Hash = message.Value(h[:]).String()
	}
	return s
}

// Diff renders a unified diff between what the harness expected and what
// the node produced. It returns "" if the verdict carries no values.
func (e *Error) Diff() string {
	if e.Expected == nil && e.Actual == nil && e.Vote == nil {
		return ""
	}
	expected, err := json.MarshalIndent(e.side(e.Expected, nil), "", "  ")
	if err != nil {
		return ""
	}
	actual, err := json.MarshalIndent(e.side(e.Actual, e.Vote), "", "  ")
	if err != nil {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected) + "\n"),
		B:        difflib.SplitLines(string(actual) + "\n"),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return text
}

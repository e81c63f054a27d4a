// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

// Progress of a running script.
type Progress struct {
	Done      int    `json:"done"`
	Height    uint64 `json:"height"`
	Round     uint64 `json:"round"`
	Committed int    `json:"committed"`
}

type Status struct {
	Healthy      bool       `json:"healthy"`
	Scenario     string     `json:"scenario"`
	Units        int        `json:"units"`
	Progress     Progress   `json:"progress"`
	LastCommit   *time.Time `json:"lastCommit"`
	LastProgress *time.Time `json:"lastProgress"`
	Finished     bool       `json:"finished"`
	Error        string     `json:"error,omitempty"`
}

// Health tracks a run. A run is healthy while it has no verdict and keeps
// making progress within the stall timeout.
type Health struct {
	lock         sync.RWMutex
	stall        time.Duration
	scenario     string
	units        int
	progress     Progress
	lastCommit   time.Time
	lastProgress time.Time
	finished     bool
	err          error
}

func New(stall time.Duration) *Health {
	return &Health{stall: stall}
}

// Start resets the tracker for a new script.
func (h *Health) Start(scenario string, units int) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.scenario = scenario
	h.units = units
	h.progress = Progress{}
	h.lastCommit = time.Time{}
	h.lastProgress = time.Now()
	h.finished = false
	h.err = nil
}

// Update records the state after a unit.
func (h *Health) Update(p Progress) {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	if p.Committed > h.progress.Committed {
		h.lastCommit = now
	}
	h.progress = p
	h.lastProgress = now
	if p.Done >= h.units {
		h.finished = true
	}
}

// Fail records the error that ended the run.
func (h *Health) Fail(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.err = err
	h.finished = true
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	s := &Status{
		Scenario: h.scenario,
		Units:    h.units,
		Progress: h.progress,
		Finished: h.finished,
	}
	if !h.lastCommit.IsZero() {
		t := h.lastCommit
		s.LastCommit = &t
	}
	if !h.lastProgress.IsZero() {
		t := h.lastProgress
		s.LastProgress = &t
	}
	if h.err != nil {
		s.Error = h.err.Error()
	}
	s.Healthy = h.err == nil && !h.lastProgress.IsZero() &&
		(h.finished || time.Since(h.lastProgress) < h.stall)
	return s, nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package actuator plays round scripts against a node under test. It
// synthesizes the traffic of every other authority, recomputes quorum and
// lock state on its own, and reports the first broken invariant as a fault.
package actuator

import (
	"bytes"
	"context"
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/collection"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/message"
	"github.com/vechain/bftharness/scenario"
)

// ErrNoCommit is returned for a SHOULD_COMMIT unit without a commit, when
// Config.RequireCommit is set.
var ErrNoCommit = errors.New("no commit")

// Actuator is the round script interpreter for one node under test.
// It is not safe for concurrent use.
type Actuator struct {
	cfg      Config
	support  Support
	sink     Sink
	logger   log.Logger
	labels   map[string]string
	rng      *rand.ChaCha8
	denylist []message.Value

	height    uint64
	round     uint64
	locked    bool
	lockRound uint64
	lockValue message.Value
	proposal  message.Value // working proposal

	votes     *collection.VoteCache
	proposals *collection.ProposalCollector
	commits   *collection.CommitCollector

	committed   int
	started     bool
	closed      bool
	runStart    mclock.AbsTime
	heightStart mclock.AbsTime
}

// New creates an actuator driving support. The actuator owns sink, which may
// be nil, and releases it on Close.
func New(cfg Config, support Support, sink Sink) (*Actuator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "actuator config")
	}
	if sink == nil {
		sink = nopSink{}
	}

	n := len(cfg.Authorities)
	// one conflicting value per scripted slot
	denylist := make([]message.Value, n-1)
	for i := range denylist {
		denylist[i] = message.Value(bytes.Repeat([]byte{byte(i)}, cfg.ValueSize))
	}

	seed := message.ValueHash(binary.BigEndian.AppendUint64(binary.BigEndian.AppendUint64(nil, cfg.Seed), uint64(cfg.Node)))

	return &Actuator{
		cfg:       cfg,
		support:   support,
		sink:      sink,
		logger:    log.New("pkg", "actuator", "node", cfg.Node),
		labels:    map[string]string{"node": strconv.Itoa(cfg.Node)},
		rng:       rand.NewChaCha8(seed),
		denylist:  denylist,
		height:    cfg.Height,
		round:     cfg.Round,
		votes:     collection.NewVoteCache(),
		proposals: collection.NewProposalCollector(),
		commits:   collection.NewCommitCollector(n, true),
	}, nil
}

// Height returns the current height.
func (a *Actuator) Height() uint64 { return a.height }

// Round returns the current round.
func (a *Actuator) Round() uint64 { return a.round }

// Lock returns the lock state.
func (a *Actuator) Lock() (round uint64, value message.Value, ok bool) {
	return a.lockRound, a.lockValue, a.locked
}

// Proposal returns the working proposal, nil when none.
func (a *Actuator) Proposal() message.Value { return a.proposal }

// Committed returns the number of heights committed so far.
func (a *Actuator) Committed() int { return a.committed }

// Votes returns the vote cache.
func (a *Actuator) Votes() *collection.VoteCache { return a.votes }

// Proposals returns the proposals sent, including the values fed to the node.
func (a *Actuator) Proposals() *collection.ProposalCollector { return a.proposals }

// Denylist returns the conflicting values voted by byzantine slots.
func (a *Actuator) Denylist() []message.Value { return a.denylist }

// Start announces the first height to the node. Step calls it when needed.
func (a *Actuator) Start() error {
	if a.started {
		return nil
	}
	a.started = true
	a.runStart = mclock.Now()
	a.heightStart = a.runStart
	a.updateGauges()
	return a.sendStatus()
}

// Run plays units in order and returns the first failure.
func (a *Actuator) Run(ctx context.Context, units []scenario.Unit) error {
	if err := a.Start(); err != nil {
		return err
	}
	for i, u := range units {
		if err := a.Step(ctx, u); err != nil {
			return errors.WithMessagef(err, "unit %d (%v)", i, u)
		}
	}
	a.logger.Info("script finished",
		"units", len(units),
		"committed", a.committed,
		"height", a.height,
		"elapsed", time.Duration(mclock.Now()-a.runStart))
	return nil
}

// Step plays one unit to completion.
func (a *Actuator) Step(ctx context.Context, u scenario.Unit) error {
	if err := u.Validate(len(a.cfg.Authorities) - 1); err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}
	metricUnits().AddWithLabel(1, map[string]string{"unit": unitLabel(u)})

	var err error
	switch u.Sentinel {
	case scenario.ShouldCommit:
		err = a.shouldCommit()
	case scenario.NoCommitButLock:
		err = a.noCommit(true)
	case scenario.NoCommitNoLock:
		err = a.noCommit(false)
	case scenario.NullRound:
		a.nextRound()
	default:
		err = a.ballot(ctx, u)
	}

	if kind, ok := fault.KindOf(err); ok {
		metricFaults().AddWithLabel(1, map[string]string{"kind": kind.String()})
		a.logger.Warn("fault detected", "height", a.height, "round", a.round, "unit", u, "err", err)
	}
	return err
}

// Close stops the node and releases the sink.
func (a *Actuator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.support.Stop()
	return a.sink.Close()
}

func unitLabel(u scenario.Unit) string {
	if u.IsBallot() {
		return "ballot"
	}
	return u.Sentinel.String()
}

func (a *Actuator) shouldCommit() error {
	c := a.support.PollCommit()
	if c == nil {
		if a.cfg.RequireCommit {
			return errors.WithMessagef(ErrNoCommit, "height %d, round %d", a.height, a.round)
		}
		// nothing reached quorum, retry next round
		a.logger.Warn("no commit yet", "height", a.height, "round", a.round)
		a.nextRound()
		return nil
	}
	if err := a.persist(c); err != nil {
		return err
	}
	if err := a.commits.Add(c); err != nil {
		return err
	}
	if !c.Result.Equal(a.proposal) {
		return fault.New(fault.CommitIncorrect, a.height, a.round).WithValues(a.proposal, c.Result)
	}

	elapsed := time.Duration(mclock.Now() - a.heightStart)
	metricHeightDuration().Observe(elapsed.Milliseconds())
	a.logger.Info("height committed", "height", a.height, "round", a.round, "result", c.Result, "elapsed", elapsed)

	a.committed++
	a.nextHeight()
	return a.sendStatus()
}

func (a *Actuator) noCommit(lock bool) error {
	if lock {
		if a.proposal.IsNil() {
			a.logger.Warn("nothing to lock", "height", a.height, "round", a.round)
		} else {
			a.setLock(a.round, a.proposal)
		}
	}
	if c := a.support.PollCommit(); c != nil {
		if err := a.persist(c); err != nil {
			return err
		}
		return fault.New(fault.CommitInvalid, a.height, a.round).WithValues(nil, c.Result)
	}
	a.nextRound()
	return nil
}

func (a *Actuator) setLock(round uint64, value message.Value) {
	a.locked = true
	a.lockRound = round
	a.lockValue = value.Clone()
	a.proposal = a.lockValue
	a.commits.SetProposal(a.height, value)
	a.logger.Debug("locked", "height", a.height, "round", round, "value", value)
}

func (a *Actuator) clearLock() {
	a.locked = false
	a.lockRound = 0
	a.lockValue = nil
	a.proposal = nil
}

func (a *Actuator) nextRound() {
	if a.locked {
		a.proposal = a.lockValue
	} else {
		a.proposal = nil
	}
	a.round++
	a.updateGauges()
}

func (a *Actuator) nextHeight() {
	a.votes.ClearPrevoteCount()
	a.clearLock()
	a.round = 0
	a.height++
	a.heightStart = mclock.Now()
	a.updateGauges()
}

func (a *Actuator) updateGauges() {
	metricHeight().SetWithLabel(int64(a.height), a.labels)
	metricRound().SetWithLabel(int64(a.round), a.labels)
}

func (a *Actuator) sendStatus() error {
	status := &message.Status{
		Height:      a.height,
		Authorities: append([]message.Address(nil), a.cfg.Authorities...),
	}
	if err := a.persist(status); err != nil {
		return err
	}
	a.support.Send(status)
	return nil
}

func (a *Actuator) persist(msg message.Message) error {
	if err := a.sink.Write(msg); err != nil {
		return errors.Wrapf(err, "persist %v", msg.Kind())
	}
	return nil
}

func (a *Actuator) denylisted(v message.Value) bool {
	for _, d := range a.denylist {
		if d.Equal(v) {
			return true
		}
	}
	return false
}

// draw returns a fresh random value, redrawn while it hits the denylist.
func (a *Actuator) draw() message.Value {
	v := make(message.Value, a.cfg.ValueSize)
	for range a.cfg.MaxRedraw + 1 {
		_, _ = a.rng.Read(v)
		if !a.denylisted(v) {
			break
		}
	}
	return v
}

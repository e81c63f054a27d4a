// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actuator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vechain/bftharness/collection"
	"github.com/vechain/bftharness/fault"
	"github.com/vechain/bftharness/message"
	"github.com/vechain/bftharness/scenario"
)

func (a *Actuator) ballot(ctx context.Context, u scenario.Unit) error {
	if err := a.propose(); err != nil {
		return err
	}

	if err := a.emit(message.Prevote, u.Prevote); err != nil {
		return err
	}
	prevote, err := a.receive(ctx, message.Prevote)
	if err != nil {
		return err
	}
	if err := a.checkPrevote(prevote); err != nil {
		return err
	}

	if err := a.emit(message.Precommit, u.Precommit); err != nil {
		return err
	}
	precommit, err := a.receive(ctx, message.Precommit)
	if err != nil {
		return err
	}
	return a.checkPrecommit(precommit)
}

// propose feeds the node when it holds the proposer seat, or proposes on
// behalf of another authority.
func (a *Actuator) propose() error {
	n := len(a.cfg.Authorities)
	proposer := a.support.Proposer(a.height, a.round)

	switch {
	case proposer == 0:
		feed := &message.Feed{Height: a.height, Round: a.round, Proposal: a.draw()}
		if a.locked {
			a.proposal = a.lockValue
		} else {
			a.proposal = feed.Proposal
		}
		// a locked node proposes its lock, whatever it is fed
		a.proposals.Add(&message.Proposal{
			Height:   a.height,
			Round:    a.round,
			Content:  a.proposal.Clone(),
			Proposer: a.cfg.Authorities[0],
		})
		if err := a.persist(feed); err != nil {
			return err
		}
		a.support.Send(feed)
		a.logger.Debug("fed node", "height", a.height, "round", a.round, "value", feed.Proposal)
	case proposer > 0 && proposer < n:
		p := a.newProposal(proposer)
		a.proposal = p.Content
		if !a.proposals.Add(p) {
			a.logger.Warn("round already proposed", "height", a.height, "round", a.round)
		}
		if err := a.persist(p); err != nil {
			return err
		}
		a.support.Send(p)
		a.logger.Debug("proposed", "proposal", p)
	default:
		return errors.Errorf("proposer index %d beyond authority list of %d", proposer, n)
	}
	return nil
}

// newProposal carries the locked value and its proof of lock change, if any.
func (a *Actuator) newProposal(proposer int) *message.Proposal {
	p := &message.Proposal{
		Height:   a.height,
		Round:    a.round,
		Proposer: a.cfg.Authorities[proposer],
	}
	if !a.locked {
		p.Content = a.draw()
		return p
	}

	lockRound := a.lockRound
	p.Content = a.lockValue.Clone()
	p.LockRound = &lockRound
	if vs := a.votes.VoteSet(a.height, lockRound, message.Prevote); vs != nil {
		p.LockVotes = vs.ExtractPoLC(a.height, lockRound, message.Prevote, a.lockValue)
	}
	return p
}

// emit sends the scripted votes of one half. An offline slot silences the
// rest of the half.
func (a *Actuator) emit(typ message.VoteType, half []scenario.Behavior) error {
	value := a.proposal
	if a.locked {
		value = a.lockValue
	}

	for i, b := range half {
		var v message.Value
		switch b {
		case scenario.Offline:
			return nil
		case scenario.Normal:
			v = value.Clone()
		case scenario.Byzantine:
			v = a.denylist[i].Clone()
		}
		vote := &message.Vote{
			Height:   a.height,
			Round:    a.round,
			Type:     typ,
			Proposal: v,
			Voter:    a.cfg.Authorities[i+1],
		}
		if err := a.persist(vote); err != nil {
			return err
		}
		a.support.Send(vote)
		a.votes.Add(vote)
		metricVotes().AddWithLabel(1, map[string]string{"type": typ.String(), "source": b.String()})
	}
	return nil
}

// receive blocks for the node's vote of the given step.
func (a *Actuator) receive(ctx context.Context, typ message.VoteType) (*message.Vote, error) {
	msg, err := a.support.Receive(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "receive %v at height %d, round %d", typ, a.height, a.round)
	}

	vote, ok := msg.(*message.Vote)
	if !ok {
		f := fault.New(fault.AbnormalProposal, a.height, a.round)
		if p, ok := msg.(*message.Proposal); ok {
			f.WithProposal(p)
		}
		return nil, f
	}
	if vote.Type != typ || vote.Height != a.height || vote.Round != a.round || a.denylisted(vote.Proposal) {
		return nil, fault.New(fault.IllegalVote, a.height, a.round).WithVote(vote)
	}

	if !a.votes.Add(vote) {
		a.logger.Debug("duplicated vote", "vote", vote)
	}
	if err := a.persist(vote); err != nil {
		return nil, err
	}
	metricVotes().AddWithLabel(1, map[string]string{"type": typ.String(), "source": "node"})
	return vote, nil
}

// checkPrevote updates the lock from the prevote tally of the round.
func (a *Actuator) checkPrevote(vote *message.Vote) error {
	vs := a.votes.VoteSet(a.height, a.round, message.Prevote)
	if vs == nil {
		return fault.New(fault.IllegalVote, a.height, a.round).WithVote(vote)
	}

	value, ok := vs.Majority(len(a.cfg.Authorities))
	switch {
	case ok && !value.IsNil():
		a.setLock(a.round, value)
	case ok:
		a.clearLock()
		a.logger.Debug("nil polka, unlocked", "height", a.height, "round", a.round)
	default:
		a.proposal = nil
	}
	return nil
}

// checkPrecommit checks the node's precommit against the prevote tally.
func (a *Actuator) checkPrecommit(vote *message.Vote) error {
	n := len(a.cfg.Authorities)
	vs := a.votes.VoteSet(a.height, a.round, message.Prevote)
	if vs == nil {
		return fault.New(fault.IllegalVote, a.height, a.round).WithVote(vote)
	}

	value, ok := vs.Majority(n)
	if !ok {
		// a nil precommit is what a node does when prevotes time out
		if !vote.Proposal.IsNil() {
			return fault.New(fault.ShouldNotPrecommit, a.height, a.round).WithVote(vote)
		}
		return nil
	}

	if !value.Equal(vote.Proposal) {
		return fault.New(fault.PrecommitErr, a.height, a.round).WithVote(vote).WithValues(value, vote.Proposal)
	}
	if polc := vs.ExtractPoLC(a.height, a.round, message.Prevote, vote.Proposal); len(polc) < collection.QuorumSize(n) {
		return fault.New(fault.PrecommitDiffPoLC, a.height, a.round).WithVote(vote)
	}
	return nil
}

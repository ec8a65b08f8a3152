// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package council implements Elder Council voting, spec section 4.5:
// a message-inbox workflow through which Elderfier validators cast
// plurality votes on misbehavior evidence, with harshness as the tie
// break and a slashing action carried out against the deposit index
// and supply ledger once quorum is reached.
//
// Council deliberately takes no lock of its own. Every exported method
// takes depositindex.Store's exclusive lock for the duration of a vote
// mutation, per spec section 5's instruction that the two subsystems
// must never order two independent mutexes against each other.
package council

import (
	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
	"github.com/monetarium/elderfier/internal/elderfier/depositindex"
	"github.com/monetarium/elderfier/internal/elderfier/securitywindow"
	"github.com/monetarium/elderfier/internal/elderfier/supply"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Policy bundles the council's configurable parameters, spec section
// 4.5's defaults.
type Policy struct {
	QuorumSize     int
	VotingWindow   int64 // seconds
}

// DefaultPolicy returns spec section 4.5's defaults.
func DefaultPolicy() Policy {
	return Policy{QuorumSize: 5, VotingWindow: 86400}
}

// vote is one validator's ballot on a message.
type vote struct {
	voter     elderfier.ValidatorKey
	voteType  elderfier.VoteType
	pending   bool
}

// message is one open or resolved voting round, keyed by its message
// ID (fast_hash(evidence)), per spec section 4.5.
type message struct {
	id        elderfier.Hash
	evidence  elderfier.MisbehaviorEvidence
	createdAt int64
	read      bool
	votes     []vote
	resolved  bool
	outcome   elderfier.VoteType
}

// Council is the Elder Council voting subsystem. It shares depositIdx's
// lock rather than taking its own.
type Council struct {
	policy     Policy
	depositIdx *depositindex.Store
	ledger     *supply.Ledger

	messages map[elderfier.Hash]*message
	order    []elderfier.Hash
}

// New creates a council voting subsystem sharing depositIdx's lock and
// invoking slashes against ledger.
func New(policy Policy, depositIdx *depositindex.Store, ledger *supply.Ledger) *Council {
	return &Council{
		policy:     policy,
		depositIdx: depositIdx,
		ledger:     ledger,
		messages:   make(map[elderfier.Hash]*message),
	}
}

// CreateVotingMessage opens a new voting round over evidence, returning
// the message ID new ballots must reference. Per spec section 4.5 the
// ID is fast_hash(evidence)'s serialized bytes, so identical evidence
// submitted twice collapses onto the same round rather than opening a
// duplicate.
func (c *Council) CreateVotingMessage(evidence elderfier.MisbehaviorEvidence, now int64) elderfier.Hash {
	id := elderfier.FastHash(evidence.Serialize())

	c.depositIdx.Lock()
	defer c.depositIdx.Unlock()

	if existing, ok := c.messages[id]; ok {
		return existing.id
	}
	c.messages[id] = &message{id: id, evidence: evidence, createdAt: now}
	c.order = append(c.order, id)
	log.Infof("opened voting message %s against validator %s", id, evidence.TargetKey)
	return id
}

// GetVotingMessages returns every voting round's evidence, oldest
// first. Resolution state is not included.
func (c *Council) GetVotingMessages() []elderfier.MisbehaviorEvidence {
	c.depositIdx.RLock()
	defer c.depositIdx.RUnlock()

	out := make([]elderfier.MisbehaviorEvidence, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.messages[id].evidence)
	}
	return out
}

// GetUnread returns the evidence of every voting round not yet marked
// read by MarkRead.
func (c *Council) GetUnread() []elderfier.MisbehaviorEvidence {
	c.depositIdx.RLock()
	defer c.depositIdx.RUnlock()

	var out []elderfier.MisbehaviorEvidence
	for _, id := range c.order {
		if m := c.messages[id]; !m.read {
			out = append(out, m.evidence)
		}
	}
	return out
}

// MarkRead flags messageID as read by the caller's client, without
// affecting the vote tally.
func (c *Council) MarkRead(messageID elderfier.Hash) error {
	c.depositIdx.Lock()
	defer c.depositIdx.Unlock()

	m, ok := c.messages[messageID]
	if !ok {
		return elderfier.NewError(elderfier.ErrNotFound, "unknown voting message")
	}
	m.read = true
	return nil
}

// SubmitVoteOnMessage records voter's pending ballot of voteType
// against messageID. A voter may only have one outstanding ballot per
// message; resubmission replaces it while still pending, and a voter
// whose ballot is already confirmed gets ErrConflict.
func (c *Council) SubmitVoteOnMessage(messageID elderfier.Hash, voter elderfier.ValidatorKey, voteType elderfier.VoteType, now int64) error {
	c.depositIdx.Lock()
	defer c.depositIdx.Unlock()

	m, ok := c.messages[messageID]
	if !ok {
		return elderfier.NewError(elderfier.ErrNotFound, "unknown voting message")
	}
	if m.resolved {
		return elderfier.NewError(elderfier.ErrConflict, "voting message already resolved")
	}
	if now-m.createdAt > c.policy.VotingWindow {
		return elderfier.NewError(elderfier.ErrPolicyViolation, "voting window has closed")
	}

	for i, v := range m.votes {
		if v.voter == voter && !v.pending {
			return elderfier.NewError(elderfier.ErrConflict, "vote already confirmed")
		}
		if v.voter == voter && v.pending {
			m.votes[i].voteType = voteType
			return nil
		}
	}
	m.votes = append(m.votes, vote{voter: voter, voteType: voteType, pending: true})
	return nil
}

// ConfirmVoteOnMessage finalizes voter's pending ballot, making it
// count toward quorum. Confirmed ballots cannot be changed, cancelled
// or resubmitted; only a pending ballot can be replaced or cancelled.
func (c *Council) ConfirmVoteOnMessage(messageID elderfier.Hash, voter elderfier.ValidatorKey) error {
	c.depositIdx.Lock()
	defer c.depositIdx.Unlock()

	m, ok := c.messages[messageID]
	if !ok {
		return elderfier.NewError(elderfier.ErrNotFound, "unknown voting message")
	}
	for i, v := range m.votes {
		if v.voter == voter && v.pending {
			m.votes[i].pending = false
			return nil
		}
	}
	return elderfier.NewError(elderfier.ErrNotFound, "no pending vote for this voter")
}

// CancelPendingVote withdraws voter's not-yet-confirmed ballot.
func (c *Council) CancelPendingVote(messageID elderfier.Hash, voter elderfier.ValidatorKey) error {
	c.depositIdx.Lock()
	defer c.depositIdx.Unlock()

	m, ok := c.messages[messageID]
	if !ok {
		return elderfier.NewError(elderfier.ErrNotFound, "unknown voting message")
	}
	for i, v := range m.votes {
		if v.voter == voter && v.pending {
			m.votes = append(m.votes[:i], m.votes[i+1:]...)
			return nil
		}
	}
	return elderfier.NewError(elderfier.ErrNotFound, "no pending vote for this voter")
}

// HasQuorum reports whether messageID has accumulated at least
// QuorumSize confirmed votes.
func (c *Council) HasQuorum(messageID elderfier.Hash) (bool, error) {
	c.depositIdx.RLock()
	defer c.depositIdx.RUnlock()

	m, ok := c.messages[messageID]
	if !ok {
		return false, elderfier.NewError(elderfier.ErrNotFound, "unknown voting message")
	}
	return confirmedCount(m) >= c.policy.QuorumSize, nil
}

func confirmedCount(m *message) int {
	n := 0
	for _, v := range m.votes {
		if !v.pending {
			n++
		}
	}
	return n
}

// tally returns the plurality outcome among confirmed votes, breaking
// ties toward the harsher verdict per spec section 4.5's "err toward
// slashing" tie-break rule.
func tally(m *message) elderfier.VoteType {
	counts := map[elderfier.VoteType]int{}
	for _, v := range m.votes {
		if !v.pending {
			counts[v.voteType]++
		}
	}

	best := elderfier.VoteGoodKeepAll
	bestCount := -1
	for _, vt := range []elderfier.VoteType{
		elderfier.VoteSlashAll, elderfier.VoteSlashHalf,
		elderfier.VoteSlashNone, elderfier.VoteGoodKeepAll,
	} {
		n := counts[vt]
		if n > bestCount || (n == bestCount && elderfier.HarsherOrEqual(vt, best)) {
			best = vt
			bestCount = n
		}
	}
	return best
}

// ResolveIfQuorum checks messageID for quorum and, if reached, tallies
// the plurality outcome, applies the corresponding slashing action
// against the deposit index and supply ledger, and marks the message
// resolved. It is a no-op returning (false, nil) if quorum has not
// been reached.
func (c *Council) ResolveIfQuorum(messageID elderfier.Hash, height int64, now int64) (bool, elderfier.VoteType, error) {
	c.depositIdx.Lock()

	m, ok := c.messages[messageID]
	if !ok {
		c.depositIdx.Unlock()
		return false, elderfier.VoteGoodKeepAll, elderfier.NewError(elderfier.ErrNotFound, "unknown voting message")
	}
	if m.resolved {
		c.depositIdx.Unlock()
		return false, m.outcome, nil
	}
	if confirmedCount(m) < c.policy.QuorumSize {
		c.depositIdx.Unlock()
		return false, elderfier.VoteGoodKeepAll, nil
	}

	outcome := tally(m)
	target := m.evidence.TargetKey
	m.resolved = true
	m.outcome = outcome
	c.depositIdx.Unlock()

	if err := c.applySlash(target, outcome, height, now); err != nil {
		return true, outcome, err
	}
	log.Infof("voting message %s resolved: %s against validator %s", messageID, outcome, target)
	return true, outcome, nil
}

// applySlash carries out outcome's consequence, per spec section 4.5:
// VoteGoodKeepAll and VoteSlashNone leave the deposit untouched;
// VoteSlashHalf and VoteSlashAll mark the deposit slashed in the
// security-window FSM, remove it from the deposit index entirely (spec
// section 4.5: "Remove the deposit from the index, mark slashed"), and
// burn the corresponding fraction of its stake into the supply
// ledger's reward pool.
func (c *Council) applySlash(target elderfier.ValidatorKey, outcome elderfier.VoteType, height int64, now int64) error {
	if outcome == elderfier.VoteGoodKeepAll || outcome == elderfier.VoteSlashNone {
		return nil
	}

	d, err := c.depositIdx.GetDeposit(target)
	if err != nil {
		return err
	}

	slashAmount := elderfier.Amount(uint64(d.StakeAmount) * uint64(outcome.SlashPercent()) / 100)

	if err := securitywindow.Slash(d, now); err != nil {
		return err
	}
	if err := c.depositIdx.Remove(target); err != nil {
		return err
	}

	if slashAmount > 0 {
		if err := c.ledger.AddBurned(slashAmount, height); err != nil {
			return err
		}
	}
	return nil
}

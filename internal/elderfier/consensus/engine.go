// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consensus implements the progressive consensus engine of
// spec section 4.4: a two-tier (fast 2/2, fallback 4/5) protocol that
// falls back to a full 7/10 quorum, producing a ConsensusResult for
// the burn-proof validator to accept or reject.
//
// The message-hash/verification routine (VerifyConsensus) follows the
// domain-separated-hash-then-verify pattern of the teacher's
// internal/blockchain/ska_emission.go verifyEmissionSignature: bind
// every field that must not be substituted into one hash, then check
// each participant's signature over it.
package consensus

import (
	"context"
	"time"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Transport abstracts polling a single Elderfier participant for its
// verdict on a burn-proof claim, per spec section 4.4's
// ConsensusTransport. The concrete network implementation lives
// outside this subsystem.
type Transport interface {
	// Poll asks participant for its verdict on (txHash, commitment,
	// amount) within the given context deadline. A participant that
	// does not respond before ctx is done must return a non-nil error;
	// the engine treats that as non-agreement, never as a match.
	Poll(ctx context.Context, participant elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount) (Verdict, error)
}

// Verdict is one participant's answer to a poll.
type Verdict struct {
	CommitmentMatch bool
	AmountMatch     bool
	Signature       elderfier.Signature
}

// SignatureVerifier verifies a participant's signature over the
// consensus message hash.
type SignatureVerifier interface {
	Verify(pub elderfier.ValidatorKey, message []byte, sig elderfier.Signature) bool
}

// Policy bundles the progressive consensus thresholds of spec section
// 4.4. FallbackThreshold and FallbackMatchFraction are deliberately
// independent knobs (spec section 9's first open question): the
// former is a minimum responder count, the latter an agreement
// fraction over TotalEldernodes.
type Policy struct {
	FastPassEnabled        bool
	FastPassThreshold      int
	FallbackThreshold      int
	FallbackFraction       float64
	FallbackMatchFraction  float64
	FullQuorumThreshold    int
	FullQuorumMatchFraction float64
	TotalEldernodes        int

	TimeoutSeconds  int
	RetryAttempts   int

	FastPassConfirmations   int
	FallbackConfirmations   int
	FullQuorumConfirmations int
}

// DefaultPolicy returns spec section 4.4's default thresholds.
func DefaultPolicy(totalEldernodes int) Policy {
	return Policy{
		FastPassEnabled:         true,
		FastPassThreshold:       2,
		FallbackThreshold:       4,
		FallbackFraction:        0.5,
		FallbackMatchFraction:   0.80,
		FullQuorumThreshold:     7,
		FullQuorumMatchFraction: 0.69,
		TotalEldernodes:         totalEldernodes,
		TimeoutSeconds:          30,
		RetryAttempts:           3,
		FastPassConfirmations:   3,
		FallbackConfirmations:   6,
		FullQuorumConfirmations: 9,
	}
}

// Threshold returns the minimum participant count required for path,
// used both by the engine and by ConsensusResult invariant checks
// (spec section 8, property 4).
func (p Policy) Threshold(path elderfier.ConsensusPath) int {
	switch path {
	case elderfier.ConsensusFastPath:
		return p.FastPassThreshold
	case elderfier.ConsensusFallback:
		return p.FallbackThreshold
	case elderfier.ConsensusFullQuorum:
		return p.FullQuorumThreshold
	default:
		return 0
	}
}

// Validate checks the policy's internal ordering invariant: fast <=
// fallback <= full <= total.
func (p Policy) Validate() error {
	if !(p.FastPassThreshold <= p.FallbackThreshold &&
		p.FallbackThreshold <= p.FullQuorumThreshold &&
		p.FullQuorumThreshold <= p.TotalEldernodes) {
		return elderfier.NewError(elderfier.ErrStructural, "consensus thresholds must satisfy fast <= fallback <= full <= total")
	}
	return nil
}

// Engine runs the progressive consensus algorithm against a pool of
// active Elderfier participants.
type Engine struct {
	policy    Policy
	transport Transport
	verifier  SignatureVerifier
}

// New creates a consensus engine. policy is validated eagerly so a
// misconfigured threshold ladder fails at construction, not mid-round.
func New(policy Policy, transport Transport, verifier SignatureVerifier) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy, transport: transport, verifier: verifier}, nil
}

// RequestConsensus runs the three-tier algorithm of spec section 4.4
// against active, returning the first path that reaches its threshold.
func (e *Engine) RequestConsensus(ctx context.Context, active []elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount) (*elderfier.ConsensusResult, error) {
	now := time.Now().Unix()

	if e.policy.FastPassEnabled && len(active) >= e.policy.FastPassThreshold {
		if result, ok := e.tryFastPass(ctx, active, txHash, commitment, amount, now); ok {
			return result, nil
		}
	}

	if result, ok := e.tryFallback(ctx, active, txHash, commitment, amount, now); ok {
		return result, nil
	}

	if result, ok := e.tryFullQuorum(ctx, active, txHash, commitment, amount, now); ok {
		return result, nil
	}

	return nil, elderfier.NewError(elderfier.ErrConsensusFailure, "no consensus path reached its threshold")
}

// polled bundles one participant's poll outcome for tallying.
type polled struct {
	key     elderfier.ValidatorKey
	verdict Verdict
}

func (e *Engine) pollAll(ctx context.Context, participants []elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount) []polled {
	timeout := time.Duration(e.policy.TimeoutSeconds) * time.Second
	out := make([]polled, 0, len(participants))
	for _, p := range participants {
		var v Verdict
		var err error
		for attempt := 0; attempt <= e.policy.RetryAttempts; attempt++ {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			v, err = e.transport.Poll(pctx, p, txHash, commitment, amount)
			cancel()
			if err == nil {
				break
			}
		}
		if err != nil {
			// Non-response counts as non-agreement, never a match.
			continue
		}
		out = append(out, polled{key: p, verdict: v})
	}
	return out
}

func (e *Engine) tryFastPass(ctx context.Context, active []elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount, now int64) (*elderfier.ConsensusResult, bool) {
	participants := active[:e.policy.FastPassThreshold]
	responses := e.pollAll(ctx, participants, txHash, commitment, amount)
	if len(responses) < e.policy.FastPassThreshold {
		return nil, false
	}
	for _, r := range responses {
		if !r.verdict.CommitmentMatch || !r.verdict.AmountMatch {
			return nil, false
		}
	}

	return e.buildResult(responses, elderfier.ConsensusFastPath, txHash, commitment, amount, now), true
}

func (e *Engine) tryFallback(ctx context.Context, active []elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount, now int64) (*elderfier.ConsensusResult, bool) {
	pollCount := int(float64(len(active)) * e.policy.FallbackFraction)
	if pollCount < e.policy.FallbackThreshold {
		pollCount = e.policy.FallbackThreshold
	}
	if pollCount > len(active) {
		pollCount = len(active)
	}
	participants := active[:pollCount]
	responses := e.pollAll(ctx, participants, txHash, commitment, amount)

	matches := countMatches(responses)
	required := int(e.policy.FallbackMatchFraction * float64(e.policy.TotalEldernodes))
	if required < e.policy.FallbackThreshold {
		required = e.policy.FallbackThreshold
	}
	if matches < required {
		return nil, false
	}

	matching := filterMatching(responses)
	if len(matching) < e.policy.FallbackThreshold {
		return nil, false
	}
	return e.buildResult(matching, elderfier.ConsensusFallback, txHash, commitment, amount, now), true
}

func (e *Engine) tryFullQuorum(ctx context.Context, active []elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount, now int64) (*elderfier.ConsensusResult, bool) {
	responses := e.pollAll(ctx, active, txHash, commitment, amount)

	matches := countMatches(responses)
	required := int(e.policy.FullQuorumMatchFraction * float64(e.policy.TotalEldernodes))
	if required < e.policy.FullQuorumThreshold {
		required = e.policy.FullQuorumThreshold
	}
	if matches < required {
		return nil, false
	}

	matching := filterMatching(responses)
	if len(matching) < e.policy.FullQuorumThreshold {
		return nil, false
	}
	return e.buildResult(matching, elderfier.ConsensusFullQuorum, txHash, commitment, amount, now), true
}

func countMatches(responses []polled) int {
	n := 0
	for _, r := range responses {
		if r.verdict.CommitmentMatch && r.verdict.AmountMatch {
			n++
		}
	}
	return n
}

func filterMatching(responses []polled) []polled {
	out := make([]polled, 0, len(responses))
	for _, r := range responses {
		if r.verdict.CommitmentMatch && r.verdict.AmountMatch {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) buildResult(matching []polled, path elderfier.ConsensusPath, txHash, commitment elderfier.Hash, amount elderfier.Amount, now int64) *elderfier.ConsensusResult {
	ids := make([]elderfier.ValidatorKey, len(matching))
	sigs := make([]elderfier.Signature, len(matching))
	for i, m := range matching {
		ids[i] = m.key
		sigs[i] = m.verdict.Signature
	}
	log.Debugf("consensus reached via %s path with %d participants", path, len(ids))
	return &elderfier.ConsensusResult{
		ParticipantIDs:  ids,
		Signatures:      sigs,
		TxHash:          txHash,
		Commitment:      commitment,
		Amount:          amount,
		PathUsed:        path,
		Threshold:       e.policy.Threshold(path),
		Timestamp:       now,
		CommitmentMatch: true,
		AmountMatch:     true,
	}
}

// ActiveParticipants supplies the current pool of eligible Elderfier
// validators an Adapter polls against. depositindex.Store satisfies
// this directly through its ActiveParticipantKeys method.
type ActiveParticipants interface {
	ActiveParticipantKeys() []elderfier.ValidatorKey
}

// Adapter narrows Engine to burnproof.ConsensusRequester's
// context-free, participant-list-free signature, so the validator
// never needs to know how the active set is sourced or how long to
// wait. It uses context.Background bounded only by the engine's own
// per-poll timeouts.
type Adapter struct {
	engine       *Engine
	participants ActiveParticipants
}

// NewAdapter builds a burnproof.ConsensusRequester backed by engine,
// polling whatever participants reports as active at request time.
func NewAdapter(engine *Engine, participants ActiveParticipants) *Adapter {
	return &Adapter{engine: engine, participants: participants}
}

// RequestConsensus satisfies burnproof.ConsensusRequester.
func (a *Adapter) RequestConsensus(txHash, commitment elderfier.Hash, amount elderfier.Amount) (*elderfier.ConsensusResult, error) {
	active := a.participants.ActiveParticipantKeys()
	return a.engine.RequestConsensus(context.Background(), active, txHash, commitment, amount)
}

// VerifyConsensus satisfies burnproof.ConsensusRequester.
func (a *Adapter) VerifyConsensus(result *elderfier.ConsensusResult) error {
	return a.engine.VerifyConsensus(result)
}

// MessageHash computes the domain-separated hash every participant
// signs over: fast_hash(tx_hash || commitment || amount_decimal).
func MessageHash(txHash, commitment elderfier.Hash, amount elderfier.Amount) elderfier.Hash {
	return elderfier.FastHash(txHash[:], commitment[:], []byte(amount.String()))
}

// VerifyConsensus checks spec section 4.4's verify_eldernode_consensus
// invariants: matching slice lengths, a length at least the path's
// threshold, and every signature verifying under its participant's
// key over the shared message hash.
func (e *Engine) VerifyConsensus(result *elderfier.ConsensusResult) error {
	if len(result.ParticipantIDs) != len(result.Signatures) {
		return elderfier.NewError(elderfier.ErrStructural, "participant and signature counts differ")
	}
	if len(result.ParticipantIDs) < e.policy.Threshold(result.PathUsed) {
		return elderfier.NewError(elderfier.ErrConsensusFailure, "participant count below path threshold")
	}

	msg := MessageHash(result.TxHash, result.Commitment, result.Amount)
	for i, id := range result.ParticipantIDs {
		if !e.verifier.Verify(id, msg[:], result.Signatures[i]) {
			return elderfier.NewError(elderfier.ErrConsensusFailure, "signature verification failed for participant "+id.String())
		}
	}
	return nil
}

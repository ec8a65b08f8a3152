// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package burnproof implements the burn-proof validator of spec
// section 4.3: dual commitment/amount validation of a cross-chain burn
// deposit, backed by a consensus round requested from the progressive
// consensus engine.
//
// The short-circuiting validation order and the narrow
// extract-from-chain interface are modeled directly on the teacher's
// internal/blockchain/ska_emission.go (ValidateAuthorizedSKAEmissionTransaction):
// structural checks first, then policy bounds, then an external
// authority is consulted, with every step wrapped in a descriptive
// error before the next is attempted.
package burnproof

import (
	"sync"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// ChainExtractor is the narrow interface for pulling burn-relevant
// data out of the node's transaction store, per spec section 4.3. The
// concrete implementation lives outside this subsystem. New stores it,
// but ValidateBurnDeposit does not call it: commitment and amount
// matches come from the consensus result.
type ChainExtractor interface {
	// ExtractCommitment returns the hex-encoded tx_extra commitment
	// (tag 0x08) carried by txHash.
	ExtractCommitment(txHash elderfier.Hash) (string, error)
	// ExtractBurnAmount returns the burn amount carried by txHash's
	// designated burn output.
	ExtractBurnAmount(txHash elderfier.Hash) (elderfier.Amount, error)
}

// ConsensusRequester is the narrow interface the validator uses to
// request and verify a progressive consensus round, keeping this
// package decoupled from package consensus's concrete engine type so
// either can be tested in isolation.
type ConsensusRequester interface {
	RequestConsensus(txHash, commitment elderfier.Hash, amount elderfier.Amount) (*elderfier.ConsensusResult, error)
	VerifyConsensus(result *elderfier.ConsensusResult) error
}

// Policy bundles the burn-proof validator's configurable bounds.
type Policy struct {
	MinAmount          elderfier.Amount
	MaxAmount          elderfier.Amount
	ProofExpiration    int64 // seconds
	DualValidation     bool
	RecentProofsLimit  int
}

// DefaultPolicy returns spec section 6/4.3's default bounds.
func DefaultPolicy() Policy {
	return Policy{
		MinAmount:         elderfier.MinBurnAmount,
		MaxAmount:         elderfier.MaxBurnAmount,
		ProofExpiration:   3600,
		DualValidation:    true,
		RecentProofsLimit: 4096,
	}
}

// ValidationResult is the outcome of ValidateBurnDeposit: spec section
// 4.3's BurnDepositValidationResult.
type ValidationResult struct {
	Success         bool
	VerifiedAmount  elderfier.Amount
	VerifiedHash    elderfier.Hash
	Timestamp       int64
	CommitmentMatch bool
	AmountMatch     bool
	FailureReason   string
}

// Validator validates burn proofs against on-chain data and policy,
// and maintains the append-only ring of recently-validated proofs used
// by VerifyBurnProof and by spec section 5's per-fingerprint
// serialization rule.
type Validator struct {
	policy    Policy
	extractor ChainExtractor
	consensus ConsensusRequester

	mu               sync.Mutex
	recentProofs     []*elderfier.BurnProof
	totalBurned      elderfier.Amount
	inFlight         map[elderfier.Hash]bool

	// signer, if set, lets GenerateBurnProof produce signed proofs on
	// behalf of this node.
	signer Signer
}

// Signer signs and exposes the public key used to sign burn proofs.
type Signer interface {
	PublicKey() elderfier.ValidatorKey
	Sign(message []byte) elderfier.Signature
}

// Verifier verifies a signature against a given public key; split out
// from Signer so verification never requires holding a private key.
type Verifier interface {
	Verify(pub elderfier.ValidatorKey, message []byte, sig elderfier.Signature) bool
}

// New creates a burn-proof validator.
func New(policy Policy, extractor ChainExtractor, consensus ConsensusRequester, signer Signer) *Validator {
	return &Validator{
		policy:    policy,
		extractor: extractor,
		consensus: consensus,
		inFlight:  make(map[elderfier.Hash]bool),
		signer:    signer,
	}
}

// beginFingerprint enforces spec section 5's ordering guarantee:
// within a single tx-hash fingerprint, only one validation runs at a
// time. It returns false if another validation for the same
// fingerprint is already in flight.
func (v *Validator) beginFingerprint(txHash elderfier.Hash) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inFlight[txHash] {
		return false
	}
	v.inFlight[txHash] = true
	return true
}

func (v *Validator) endFingerprint(txHash elderfier.Hash) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.inFlight, txHash)
}

// cachedResultFor returns a previously-validated proof matching
// txHash, used when a concurrent caller observes the fingerprint
// already in flight and when a fingerprint still held in the
// recent-proofs ring is validated again.
func (v *Validator) cachedResultFor(txHash elderfier.Hash) (*ValidationResult, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.recentProofs {
		if p.TxHash == txHash {
			return &ValidationResult{
				Success:        true,
				VerifiedAmount: p.Amount,
				VerifiedHash:   p.TxHash,
				Timestamp:      p.Timestamp,
			}, true
		}
	}
	return nil, false
}

// ValidateBurnDeposit runs the ordered, short-circuiting validation
// pipeline of spec section 4.3.
func (v *Validator) ValidateBurnDeposit(proof *elderfier.BurnProof, now int64) (*ValidationResult, error) {
	if !v.beginFingerprint(proof.TxHash) {
		if cached, ok := v.cachedResultFor(proof.TxHash); ok {
			return cached, nil
		}
		return nil, elderfier.NewError(elderfier.ErrConflict, "validation already in flight for this fingerprint")
	}
	defer v.endFingerprint(proof.TxHash)

	// An already-validated fingerprint is answered from the ring rather
	// than validated and counted into total burned a second time.
	if cached, ok := v.cachedResultFor(proof.TxHash); ok {
		return cached, nil
	}

	// 1. Structural validity.
	if err := v.checkStructural(proof); err != nil {
		return failure(err.Description), err
	}

	// 2. Amount bound.
	if proof.Amount < v.policy.MinAmount || proof.Amount > v.policy.MaxAmount {
		err := elderfier.NewError(elderfier.ErrPolicyViolation, "amount outside configured bounds")
		return failure(err.Description), err
	}

	// 3. Not expired.
	if now-proof.Timestamp > v.policy.ProofExpiration {
		err := elderfier.NewError(elderfier.ErrPolicyViolation, "proof expired")
		return failure(err.Description), err
	}

	// 4. Request consensus.
	result, err := v.consensus.RequestConsensus(proof.TxHash, proof.Commitment, proof.Amount)
	if err != nil {
		wrapped := elderfier.WrapError(elderfier.ErrConsensusFailure, "consensus request failed", err)
		return failure(wrapped.Description), wrapped
	}

	// 5. Verify the returned consensus.
	if err := v.consensus.VerifyConsensus(result); err != nil {
		wrapped := elderfier.WrapError(elderfier.ErrConsensusFailure, "consensus verification failed", err)
		return failure(wrapped.Description), wrapped
	}

	// 6. Dual validation.
	if v.policy.DualValidation && !(result.CommitmentMatch && result.AmountMatch) {
		err := elderfier.NewError(elderfier.ErrPolicyViolation, "commitment or amount mismatch under dual validation")
		return failure(err.Description), err
	}

	// 7. Append to ring buffer, increment counter.
	v.mu.Lock()
	v.recentProofs = append(v.recentProofs, proof)
	if over := len(v.recentProofs) - v.policy.RecentProofsLimit; over > 0 {
		v.recentProofs = v.recentProofs[over:]
	}
	v.totalBurned += proof.Amount
	v.mu.Unlock()

	log.Infof("validated burn proof %s for %s via %s consensus", proof.TxHash, proof.Amount, result.PathUsed)

	return &ValidationResult{
		Success:         true,
		VerifiedAmount:  result.Amount,
		VerifiedHash:    result.TxHash,
		Timestamp:       now,
		CommitmentMatch: result.CommitmentMatch,
		AmountMatch:     result.AmountMatch,
	}, nil
}

func (v *Validator) checkStructural(proof *elderfier.BurnProof) error {
	var zeroHash elderfier.Hash
	if proof.TxHash == zeroHash {
		return elderfier.NewError(elderfier.ErrStructural, "missing transaction hash")
	}
	if proof.Commitment == zeroHash {
		return elderfier.NewError(elderfier.ErrStructural, "missing commitment")
	}
	if proof.DepositorAddress == "" {
		return elderfier.NewError(elderfier.ErrStructural, "missing depositor address")
	}
	if proof.TreasuryAddress == "" {
		return elderfier.NewError(elderfier.ErrStructural, "missing treasury address")
	}
	if proof.Amount == 0 {
		return elderfier.NewError(elderfier.ErrStructural, "missing amount")
	}
	return nil
}

func failure(reason string) *ValidationResult {
	return &ValidationResult{Success: false, FailureReason: reason}
}

// VerifyBurnProof checks a signature and membership in the
// recent-proofs buffer, per spec section 4.3.
func (v *Validator) VerifyBurnProof(verifier Verifier, proof *elderfier.BurnProof, signerKey elderfier.ValidatorKey) bool {
	msg := signingMessage(proof)
	if !verifier.Verify(signerKey, msg, proof.Signature) {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.recentProofs {
		if p.TxHash == proof.TxHash && p.BurnHash == proof.BurnHash {
			return true
		}
	}
	return false
}

// GenerateBurnProof assembles, hashes, and signs a new burn proof.
// Returns nil if no signer was configured, matching spec section
// 4.3's Option<BurnProof> return shape.
func (v *Validator) GenerateBurnProof(amount elderfier.Amount, addr string, commitment, txHash elderfier.Hash, now int64) *elderfier.BurnProof {
	if v.signer == nil {
		return nil
	}

	proof := &elderfier.BurnProof{
		Amount:           amount,
		DepositorAddress: addr,
		Commitment:       commitment,
		TxHash:           txHash,
		Timestamp:        now,
	}
	proof.BurnHash = elderfier.FastHash(amountBytes(amount), []byte(addr), timestampBytes(now))
	proof.Signature = v.signer.Sign(signingMessage(proof))
	return proof
}

func signingMessage(proof *elderfier.BurnProof) []byte {
	var buf []byte
	buf = append(buf, proof.TxHash[:]...)
	buf = append(buf, proof.Commitment[:]...)
	buf = append(buf, amountBytes(proof.Amount)...)
	buf = append(buf, timestampBytes(proof.Timestamp)...)
	return buf
}

func amountBytes(a elderfier.Amount) []byte {
	v := uint64(a)
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24), byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56)}
}

func timestampBytes(ts int64) []byte {
	v := uint64(ts)
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24), byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56)}
}

// TotalBurnedAmount returns the cumulative amount of validated burns.
func (v *Validator) TotalBurnedAmount() elderfier.Amount {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalBurned
}

// TotalBurnProofs returns the count of proofs currently retained in
// the recent-proofs buffer.
func (v *Validator) TotalBurnProofs() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.recentProofs)
}

// RecentBurnProofs returns up to n of the most recently validated
// proofs, newest last.
func (v *Validator) RecentBurnProofs(n int) []*elderfier.BurnProof {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n > len(v.recentProofs) {
		n = len(v.recentProofs)
	}
	out := make([]*elderfier.BurnProof, n)
	copy(out, v.recentProofs[len(v.recentProofs)-n:])
	return out
}

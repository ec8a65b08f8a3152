// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"context"
	"testing"

	"github.com/monetarium/elderfier/internal/elderfier"
)

type fakeTransport struct {
	match map[elderfier.ValidatorKey]bool
	err   map[elderfier.ValidatorKey]error
}

func (t *fakeTransport) Poll(ctx context.Context, p elderfier.ValidatorKey, txHash, commitment elderfier.Hash, amount elderfier.Amount) (Verdict, error) {
	if t.err != nil && t.err[p] != nil {
		return Verdict{}, t.err[p]
	}
	ok := t.match == nil || t.match[p]
	return Verdict{CommitmentMatch: ok, AmountMatch: ok}, nil
}

type alwaysVerify struct{}

func (alwaysVerify) Verify(pub elderfier.ValidatorKey, message []byte, sig elderfier.Signature) bool {
	return true
}

func keys(n int) []elderfier.ValidatorKey {
	out := make([]elderfier.ValidatorKey, n)
	for i := range out {
		out[i][0] = byte(i + 1)
	}
	return out
}

func TestRequestConsensusFastPathWithTwoAgreeing(t *testing.T) {
	active := keys(2)
	transport := &fakeTransport{}
	engine, err := New(DefaultPolicy(10), transport, alwaysVerify{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var tx, commit elderfier.Hash
	result, err := engine.RequestConsensus(context.Background(), active, tx, commit, 100)
	if err != nil {
		t.Fatalf("RequestConsensus: %v", err)
	}
	if result.PathUsed != elderfier.ConsensusFastPath {
		t.Fatalf("path = %v, want fast path", result.PathUsed)
	}
	if len(result.ParticipantIDs) != 2 {
		t.Fatalf("participants = %d, want 2", len(result.ParticipantIDs))
	}
}

func TestRequestConsensusFallsBackWhenFastPassDisagrees(t *testing.T) {
	active := keys(10)
	transport := &fakeTransport{match: map[elderfier.ValidatorKey]bool{}}
	for _, k := range active {
		transport.match[k] = true
	}
	// First fast-pass participant disagrees, forcing fallback.
	transport.match[active[0]] = false

	engine, err := New(DefaultPolicy(10), transport, alwaysVerify{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var tx, commit elderfier.Hash
	result, err := engine.RequestConsensus(context.Background(), active, tx, commit, 100)
	if err != nil {
		t.Fatalf("RequestConsensus: %v", err)
	}
	if result.PathUsed == elderfier.ConsensusFastPath {
		t.Fatalf("expected fallback or full quorum, got fast path")
	}
}

func TestRequestConsensusFailsWithInsufficientAgreement(t *testing.T) {
	active := keys(10)
	transport := &fakeTransport{match: map[elderfier.ValidatorKey]bool{}}
	engine, err := New(DefaultPolicy(10), transport, alwaysVerify{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var tx, commit elderfier.Hash
	_, err = engine.RequestConsensus(context.Background(), active, tx, commit, 100)
	if err == nil {
		t.Fatal("expected consensus failure with no agreement at all")
	}
}

func TestPolicyValidateRejectsOutOfOrderThresholds(t *testing.T) {
	policy := DefaultPolicy(10)
	policy.FastPassThreshold = 5
	policy.FallbackThreshold = 2
	if _, err := New(policy, &fakeTransport{}, alwaysVerify{}); err == nil {
		t.Fatal("expected rejection of fast > fallback threshold ordering")
	}
}

func TestVerifyConsensusRejectsLengthMismatch(t *testing.T) {
	engine, err := New(DefaultPolicy(10), &fakeTransport{}, alwaysVerify{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result := &elderfier.ConsensusResult{
		ParticipantIDs: keys(2),
		Signatures:     []elderfier.Signature{{}},
		PathUsed:       elderfier.ConsensusFastPath,
	}
	if err := engine.VerifyConsensus(result); err == nil {
		t.Fatal("expected rejection of mismatched participant/signature counts")
	}
}

type refuseVerify struct{}

func (refuseVerify) Verify(elderfier.ValidatorKey, []byte, elderfier.Signature) bool { return false }

func TestVerifyConsensusRejectsBadSignature(t *testing.T) {
	engine, err := New(DefaultPolicy(10), &fakeTransport{}, refuseVerify{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result := &elderfier.ConsensusResult{
		ParticipantIDs: keys(2),
		Signatures:     []elderfier.Signature{{}, {}},
		PathUsed:       elderfier.ConsensusFastPath,
	}
	if err := engine.VerifyConsensus(result); err == nil {
		t.Fatal("expected rejection of a failing signature")
	}
}

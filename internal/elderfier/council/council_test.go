// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package council

import (
	"testing"

	"github.com/monetarium/elderfier/internal/elderfier"
	"github.com/monetarium/elderfier/internal/elderfier/depositindex"
	"github.com/monetarium/elderfier/internal/elderfier/supply"
)

func testTargetDeposit() *elderfier.Deposit {
	var k elderfier.ValidatorKey
	k[0] = 9
	return &elderfier.Deposit{
		ValidatorKey: k,
		StakeAmount:  elderfier.MinElderfierStake,
		Address:      "target-addr",
		ServiceID:    elderfier.NewStandardAddressID("target-addr"),
		Flags:        elderfier.DepositFlags{Active: true},
	}
}

func votingCouncil(t *testing.T, quorum int) (*Council, *depositindex.Store, *elderfier.Deposit) {
	t.Helper()
	store := depositindex.New(nil)
	target := testTargetDeposit()
	if err := store.Add(target); err != nil {
		t.Fatalf("Add target: %v", err)
	}
	policy := DefaultPolicy()
	policy.QuorumSize = quorum
	c := New(policy, store, supply.New())
	return c, store, target
}

func voter(n byte) elderfier.ValidatorKey {
	var k elderfier.ValidatorKey
	k[0] = n
	return k
}

func TestCreateVotingMessageIsIdempotentForSameEvidence(t *testing.T) {
	c, _, target := votingCouncil(t, 2)
	evidence := elderfier.MisbehaviorEvidence{TargetKey: target.ValidatorKey, Reason: "double-sign"}

	id1 := c.CreateVotingMessage(evidence, 0)
	id2 := c.CreateVotingMessage(evidence, 0)
	if id1 != id2 {
		t.Fatalf("expected identical message ID for identical evidence, got %v and %v", id1, id2)
	}
}

func TestHasQuorumRequiresConfirmedVotes(t *testing.T) {
	c, _, target := votingCouncil(t, 2)
	evidence := elderfier.MisbehaviorEvidence{TargetKey: target.ValidatorKey}
	id := c.CreateVotingMessage(evidence, 0)

	if err := c.SubmitVoteOnMessage(id, voter(1), elderfier.VoteSlashAll, 0); err != nil {
		t.Fatalf("SubmitVoteOnMessage: %v", err)
	}
	has, err := c.HasQuorum(id)
	if err != nil {
		t.Fatalf("HasQuorum: %v", err)
	}
	if has {
		t.Fatal("expected no quorum before any vote is confirmed")
	}

	if err := c.ConfirmVoteOnMessage(id, voter(1)); err != nil {
		t.Fatalf("ConfirmVoteOnMessage: %v", err)
	}
	if err := c.SubmitVoteOnMessage(id, voter(2), elderfier.VoteSlashAll, 0); err != nil {
		t.Fatalf("SubmitVoteOnMessage voter 2: %v", err)
	}
	if err := c.ConfirmVoteOnMessage(id, voter(2)); err != nil {
		t.Fatalf("ConfirmVoteOnMessage voter 2: %v", err)
	}

	has, err = c.HasQuorum(id)
	if err != nil {
		t.Fatalf("HasQuorum: %v", err)
	}
	if !has {
		t.Fatal("expected quorum once two of two required votes are confirmed")
	}
}

func TestCancelPendingVoteRemovesBallot(t *testing.T) {
	c, _, target := votingCouncil(t, 2)
	evidence := elderfier.MisbehaviorEvidence{TargetKey: target.ValidatorKey}
	id := c.CreateVotingMessage(evidence, 0)

	if err := c.SubmitVoteOnMessage(id, voter(1), elderfier.VoteSlashAll, 0); err != nil {
		t.Fatalf("SubmitVoteOnMessage: %v", err)
	}
	if err := c.CancelPendingVote(id, voter(1)); err != nil {
		t.Fatalf("CancelPendingVote: %v", err)
	}
	if err := c.ConfirmVoteOnMessage(id, voter(1)); err == nil {
		t.Fatal("expected confirm to fail after cancellation")
	}
}

func TestResolveIfQuorumAppliesSlashAll(t *testing.T) {
	c, store, target := votingCouncil(t, 1)
	evidence := elderfier.MisbehaviorEvidence{TargetKey: target.ValidatorKey}
	id := c.CreateVotingMessage(evidence, 0)

	if err := c.SubmitVoteOnMessage(id, voter(1), elderfier.VoteSlashAll, 0); err != nil {
		t.Fatalf("SubmitVoteOnMessage: %v", err)
	}
	if err := c.ConfirmVoteOnMessage(id, voter(1)); err != nil {
		t.Fatalf("ConfirmVoteOnMessage: %v", err)
	}

	resolved, outcome, err := c.ResolveIfQuorum(id, 100, 0)
	if err != nil {
		t.Fatalf("ResolveIfQuorum: %v", err)
	}
	if !resolved || outcome != elderfier.VoteSlashAll {
		t.Fatalf("resolved = %v outcome = %v, want true/SlashAll", resolved, outcome)
	}

	if _, err := store.GetDeposit(target.ValidatorKey); err == nil {
		t.Fatal("expected slashed deposit to be fully removed from the index")
	}
	if c.ledger.TotalBurned() != target.StakeAmount {
		t.Fatalf("burned amount = %d, want full stake %d", c.ledger.TotalBurned(), target.StakeAmount)
	}
}

func TestResolveIfQuorumGoodKeepAllLeavesDepositUntouched(t *testing.T) {
	c, store, target := votingCouncil(t, 1)
	evidence := elderfier.MisbehaviorEvidence{TargetKey: target.ValidatorKey}
	id := c.CreateVotingMessage(evidence, 0)

	if err := c.SubmitVoteOnMessage(id, voter(1), elderfier.VoteGoodKeepAll, 0); err != nil {
		t.Fatalf("SubmitVoteOnMessage: %v", err)
	}
	if err := c.ConfirmVoteOnMessage(id, voter(1)); err != nil {
		t.Fatalf("ConfirmVoteOnMessage: %v", err)
	}

	if _, _, err := c.ResolveIfQuorum(id, 100, 0); err != nil {
		t.Fatalf("ResolveIfQuorum: %v", err)
	}

	got, err := store.GetDeposit(target.ValidatorKey)
	if err != nil {
		t.Fatalf("GetDeposit: %v", err)
	}
	if !got.Flags.Active {
		t.Fatal("expected an untouched, still-active deposit under a GoodKeepAll verdict")
	}
}

func TestSubmitVoteRejectsAfterVotingWindowCloses(t *testing.T) {
	c, _, target := votingCouncil(t, 1)
	c.policy.VotingWindow = 100
	evidence := elderfier.MisbehaviorEvidence{TargetKey: target.ValidatorKey}
	id := c.CreateVotingMessage(evidence, 0)

	if err := c.SubmitVoteOnMessage(id, voter(1), elderfier.VoteSlashAll, 200); err == nil {
		t.Fatal("expected rejection of a vote cast after the voting window closed")
	}
}

// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package securitywindow

import (
	"errors"
	"testing"

	"github.com/monetarium/elderfier/internal/elderfier"
)

func newTestDeposit() *elderfier.Deposit {
	return &elderfier.Deposit{
		StakeAmount: elderfier.MinElderfierStake,
		WindowDuration: elderfier.DefaultWindowDuration,
	}
}

func TestSignFromIdleEntersWindow(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	now := int64(1000)

	if err := Sign(d, policy, now); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if got := CurrentState(d, now); got != StateInWindow {
		t.Fatalf("state = %v, want %v", got, StateInWindow)
	}
	if d.WindowEnd != now+policy.WindowDuration {
		t.Fatalf("window end = %d, want %d", d.WindowEnd, now+policy.WindowDuration)
	}
}

func TestSignWithinMinIntervalIsClampedNotRejected(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	now := int64(1000)
	if err := Sign(d, policy, now); err != nil {
		t.Fatalf("initial Sign: %v", err)
	}
	priorWindowEnd := d.WindowEnd

	soon := now + policy.MinSignatureInterval/2
	if err := Sign(d, policy, soon); err != nil {
		t.Fatalf("second Sign: %v", err)
	}
	if d.WindowEnd != priorWindowEnd {
		t.Fatalf("window end moved on a too-soon signature: got %d, want unchanged %d", d.WindowEnd, priorWindowEnd)
	}
}

func TestRequestUnlockTooEarlyRejected(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	now := int64(1000)
	if err := Sign(d, policy, now); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	err := RequestUnlock(d, policy, now+1)
	if err == nil {
		t.Fatal("expected unlock-too-early rejection")
	}
	var apiErr *elderfier.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != elderfier.ErrPolicyViolation {
		t.Fatalf("expected ErrPolicyViolation, got %v", err)
	}
}

func TestRequestUnlockAtGraceBoundaryAccepted(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	now := int64(1000)
	if err := Sign(d, policy, now); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	earliest := d.LastSignatureTimestamp + policy.WindowDuration - policy.GracePeriod
	if err := RequestUnlock(d, policy, earliest); err != nil {
		t.Fatalf("RequestUnlock at grace boundary: %v", err)
	}
	if CurrentState(d, earliest) != StateUnlockRequested {
		t.Fatalf("state after unlock request = %v, want %v", CurrentState(d, earliest), StateUnlockRequested)
	}
}

func TestUnlockableOnceWindowEndPasses(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	now := int64(1000)
	if err := Sign(d, policy, now); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	earliest := d.LastSignatureTimestamp + policy.WindowDuration - policy.GracePeriod
	if err := RequestUnlock(d, policy, earliest); err != nil {
		t.Fatalf("RequestUnlock: %v", err)
	}

	if got := CurrentState(d, d.WindowEnd); got != StateUnlockable {
		t.Fatalf("state at window end = %v, want %v", got, StateUnlockable)
	}
}

func TestMarkSpentOverridesEveryFlag(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	if err := Sign(d, policy, 0); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	MarkSpent(d)

	if got := CurrentState(d, 0); got != StateSpent {
		t.Fatalf("state after MarkSpent = %v, want %v", got, StateSpent)
	}
	if d.Flags.Active || d.Flags.InSecurityWindow || d.Flags.UnlockRequested {
		t.Fatalf("MarkSpent left stale flags set: %+v", d.Flags)
	}
}

func TestSlashFromInWindowEntersStateSlashed(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	if err := Sign(d, policy, 0); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := Slash(d, 0); err != nil {
		t.Fatalf("Slash: %v", err)
	}
	if got := CurrentState(d, 0); got != StateSlashed {
		t.Fatalf("state after Slash = %v, want %v", got, StateSlashed)
	}
	if d.Flags.Active || d.Flags.InSecurityWindow || d.Flags.Slashable {
		t.Fatalf("Slash left stale flags set: %+v", d.Flags)
	}
	if d.Flags.Spent {
		t.Fatal("Slash must mark Slashed, not Spent, so the two are observably distinct")
	}
}

func TestSlashRejectedFromSpent(t *testing.T) {
	d := newTestDeposit()
	MarkSpent(d)
	if err := Slash(d, 0); err == nil {
		t.Fatal("expected Slash to reject an already-spent deposit")
	}
}

func TestSlashRejectedFromAlreadySlashed(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	if err := Sign(d, policy, 0); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Slash(d, 0); err != nil {
		t.Fatalf("first Slash: %v", err)
	}
	if err := Slash(d, 0); err == nil {
		t.Fatal("expected Slash to reject an already-slashed deposit")
	}
}

func TestIsOffline(t *testing.T) {
	d := newTestDeposit()
	policy := DefaultPolicy()
	d.LastSignatureTimestamp = 0

	if IsOffline(d, policy, policy.MaxOfflineTime) {
		t.Fatal("exactly at MaxOfflineTime should not yet be offline")
	}
	if !IsOffline(d, policy, policy.MaxOfflineTime+1) {
		t.Fatal("past MaxOfflineTime should be offline")
	}
}

// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package securitywindow implements the per-deposit security-window
// state machine of spec section 4.2: the temporal lifecycle that
// gates when a staked deposit may sign, be spent, or be slashed.
//
// The machine is pure: every transition takes its inputs explicitly
// (the deposit, a timestamp, a policy) and returns either an updated
// deposit or a typed error. It holds no lock of its own; callers that
// share a Deposit across goroutines serialize through
// depositindex.Store's lock, per spec section 5.
package securitywindow

import (
	"github.com/monetarium/elderfier/internal/elderfier"
)

// State is one of the six lifecycle states named in spec section 4.2.
type State int

const (
	StateIdle State = iota
	StateInWindow
	StateUnlockRequested
	StateUnlockable
	StateSpent
	StateSlashed
)

// String renders the state name for logs and test output.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInWindow:
		return "in-window"
	case StateUnlockRequested:
		return "unlock-requested"
	case StateUnlockable:
		return "unlockable"
	case StateSpent:
		return "spent"
	case StateSlashed:
		return "slashed"
	default:
		return "unknown"
	}
}

// Policy bundles the security-window timing parameters of spec
// section 4.2, all defaulted per the spec text.
type Policy struct {
	WindowDuration        int64
	MinSignatureInterval  int64
	GracePeriod           int64
	MaxOfflineTime        int64
}

// DefaultPolicy returns the spec's default timing parameters.
func DefaultPolicy() Policy {
	return Policy{
		WindowDuration:       elderfier.DefaultWindowDuration,
		MinSignatureInterval: elderfier.DefaultMinSignatureInterval,
		GracePeriod:          elderfier.DefaultGracePeriod,
		MaxOfflineTime:       elderfier.DefaultMaxOfflineTime,
	}
}

// CurrentState derives the deposit's FSM state from its flags and
// timestamps. This is a pure read: the flags on Deposit are the
// source of truth and this function never mutates them.
func CurrentState(d *elderfier.Deposit, now int64) State {
	switch {
	case d.Flags.Slashed:
		// Slashed is terminal and takes priority over every other flag.
		return StateSlashed
	case d.Flags.Spent:
		return StateSpent
	case d.Flags.UnlockRequested && now >= d.WindowEnd:
		return StateUnlockable
	case d.Flags.UnlockRequested:
		return StateUnlockRequested
	case d.Flags.InSecurityWindow:
		return StateInWindow
	default:
		return StateIdle
	}
}

// Sign applies a validator signature, moving Idle or InWindow into
// InWindow. Window-refreshing is clamped, not rejected: a signature
// arriving sooner than MinSignatureInterval after the previous one
// still succeeds but does not move window_end forward, per spec
// section 4.2.
func Sign(d *elderfier.Deposit, policy Policy, now int64) error {
	state := CurrentState(d, now)
	switch state {
	case StateIdle:
		d.LastSignatureTimestamp = now
		d.WindowEnd = now + policy.WindowDuration
		d.Flags.InSecurityWindow = true
		return nil
	case StateInWindow:
		if now-d.LastSignatureTimestamp < policy.MinSignatureInterval {
			// Silently clamped: accept the signature but do not refresh
			// the window early.
			return nil
		}
		d.LastSignatureTimestamp = now
		d.WindowEnd = now + policy.WindowDuration
		return nil
	default:
		return elderfier.NewError(elderfier.ErrPolicyViolation, "cannot sign in state "+state.String())
	}
}

// RequestUnlock accepts an unlock request if it arrives no earlier
// than WindowEnd - GracePeriod, per spec section 4.2.
func RequestUnlock(d *elderfier.Deposit, policy Policy, now int64) error {
	state := CurrentState(d, now)
	if state != StateInWindow {
		return elderfier.NewError(elderfier.ErrPolicyViolation, "cannot request unlock in state "+state.String())
	}

	earliest := d.LastSignatureTimestamp + policy.WindowDuration - policy.GracePeriod
	if now < earliest {
		return elderfier.NewError(elderfier.ErrPolicyViolation, "unlock-too-early")
	}

	d.Flags.UnlockRequested = true
	d.UnlockRequestTimestamp = now
	return nil
}

// MarkSpent transitions any non-terminal state to Spent, as observed
// by the monitoring loop. This mirrors depositindex.Store's own
// spend-handling so the two stay consistent when called independently
// (e.g. from a test exercising the FSM without a full Store).
func MarkSpent(d *elderfier.Deposit) {
	d.Flags.Spent = true
	d.Flags.Active = false
	d.Flags.InSecurityWindow = false
	d.Flags.UnlockRequested = false
}

// Slash transitions InWindow (or Idle) to Slashed following an Elder
// Council quorum, per spec section 4.2.
func Slash(d *elderfier.Deposit, now int64) error {
	state := CurrentState(d, now)
	if state == StateSpent || state == StateSlashed {
		return elderfier.NewError(elderfier.ErrPolicyViolation, "cannot slash a deposit in state "+state.String())
	}
	d.Flags.Active = false
	d.Flags.Slashable = false
	d.Flags.InSecurityWindow = false
	d.Flags.Slashed = true
	return nil
}

// IsOffline reports the edge case of spec section 4.2: a deposit with
// no signature for longer than MaxOfflineTime is flagged inactive but
// remains slashable until it unlocks or is spent.
func IsOffline(d *elderfier.Deposit, policy Policy, now int64) bool {
	return now-d.LastSignatureTimestamp > policy.MaxOfflineTime
}

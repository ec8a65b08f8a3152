// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package depositindex implements the Elderfier deposit index: the
// authoritative in-memory registry of staked validator deposits, keyed
// by validator public key with secondary indexes by service ID and fee
// address, guarded by a single read-write lock per the concurrency
// model of spec section 5.
package depositindex

import (
	"sync"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
)

// log is this package's subsystem logger; see elderfier.UseLogger for
// the convention.
var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// BlockchainExplorer is the narrow, injected interface the monitoring
// loop and VerifyDeposit use to ask whether a given deposit output has
// been spent on-chain. The real implementation (backed by the node's
// transaction store) lives outside this subsystem, per spec section
// 4.1.
type BlockchainExplorer interface {
	// IsOutputSpent reports whether the deposit output named by depositHash
	// has been consumed by a later transaction.
	IsOutputSpent(depositHash elderfier.Hash) (bool, error)

	// VerifyOutputAmount reports whether the on-chain output at
	// depositHash still carries at least amount.
	VerifyOutputAmount(depositHash elderfier.Hash, amount elderfier.Amount) (bool, error)
}

// Store is the keyed registry of Elderfier deposits described in spec
// section 4.1. All mutating operations take mu for writing; all
// queries take it for reading. Lock hold time is O(1) for single-key
// operations and O(n) for list operations, per spec section 5.
//
// The Elder Council voting subsystem (package council) shares this
// lock rather than taking its own, per spec section 5's instruction to
// avoid lock-ordering hazards across the two; see RLock/Lock below.
type Store struct {
	mu sync.RWMutex

	byKey        map[elderfier.ValidatorKey]*elderfier.Deposit
	byServiceID  map[string]elderfier.ValidatorKey
	byAddress    map[string]elderfier.ValidatorKey

	explorer BlockchainExplorer
}

// New creates an empty deposit index. explorer may be nil; in that
// case MonitorDeposits returns ErrTransport immediately, matching the
// "no collaborator wired yet" condition a host process sees before its
// blockchain explorer is ready.
func New(explorer BlockchainExplorer) *Store {
	return &Store{
		byKey:       make(map[elderfier.ValidatorKey]*elderfier.Deposit),
		byServiceID: make(map[string]elderfier.ValidatorKey),
		byAddress:   make(map[string]elderfier.ValidatorKey),
		explorer:    explorer,
	}
}

// Lock and Unlock expose the store's exclusive lock so the council
// package can serialize its inbox/vote mutations against deposit
// mutations without a second, independently-ordered mutex (spec
// section 5).
func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

// RLock and RUnlock expose the store's shared lock for the same reason.
func (s *Store) RLock()   { s.mu.RLock() }
func (s *Store) RUnlock() { s.mu.RUnlock() }

// Add inserts a new deposit. It fails with ErrConflict if the
// validator key is already present or the service ID collides, and
// with ErrStructural if the service ID itself is malformed.
func (s *Store) Add(d *elderfier.Deposit) error {
	if err := validateServiceID(d.ServiceID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[d.ValidatorKey]; exists {
		return elderfier.NewError(elderfier.ErrConflict, "validator key already registered")
	}
	sidKey := d.ServiceID.Key()
	if _, exists := s.byServiceID[sidKey]; exists {
		return elderfier.NewError(elderfier.ErrConflict, "service ID already registered")
	}

	cp := *d
	s.byKey[d.ValidatorKey] = &cp
	s.byServiceID[sidKey] = d.ValidatorKey
	if d.Address != "" {
		s.byAddress[d.Address] = d.ValidatorKey
	}

	log.Infof("added deposit for validator %s (service id %s)", d.ValidatorKey, sidKey)
	return nil
}

// validateServiceID re-checks the construction-time invariants for
// defense in depth (a Store may be fed deposits built outside the
// NewXxxID constructors, e.g. by a persistence loader).
func validateServiceID(sid elderfier.ServiceID) error {
	if sid.Kind == elderfier.ServiceIDCustomName {
		if len(sid.Name) != 8 {
			return elderfier.NewError(elderfier.ErrStructural, "custom name must be exactly 8 characters")
		}
	}
	return nil
}

// Remove deletes a deposit and all data keyed by it (service ID and
// address secondary indexes). Mempool security-window entries and
// council inbox state for this key are owned by their respective
// packages and are not touched here; callers coordinate teardown
// order through the root core.Service.
func (s *Store) Remove(key elderfier.ValidatorKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.byKey[key]
	if !exists {
		return elderfier.NewError(elderfier.ErrNotFound, "unknown validator key")
	}

	delete(s.byServiceID, d.ServiceID.Key())
	if d.Address != "" {
		delete(s.byAddress, d.Address)
	}
	delete(s.byKey, key)

	log.Infof("removed deposit for validator %s", key)
	return nil
}

// Update replaces the stored deposit for key with d, preserving the
// secondary indexes. Returns ErrNotFound if key is not present.
func (s *Store) Update(key elderfier.ValidatorKey, d *elderfier.Deposit) error {
	if key != d.ValidatorKey {
		return elderfier.NewError(elderfier.ErrStructural, "update key does not match deposit's validator key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.byKey[key]
	if !exists {
		return elderfier.NewError(elderfier.ErrNotFound, "unknown validator key")
	}

	newSIDKey := d.ServiceID.Key()
	if newSIDKey != old.ServiceID.Key() {
		if _, collide := s.byServiceID[newSIDKey]; collide {
			return elderfier.NewError(elderfier.ErrConflict, "service ID already registered")
		}
		delete(s.byServiceID, old.ServiceID.Key())
		s.byServiceID[newSIDKey] = key
	}

	if d.Address != old.Address {
		if old.Address != "" {
			delete(s.byAddress, old.Address)
		}
		if d.Address != "" {
			s.byAddress[d.Address] = key
		}
	}

	cp := *d
	s.byKey[key] = &cp
	return nil
}

// LookupByKey returns a copy of the deposit registered under key.
func (s *Store) LookupByKey(key elderfier.ValidatorKey) (*elderfier.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.byKey[key]
	if !exists {
		return nil, elderfier.NewError(elderfier.ErrNotFound, "unknown validator key")
	}
	cp := *d
	return &cp, nil
}

// LookupByServiceID resolves a service ID to its deposit.
func (s *Store) LookupByServiceID(sid elderfier.ServiceID) (*elderfier.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, exists := s.byServiceID[sid.Key()]
	if !exists {
		return nil, elderfier.NewError(elderfier.ErrNotFound, "unknown service ID")
	}
	cp := *s.byKey[key]
	return &cp, nil
}

// ListAll returns a copy of every registered deposit.
func (s *Store) ListAll() []*elderfier.Deposit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(*elderfier.Deposit) bool { return true })
}

// ListActive returns a copy of every deposit with Flags.Active set.
func (s *Store) ListActive() []*elderfier.Deposit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(d *elderfier.Deposit) bool { return d.Flags.Active })
}

// ListElderfier returns a copy of every active deposit whose stake
// meets the Elderfier minimum, distinguishing full Elderfiers from any
// lesser stake-only participant the host chain might also track
// through this same index (see SPEC_FULL.md section D).
func (s *Store) ListElderfier() []*elderfier.Deposit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(d *elderfier.Deposit) bool {
		return d.Flags.Active && d.StakeAmount >= elderfier.MinElderfierStake
	})
}

// ActiveParticipantKeys returns the validator keys of every current
// Elderfier participant, satisfying package consensus's
// ActiveParticipants interface so the consensus engine always polls
// the live set without depositindex exposing its internal map type.
func (s *Store) ActiveParticipantKeys() []elderfier.ValidatorKey {
	elders := s.ListElderfier()
	out := make([]elderfier.ValidatorKey, len(elders))
	for i, d := range elders {
		out[i] = d.ValidatorKey
	}
	return out
}

// snapshot must be called with mu held (for reading or writing).
func (s *Store) snapshot(keep func(*elderfier.Deposit) bool) []*elderfier.Deposit {
	out := make([]*elderfier.Deposit, 0, len(s.byKey))
	for _, d := range s.byKey {
		if !keep(d) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out
}

// AddDeposit is the convenience entry point named directly in spec
// section 4.1 ("add_deposit(data)"). It re-verifies the claimed stake
// against the chain before inserting, unlike Add which trusts its
// caller.
func (s *Store) AddDeposit(d *elderfier.Deposit) error {
	if err := s.VerifyDeposit(d); err != nil {
		return err
	}
	return s.Add(d)
}

// VerifyDeposit re-checks the claimed stake amount against the
// blockchain explorer, per the original EldernodeStakeVerifier's
// at-registration check (see SPEC_FULL.md section D).
func (s *Store) VerifyDeposit(d *elderfier.Deposit) error {
	if d.StakeAmount < elderfier.MinElderfierStake {
		return elderfier.NewError(elderfier.ErrPolicyViolation, "stake below minimum Elderfier deposit")
	}
	if s.explorer == nil {
		return nil
	}
	ok, err := s.explorer.VerifyOutputAmount(d.DepositHash, d.StakeAmount)
	if err != nil {
		return elderfier.WrapError(elderfier.ErrTransport, "explorer call failed", err)
	}
	if !ok {
		return elderfier.NewError(elderfier.ErrPolicyViolation, "on-chain output does not cover claimed stake")
	}
	return nil
}

// GetDeposit is an alias for LookupByKey, named to match spec section
// 4.1's "get_deposit(key)" operation name.
func (s *Store) GetDeposit(key elderfier.ValidatorKey) (*elderfier.Deposit, error) {
	return s.LookupByKey(key)
}

// MonitorDeposits scans every known deposit and asks the blockchain
// explorer whether its underlying output has been spent, marking
// spent deposits inactive. The shared lock is released between
// deposits so a slow explorer call never blocks unrelated readers,
// per spec section 5.
func (s *Store) MonitorDeposits() error {
	if s.explorer == nil {
		return elderfier.NewError(elderfier.ErrTransport, "no blockchain explorer configured")
	}

	s.mu.RLock()
	keys := make([]elderfier.ValidatorKey, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	for _, key := range keys {
		s.mu.RLock()
		d, exists := s.byKey[key]
		var depositHash elderfier.Hash
		if exists {
			depositHash = d.DepositHash
		}
		s.mu.RUnlock()
		if !exists {
			continue
		}

		spent, err := s.explorer.IsOutputSpent(depositHash)
		if err != nil {
			log.Warnf("monitor: explorer call failed for validator %s: %v", key, err)
			continue
		}
		if !spent {
			continue
		}

		s.mu.Lock()
		if cur, ok := s.byKey[key]; ok && !cur.Flags.Spent {
			cur.Flags.Spent = true
			cur.Flags.Active = false
			cur.Flags.InSecurityWindow = false
			log.Infof("deposit for validator %s observed spent on-chain", key)
		}
		s.mu.Unlock()
	}

	return nil
}

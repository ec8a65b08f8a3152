// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package supply implements the dynamic money-supply ledger of spec
// section 4.7: burned/reborn accounting that enlarges the block-reward
// pool without ever letting circulating supply exceed base supply.
//
// Structurally this mirrors internal/blockchain/ska_burn_state.go: a
// mutex-guarded set of counters, symmetric connect/disconnect
// (here push/pop) operations for reorg safety, and a version-prefixed
// binary persistence format. The difference is the accounting itself:
// ska_burn_state tracks per-coin-type burned totals; this ledger tracks
// a single burned/reborn pair capped against one immutable base
// supply.
package supply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// BaseSupply is the genesis money supply constant. Spec section 9
// requires this be preserved exactly for wire/state compatibility
// rather than derived from any other parameter.
const BaseSupply elderfier.Amount = 80_000_088_000_008

// heightEntry records one push_block's effect so pop_block can
// precisely reverse it, per spec section 4.7's reorg requirement.
type heightEntry struct {
	height int64
	amount elderfier.Amount
}

// Ledger is the dynamic-supply accounting structure of spec section
// 4.7. It owns its counters exclusively; no other package mutates
// them directly.
type Ledger struct {
	mu sync.Mutex

	totalBurned elderfier.Amount
	totalReborn elderfier.Amount

	// byHeight records burned-amount deltas keyed by block height, so
	// PopBlocks can roll back exactly the entries above a given
	// height, per spec section 4.7 / section 8's round-trip property.
	byHeight []heightEntry
}

// New creates a ledger with zero burned/reborn totals.
func New() *Ledger {
	return &Ledger{}
}

// TotalBurned returns the monotone (outside of rollback) total amount
// burned through FOREVER deposits.
func (l *Ledger) TotalBurned() elderfier.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalBurned
}

// TotalReborn returns the amount of burned value currently re-credited
// to the block-reward emission pool.
func (l *Ledger) TotalReborn() elderfier.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalReborn
}

// AdjustedSupply returns base_supply + total_reborn capped at
// base_supply, i.e. the pool against which block-reward emission is
// computed. Because total_reborn never exceeds total_burned and the
// cap always binds at base_supply, this is always exactly BaseSupply;
// it is exposed anyway, as spec section 4.7 names it explicitly, and a
// future policy that lets reborn exceed burned (it must not) would be
// caught immediately by checkInvariantsLocked below.
func (l *Ledger) AdjustedSupply() elderfier.Amount {
	return l.CirculatingSupply()
}

// CirculatingSupply returns min(base_supply + total_reborn, base_supply),
// which per spec section 4.7 is always exactly base_supply: reborn
// coins enlarge the reward pool, never circulation.
func (l *Ledger) CirculatingSupply() elderfier.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.circulatingLocked()
}

func (l *Ledger) circulatingLocked() elderfier.Amount {
	sum := uint64(BaseSupply) + uint64(l.totalReborn)
	if sum > uint64(BaseSupply) {
		return BaseSupply
	}
	return elderfier.Amount(sum)
}

// RewardPool returns base_supply + total_reborn without the cap: the
// pool block-reward emission is computed against, per spec section
// 4.7's explanation that "the reward pool grows while circulating
// supply stays fixed".
func (l *Ledger) RewardPool() elderfier.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return elderfier.Amount(uint64(BaseSupply) + uint64(l.totalReborn))
}

// checkInvariantsLocked enforces spec section 4.7's mandatory
// invariants. A violation is fatal: the caller must treat the
// returned error as unrecoverable.
func (l *Ledger) checkInvariantsLocked() error {
	if l.totalReborn > l.totalBurned {
		return &elderfier.FatalInvariantError{Description: fmt.Sprintf(
			"total_reborn (%d) exceeds total_burned (%d)", l.totalReborn, l.totalBurned)}
	}
	if l.circulatingLocked() > BaseSupply {
		return &elderfier.FatalInvariantError{Description: fmt.Sprintf(
			"circulating supply (%d) exceeds base supply (%d)", l.circulatingLocked(), BaseSupply)}
	}
	return nil
}

// AddBurned records a FOREVER-term burn deposit of amount at height,
// mirroring it 1:1 into total_reborn so the block-reward pool grows by
// exactly the burned value, per spec section 4.7 and scenario S1.
func (l *Ledger) AddBurned(amount elderfier.Amount, height int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalBurned += amount
	l.totalReborn += amount
	l.byHeight = append(l.byHeight, heightEntry{height: height, amount: amount})

	if err := l.checkInvariantsLocked(); err != nil {
		log.Criticalf("supply ledger invariant violated after AddBurned: %v", err)
		return err
	}

	log.Infof("burned %s at height %d (total burned %s, reward pool %s)",
		amount, height, l.totalBurned, elderfier.Amount(uint64(BaseSupply)+uint64(l.totalReborn)))
	return nil
}

// RemoveBurned reverses a prior AddBurned of amount, supporting
// reorganization rollback. It mirrors the same amount out of
// total_reborn to preserve the reborn <= burned invariant.
func (l *Ledger) RemoveBurned(amount elderfier.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.totalBurned {
		return elderfier.NewError(elderfier.ErrStructural, "cannot remove more than total burned")
	}

	l.totalBurned -= amount
	if amount > l.totalReborn {
		l.totalReborn = 0
	} else {
		l.totalReborn -= amount
	}

	return l.checkInvariantsLocked()
}

// PushBlock records a burn at height as part of normal chain
// extension; it is equivalent to AddBurned but named to match spec
// section 8's round-trip property ("pop_block after push_block restores
// prior state").
func (l *Ledger) PushBlock(amount elderfier.Amount, height int64) error {
	return l.AddBurned(amount, height)
}

// PopBlock reverses the most recently pushed block's burn, if any.
func (l *Ledger) PopBlock() error {
	l.mu.Lock()
	last := len(l.byHeight) - 1
	if last < 0 {
		l.mu.Unlock()
		return elderfier.NewError(elderfier.ErrNotFound, "no blocks to pop")
	}
	entry := l.byHeight[last]
	l.byHeight = l.byHeight[:last]
	l.mu.Unlock()

	return l.RemoveBurned(entry.amount)
}

// PopBlocks rewinds every recorded entry at or above fromHeight,
// keeping the ledger's height-indexed entries aligned with the
// deposit index's own rollback, per spec section 4.7.
func (l *Ledger) PopBlocks(fromHeight int64) error {
	for {
		l.mu.Lock()
		last := len(l.byHeight) - 1
		if last < 0 || l.byHeight[last].height < fromHeight {
			l.mu.Unlock()
			return nil
		}
		entry := l.byHeight[last]
		l.byHeight = l.byHeight[:last]
		l.mu.Unlock()

		if err := l.RemoveBurned(entry.amount); err != nil {
			return err
		}
	}
}

const (
	supplyFormatVersion uint32 = 1
)

// SaveToStorage persists the ledger to path using the same
// version-field-first, counted-record layout as depositindex and
// ska_burn_state.go.
func (l *Ledger) SaveToStorage(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "create supply file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, supplyFormatVersion); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "write version", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(l.totalBurned)); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "write total burned", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(l.totalReborn)); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "write total reborn", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(l.byHeight))); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "write height entry count", err)
	}
	for _, e := range l.byHeight {
		if err := binary.Write(w, binary.LittleEndian, uint32(e.height)); err != nil {
			return elderfier.WrapError(elderfier.ErrPersistence, "write height", err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(e.amount)); err != nil {
			return elderfier.WrapError(elderfier.ErrPersistence, "write height amount", err)
		}
	}

	return w.Flush()
}

// LoadFromStorage replaces the ledger's state with the contents of
// path. A missing file is not an error.
func (l *Ledger) LoadFromStorage(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "open supply file", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "read version", err)
	}
	if version > supplyFormatVersion {
		return elderfier.NewError(elderfier.ErrPersistence, fmt.Sprintf("unsupported supply format version %d", version))
	}

	var burned, reborn uint64
	if err := binary.Read(r, binary.LittleEndian, &burned); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "read total burned", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &reborn); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "read total reborn", err)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "read height entry count", err)
	}
	entries := make([]heightEntry, count)
	for i := range entries {
		var h uint32
		var a uint64
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return elderfier.WrapError(elderfier.ErrPersistence, "read height", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &a); err != nil {
			return elderfier.WrapError(elderfier.ErrPersistence, "read height amount", err)
		}
		entries[i] = heightEntry{height: int64(h), amount: elderfier.Amount(a)}
	}

	l.mu.Lock()
	l.totalBurned = elderfier.Amount(burned)
	l.totalReborn = elderfier.Amount(reborn)
	l.byHeight = entries
	err = l.checkInvariantsLocked()
	l.mu.Unlock()

	return err
}

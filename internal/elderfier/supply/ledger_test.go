// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package supply

import (
	"os"
	"testing"

	"github.com/monetarium/elderfier/internal/elderfier"
)

func TestAddBurnedMirrorsIntoReborn(t *testing.T) {
	l := New()
	if err := l.AddBurned(1000, 10); err != nil {
		t.Fatalf("AddBurned: %v", err)
	}
	if got := l.TotalBurned(); got != 1000 {
		t.Fatalf("total burned = %d, want 1000", got)
	}
	if got := l.TotalReborn(); got != 1000 {
		t.Fatalf("total reborn = %d, want 1000", got)
	}
}

func TestCirculatingSupplyNeverExceedsBase(t *testing.T) {
	l := New()
	if err := l.AddBurned(elderfier.Amount(500_000_000), 10); err != nil {
		t.Fatalf("AddBurned: %v", err)
	}
	if got := l.CirculatingSupply(); got != BaseSupply {
		t.Fatalf("circulating supply = %d, want %d", got, BaseSupply)
	}
	if got := l.RewardPool(); got != BaseSupply+500_000_000 {
		t.Fatalf("reward pool = %d, want %d", got, BaseSupply+500_000_000)
	}
}

func TestPopBlockReversesPushBlock(t *testing.T) {
	l := New()
	if err := l.PushBlock(2000, 5); err != nil {
		t.Fatalf("PushBlock: %v", err)
	}
	if err := l.PopBlock(); err != nil {
		t.Fatalf("PopBlock: %v", err)
	}
	if got := l.TotalBurned(); got != 0 {
		t.Fatalf("total burned after pop = %d, want 0", got)
	}
	if got := l.TotalReborn(); got != 0 {
		t.Fatalf("total reborn after pop = %d, want 0", got)
	}
}

func TestPopBlockOnEmptyLedgerFails(t *testing.T) {
	l := New()
	if err := l.PopBlock(); err == nil {
		t.Fatal("expected ErrNotFound popping an empty ledger")
	}
}

func TestPopBlocksRewindsMultipleHeights(t *testing.T) {
	l := New()
	if err := l.PushBlock(100, 10); err != nil {
		t.Fatalf("PushBlock: %v", err)
	}
	if err := l.PushBlock(200, 11); err != nil {
		t.Fatalf("PushBlock: %v", err)
	}
	if err := l.PushBlock(300, 12); err != nil {
		t.Fatalf("PushBlock: %v", err)
	}

	if err := l.PopBlocks(11); err != nil {
		t.Fatalf("PopBlocks: %v", err)
	}
	if got := l.TotalBurned(); got != 100 {
		t.Fatalf("total burned after PopBlocks(11) = %d, want 100", got)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/ledger.dat"

	l := New()
	if err := l.PushBlock(1234, 7); err != nil {
		t.Fatalf("PushBlock: %v", err)
	}
	if err := l.SaveToStorage(path); err != nil {
		t.Fatalf("SaveToStorage: %v", err)
	}

	l2 := New()
	if err := l2.LoadFromStorage(path); err != nil {
		t.Fatalf("LoadFromStorage: %v", err)
	}
	if got := l2.TotalBurned(); got != 1234 {
		t.Fatalf("loaded total burned = %d, want 1234", got)
	}

	if err := l2.PopBlock(); err != nil {
		t.Fatalf("PopBlock after reload: %v", err)
	}
	if got := l2.TotalBurned(); got != 0 {
		t.Fatalf("total burned after reload+pop = %d, want 0", got)
	}
}

func TestLoadFromStorageMissingFileIsNotAnError(t *testing.T) {
	l := New()
	if err := l.LoadFromStorage(t.TempDir() + "/does-not-exist.dat"); err != nil {
		t.Fatalf("LoadFromStorage on missing file: %v", err)
	}
}

func TestLoadFromStorageRejectsNewerVersion(t *testing.T) {
	path := t.TempDir() + "/ledger.dat"
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Version field is the first four little-endian bytes; write a
	// value above supplyFormatVersion.
	if _, err := f.Write([]byte{0xff, 0xff, 0xff, 0xff}); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	l := New()
	if err := l.LoadFromStorage(path); err == nil {
		t.Fatal("expected rejection of an unsupported format version")
	}
}

func TestRemoveBurnedRejectsOverdraw(t *testing.T) {
	l := New()
	if err := l.AddBurned(100, 1); err != nil {
		t.Fatalf("AddBurned: %v", err)
	}
	if err := l.RemoveBurned(200); err == nil {
		t.Fatal("expected rejection removing more than total burned")
	}
}

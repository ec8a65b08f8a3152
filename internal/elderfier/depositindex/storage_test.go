// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package depositindex

import (
	"testing"

	"github.com/monetarium/elderfier/internal/elderfier"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := t.TempDir() + "/index.dat"

	s := New(nil)
	d := testDeposit(1, elderfier.MinElderfierStake)
	d.ServiceID = elderfier.ServiceID{Kind: elderfier.ServiceIDCustomName, Name: "ABCDEFGH", LinkedAddress: "addr1"}
	if err := s.Add(d); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.SaveToStorage(path); err != nil {
		t.Fatalf("SaveToStorage: %v", err)
	}

	s2 := New(nil)
	if err := s2.LoadFromStorage(path); err != nil {
		t.Fatalf("LoadFromStorage: %v", err)
	}

	got, err := s2.LookupByKey(d.ValidatorKey)
	if err != nil {
		t.Fatalf("LookupByKey after reload: %v", err)
	}
	if got.ServiceID.Name != "ABCDEFGH" || got.ServiceID.LinkedAddress != "addr1" {
		t.Fatalf("service ID after reload = %+v, want custom name ABCDEFGH/addr1", got.ServiceID)
	}
	if got.StakeAmount != d.StakeAmount {
		t.Fatalf("stake after reload = %d, want %d", got.StakeAmount, d.StakeAmount)
	}
}

func TestLoadFromStorageMissingFileYieldsEmptyIndex(t *testing.T) {
	s := New(nil)
	if err := s.LoadFromStorage(t.TempDir() + "/missing.dat"); err != nil {
		t.Fatalf("LoadFromStorage on missing file: %v", err)
	}
	if len(s.ListAll()) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(s.ListAll()))
	}
}

func TestClearStorageToleratesMissingFile(t *testing.T) {
	s := New(nil)
	if err := s.ClearStorage(t.TempDir() + "/missing.dat"); err != nil {
		t.Fatalf("ClearStorage on missing file: %v", err)
	}
}

func TestFlagsByteRoundTrip(t *testing.T) {
	f := elderfier.DepositFlags{Active: true, Spent: false, InSecurityWindow: true, UnlockRequested: true, Slashable: true, Slashed: false}
	got := flagsFromByte(flagsByte(f))
	if got != f {
		t.Fatalf("flags round trip = %+v, want %+v", got, f)
	}
}

func TestFlagsByteRoundTripSlashed(t *testing.T) {
	f := elderfier.DepositFlags{Slashed: true}
	got := flagsFromByte(flagsByte(f))
	if got != f {
		t.Fatalf("flags round trip = %+v, want %+v", got, f)
	}
	if got.Spent {
		t.Fatal("Slashed must not round-trip into a set Spent bit")
	}
}

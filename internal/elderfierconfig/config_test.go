// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package elderfierconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MonitorInterval != 300 {
		t.Errorf("MonitorInterval default = %d, want 300", cfg.MonitorInterval)
	}
	if cfg.QuorumSize != 5 {
		t.Errorf("QuorumSize default = %d, want 5", cfg.QuorumSize)
	}
	if cfg.VotingWindow != 86400 {
		t.Errorf("VotingWindow default = %d, want 86400", cfg.VotingWindow)
	}
	if cfg.FallbackThreshold != 4 {
		t.Errorf("FallbackThreshold default = %d, want 4", cfg.FallbackThreshold)
	}
	if cfg.FallbackMatchFraction != 0.80 {
		t.Errorf("FallbackMatchFraction default = %f, want 0.80", cfg.FallbackMatchFraction)
	}
}

func TestLoadRejectsEnableElderfierWithoutFeeAddress(t *testing.T) {
	if _, err := Load([]string{"--enable-elderfier"}); err == nil {
		t.Fatal("expected rejection of --enable-elderfier without --set-fee-address")
	}
}

func TestLoadAcceptsEnableElderfierWithFeeAddress(t *testing.T) {
	cfg, err := Load([]string{"--enable-elderfier", "--set-fee-address=addr1"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.EnableElderfier || cfg.FeeAddress != "addr1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsZeroQuorumSize(t *testing.T) {
	if _, err := Load([]string{"--council-quorum-size=0"}); err == nil {
		t.Fatal("expected rejection of a zero quorum size")
	}
}

func TestLoadRejectsOutOfRangeFallbackFraction(t *testing.T) {
	if _, err := Load([]string{"--consensus-fallback-fraction=1.5"}); err == nil {
		t.Fatal("expected rejection of a fallback fraction above 1")
	}
}

func TestDepositIndexAndSupplyLedgerPaths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/elderfier-data"}
	if got := cfg.DepositIndexPath(); got != filepath.Join("/tmp/elderfier-data", "depositindex.dat") {
		t.Errorf("DepositIndexPath = %s", got)
	}
	if got := cfg.SupplyLedgerPath(); got != filepath.Join("/tmp/elderfier-data", "supplyledger.dat") {
		t.Errorf("SupplyLedgerPath = %s", got)
	}
}

func TestLoadLayersConfigFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "elderfier.conf")
	contents := "enable-elderfier = true\nset-fee-address = file-addr\ncouncil-quorum-size = 7\n"
	if err := os.WriteFile(confPath, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load([]string{"--elderfier-config=" + confPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.EnableElderfier || cfg.FeeAddress != "file-addr" || cfg.QuorumSize != 7 {
		t.Fatalf("config file values not applied: %+v", cfg)
	}
}

func TestExpandHomeLeavesNonTildePathsUntouched(t *testing.T) {
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome(/abs/path) = %s", got)
	}
}

// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package elderfierconfig defines the Elderfier core's CLI and config
// file surface, spec section 6, using github.com/jessevdk/go-flags the
// same way the teacher's own node config does: struct tags drive both
// command-line parsing and INI-style config file parsing from a single
// definition.
package elderfierconfig

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/monetarium/elderfier/internal/elderfier"
)

// Config is the Elderfier core's configuration surface, spec section 6.
type Config struct {
	EnableElderfier  bool   `long:"enable-elderfier" description:"Enable the Elderfier staking and burn-proof subsystem"`
	FeeAddress       string `long:"set-fee-address" description:"Address receiving this node's Elderfier service fees"`
	RegistryURL      string `long:"elderfier-registry-url" description:"URL of the Elderfier validator registry service"`
	ConfigFile       string `long:"elderfier-config" description:"Path to an Elderfier-specific config file" default:"~/.elderfier/elderfier.conf"`

	DataDir         string `long:"datadir" description:"Directory holding the deposit index and supply ledger state files" default:"~/.elderfier/data"`
	MonitorInterval int    `long:"monitor-interval" description:"Seconds between deposit monitoring loop ticks" default:"300"`

	QuorumSize    int `long:"council-quorum-size" description:"Confirmed votes required to resolve a council voting message" default:"5"`
	VotingWindow  int `long:"council-voting-window" description:"Seconds a council voting message stays open" default:"86400"`

	TotalEldernodes        int     `long:"total-eldernodes" description:"Total count of registered Elderfier validators, used to scale consensus fractions"`
	FallbackThreshold      int     `long:"consensus-fallback-threshold" description:"Minimum responder count for the fallback consensus path" default:"4"`
	FallbackMatchFraction  float64 `long:"consensus-fallback-fraction" description:"Required agreement fraction over total eldernodes for the fallback path" default:"0.80"`
}

// DepositIndexPath returns the deposit index's persisted file path
// under DataDir.
func (c *Config) DepositIndexPath() string {
	return filepath.Join(c.DataDir, "depositindex.dat")
}

// SupplyLedgerPath returns the supply ledger's persisted file path
// under DataDir.
func (c *Config) SupplyLedgerPath() string {
	return filepath.Join(c.DataDir, "supplyledger.dat")
}

// Load parses command-line arguments into a Config, then (if a config
// file exists at ConfigFile) layers its settings in. The single pass
// over args establishes ConfigFile before the file itself is read;
// because the file is read afterwards, a setting present in the file
// replaces the value given for it on the command line.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, elderfier.WrapError(elderfier.ErrStructural, "parse command-line arguments", err)
	}

	if cfg.ConfigFile != "" {
		path := expandHome(cfg.ConfigFile)
		if _, err := os.Stat(path); err == nil {
			iniParser := flags.NewIniParser(parser)
			if err := iniParser.ParseFile(path); err != nil {
				return nil, elderfier.WrapError(elderfier.ErrStructural, "parse elderfier config file", err)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.EnableElderfier && c.FeeAddress == "" {
		return elderfier.NewError(elderfier.ErrStructural, "enable-elderfier requires set-fee-address")
	}
	if c.QuorumSize < 1 {
		return elderfier.NewError(elderfier.ErrStructural, "council-quorum-size must be at least 1")
	}
	if c.FallbackMatchFraction < 0 || c.FallbackMatchFraction > 1 {
		return elderfier.NewError(elderfier.ErrStructural, "consensus-fallback-fraction must be between 0 and 1")
	}
	return nil
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

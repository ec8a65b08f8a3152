// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package core composes the full Elderfier subsystem -- deposit index,
// security-window policy, burn-proof validator, progressive consensus
// engine, Elder Council voting, random selector, dynamic-supply
// ledger, and the deposit monitoring loop -- into one injectable root
// struct, per spec section 9's instruction to avoid scattering
// cross-package globals. It is the only package that imports every
// sibling subsystem, which is what lets depositindex, burnproof,
// consensus, council, selector, supply, and monitor stay free of an
// import cycle back to a "root" type.
package core

import (
	"context"
	"time"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
	"github.com/monetarium/elderfier/internal/elderfier/burnproof"
	"github.com/monetarium/elderfier/internal/elderfier/consensus"
	"github.com/monetarium/elderfier/internal/elderfier/council"
	"github.com/monetarium/elderfier/internal/elderfier/cryptokeys"
	"github.com/monetarium/elderfier/internal/elderfier/depositindex"
	"github.com/monetarium/elderfier/internal/elderfier/monitor"
	"github.com/monetarium/elderfier/internal/elderfier/securitywindow"
	"github.com/monetarium/elderfier/internal/elderfier/selector"
	"github.com/monetarium/elderfier/internal/elderfier/supply"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger propagated to every composed
// Elderfier package that keeps its own logger, so a host process wires
// logging once here rather than once per subpackage. securitywindow is
// a pure-function package with no logger of its own and is not wired.
func UseLogger(logger slog.Logger) {
	log = logger
	depositindex.UseLogger(logger)
	burnproof.UseLogger(logger)
	consensus.UseLogger(logger)
	council.UseLogger(logger)
	selector.UseLogger(logger)
	monitor.UseLogger(logger)
	supply.UseLogger(logger)
}

// Dependencies bundles the collaborators that live outside this
// module's scope (P2P, mempool, wallet, RPC transport are explicitly
// out of scope per spec section 1) and that a host node must supply.
type Dependencies struct {
	Explorer       depositindex.BlockchainExplorer
	ChainExtractor burnproof.ChainExtractor
	Transport      consensus.Transport
	Signer         *cryptokeys.KeyPair

	DataDir         string
	MonitorInterval time.Duration
	TotalEldernodes int

	SecurityWindowPolicy securitywindow.Policy
	BurnProofPolicy      burnproof.Policy
	ConsensusPolicy      consensus.Policy
	CouncilPolicy        council.Policy
}

// Service is the composed Elderfier core, held by the embedding node
// process for the lifetime of the program.
type Service struct {
	DepositIndex *depositindex.Store
	SupplyLedger *supply.Ledger
	Validator    *burnproof.Validator
	Consensus    *consensus.Engine
	Council      *council.Council
	Monitor      *monitor.Monitor

	SecurityWindowPolicy securitywindow.Policy

	deps Dependencies
}

// New wires every Elderfier subsystem together per spec section 9.
// Construction order matters: the deposit index and supply ledger have
// no dependencies on their siblings, the consensus engine needs a view
// of the deposit index's active set, the burn-proof validator needs
// the consensus engine wrapped in its narrow ConsensusRequester shape,
// and the council needs both the deposit index (for its shared lock)
// and the supply ledger (to record slashes).
func New(deps Dependencies) (*Service, error) {
	depositIdx := depositindex.New(deps.Explorer)
	ledger := supply.New()

	verifier := cryptokeys.NewVerifier()

	consensusPolicy := deps.ConsensusPolicy
	if consensusPolicy.TotalEldernodes == 0 {
		consensusPolicy.TotalEldernodes = deps.TotalEldernodes
	}
	engine, err := consensus.New(consensusPolicy, deps.Transport, verifier)
	if err != nil {
		return nil, elderfier.WrapError(elderfier.ErrStructural, "construct consensus engine", err)
	}
	adapter := consensus.NewAdapter(engine, depositIdx)

	var signer burnproof.Signer
	if deps.Signer != nil {
		signer = deps.Signer
	}
	validator := burnproof.New(deps.BurnProofPolicy, deps.ChainExtractor, adapter, signer)

	councilPolicy := deps.CouncilPolicy
	elderCouncil := council.New(councilPolicy, depositIdx, ledger)

	interval := deps.MonitorInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	mon := monitor.New(depositIdx, interval)

	return &Service{
		DepositIndex:         depositIdx,
		SupplyLedger:         ledger,
		Validator:            validator,
		Consensus:            engine,
		Council:              elderCouncil,
		Monitor:              mon,
		SecurityWindowPolicy: deps.SecurityWindowPolicy,
		deps:                 deps,
	}, nil
}

// LoadState restores the deposit index and supply ledger from disk,
// tolerating a first-run node with no prior state.
func (s *Service) LoadState(depositIndexPath, supplyLedgerPath string) error {
	if err := s.DepositIndex.LoadFromStorage(depositIndexPath); err != nil {
		return err
	}
	return s.SupplyLedger.LoadFromStorage(supplyLedgerPath)
}

// SaveState persists the deposit index and supply ledger to disk.
func (s *Service) SaveState(depositIndexPath, supplyLedgerPath string) error {
	if err := s.DepositIndex.SaveToStorage(depositIndexPath); err != nil {
		return err
	}
	return s.SupplyLedger.SaveToStorage(supplyLedgerPath)
}

// Run starts the background deposit monitoring loop, blocking until
// ctx is canceled. The caller drains s.Monitor.Events() concurrently
// to react to spend/offline transitions (e.g. opening a council vote),
// per spec section 9's message-passing resolution of the cyclic
// monitor/council reference.
func (s *Service) Run(ctx context.Context) {
	log.Info("elderfier core started")
	s.Monitor.Run(ctx)
	log.Info("elderfier core stopped")
}

// SelectValidators runs the random selector over the current Elderfier
// pool, weighted by each deposit's SelectionMultiplier.
func (s *Service) SelectValidators(blockHash elderfier.Hash, height int64) (*selector.Result, error) {
	elders := s.DepositIndex.ListElderfier()
	pool := make([]selector.Candidate, len(elders))
	for i, d := range elders {
		pool[i] = selector.Candidate{Key: d.ValidatorKey, Multiplier: d.SelectionMultiplier}
	}
	return selector.SelectTwo(pool, blockHash, height)
}

// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command elderfierctl is the composition root for the Elderfier core:
// it parses spec section 6's CLI/config surface, wires every Elderfier
// subsystem into a core.Service, restores persisted state, and runs
// the deposit monitoring loop until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier/core"
	"github.com/monetarium/elderfier/internal/elderfier/cryptokeys"
	"github.com/monetarium/elderfier/internal/elderfierconfig"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := elderfierconfig.Load(os.Args[1:])
	if err != nil {
		return err
	}

	if !cfg.EnableElderfier {
		fmt.Println("elderfier subsystem disabled (pass --enable-elderfier to activate)")
		return nil
	}

	backend := slog.NewBackend(os.Stdout)
	log := backend.Logger("ELDF")
	log.SetLevel(slog.LevelInfo)
	core.UseLogger(log)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return err
	}

	signer, err := cryptokeys.GenerateKeyPair()
	if err != nil {
		return err
	}

	svc, err := core.New(core.Dependencies{
		DataDir:         cfg.DataDir,
		MonitorInterval: time.Duration(cfg.MonitorInterval) * time.Second,
		TotalEldernodes: cfg.TotalEldernodes,
		Signer:          signer,
	})
	if err != nil {
		return err
	}

	if err := svc.LoadState(cfg.DepositIndexPath(), cfg.SupplyLedgerPath()); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go drainEvents(ctx, svc)

	svc.Run(ctx)

	return svc.SaveState(cfg.DepositIndexPath(), cfg.SupplyLedgerPath())
}

// drainEvents logs deposit monitoring transitions. A full node build
// would instead route these into package council to open misbehavior
// votes; elderfierctl, standing alone, only reports them.
func drainEvents(ctx context.Context, svc *core.Service) {
	events := svc.Monitor.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			fmt.Printf("deposit event: %+v\n", evt)
		}
	}
}

// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package monitor runs the deposit-index monitoring loop of spec
// section 5: a dedicated background goroutine that periodically calls
// depositindex.Store.MonitorDeposits and publishes DepositEvent values
// over a bounded channel.
//
// A channel, rather than a direct call back into package council, is
// the resolution spec section 9 asks for to the cyclic reference
// between the validator/monitor side and the council/slashing side:
// the monitor has no import of package council, and whichever package
// wires the two together simply drains this channel.
package monitor

import (
	"context"
	"time"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
	"github.com/monetarium/elderfier/internal/elderfier/depositindex"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// EventKind classifies a DepositEvent.
type EventKind int

const (
	EventSpent EventKind = iota
	EventOffline
)

// DepositEvent is one observed transition, published for any
// downstream subsystem (e.g. package council, to open a misbehavior
// vote on a validator observed offline) to react to without the
// monitor importing that subsystem directly.
type DepositEvent struct {
	Kind      EventKind
	Key       elderfier.ValidatorKey
	Timestamp int64
}

// Monitor runs depositindex.Store.MonitorDeposits on a fixed interval
// until its context is canceled.
type Monitor struct {
	store    *depositindex.Store
	interval time.Duration
	events   chan DepositEvent
}

// New creates a monitor polling store every interval. events is
// buffered to eventBufferSize so a slow consumer never blocks the
// monitoring goroutine; events beyond the buffer are dropped with a
// warning log, per spec section 5's preference for liveness over
// completeness of this side channel.
const eventBufferSize = 256

func New(store *depositindex.Store, interval time.Duration) *Monitor {
	return &Monitor{
		store:    store,
		interval: interval,
		events:   make(chan DepositEvent, eventBufferSize),
	}
}

// Events returns the channel DepositEvent values are published on.
func (m *Monitor) Events() <-chan DepositEvent {
	return m.events
}

// publish sends evt without blocking; a full buffer drops the event
// and logs a warning rather than stalling the monitoring loop.
func (m *Monitor) publish(evt DepositEvent) {
	select {
	case m.events <- evt:
	default:
		log.Warnf("monitor event buffer full, dropping %v event for validator %s", evt.Kind, evt.Key)
	}
}

// Run blocks, invoking store.MonitorDeposits every interval, until ctx
// is canceled. It is meant to be called from its own goroutine by the
// root core.Service.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Monitor) tick() {
	before := m.store.ListActive()

	if err := m.store.MonitorDeposits(); err != nil {
		log.Warnf("monitor tick failed: %v", err)
		return
	}

	now := time.Now().Unix()
	for _, d := range before {
		cur, err := m.store.LookupByKey(d.ValidatorKey)
		if err != nil {
			continue
		}
		if !d.Flags.Spent && cur.Flags.Spent {
			m.publish(DepositEvent{Kind: EventSpent, Key: d.ValidatorKey, Timestamp: now})
		}
	}
}

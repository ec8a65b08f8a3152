// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selector implements the random Elderfier participant
// selector of spec section 4.6: a deterministic, weighted draw of
// exactly two distinct validators seeded from a block hash, so every
// node observing the same chain reaches the same selection without
// any additional message exchange.
//
// Determinism rules out any third-party PRNG in the example corpus
// (none expose a seed-from-32-bytes, no-global-state construction);
// math/rand/v2's ChaCha8 source is the one standard-library exception
// this module takes, grounded in its exact fit for "seed from a
// 32-byte hash, produce a reproducible stream" and documented in
// DESIGN.md.
package selector

import (
	"math/rand/v2"

	"github.com/decred/slog"
	"github.com/monetarium/elderfier/internal/elderfier"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// weight ladder for SelectionMultiplier, per spec section 4.6: uptime
// bands of 1x/2x/4x/8x/16x, capped at 16x regardless of a stale or
// corrupt stored multiplier.
const maxMultiplier = 16

// Candidate is one weighted entry in the selection pool.
type Candidate struct {
	Key        elderfier.ValidatorKey
	Multiplier uint8
}

// Result is the outcome of a draw: spec section 4.6's selection
// record, kept alongside the block it was made for so any validator
// can reproduce and audit the draw independently.
type Result struct {
	Seed        elderfier.Hash
	Height      int64
	TotalWeight uint64
	Weights     []uint64
	Selected    []elderfier.ValidatorKey
}

// clampMultiplier enforces the cap defensively: a Candidate built from
// persisted or attacker-influenced data must never exceed 16x.
func clampMultiplier(m uint8) uint64 {
	if m == 0 {
		return 1
	}
	if m > maxMultiplier {
		return maxMultiplier
	}
	return uint64(m)
}

// SelectTwo draws exactly two distinct candidates from pool, weighted
// by each candidate's selection multiplier, deterministically seeded
// from blockHash. Returns ErrPolicyViolation if fewer than two
// candidates are available.
func SelectTwo(pool []Candidate, blockHash elderfier.Hash, height int64) (*Result, error) {
	if len(pool) < 2 {
		return nil, elderfier.NewError(elderfier.ErrPolicyViolation, "fewer than two candidates in selection pool")
	}

	weights := make([]uint64, len(pool))
	var total uint64
	for i, c := range pool {
		w := clampMultiplier(c.Multiplier)
		weights[i] = w
		total += w
	}

	rng := rand.New(rand.NewChaCha8(blockHash))

	first := drawIndex(rng, weights, total, -1)
	secondTotal := total - weights[first]
	second := drawIndex(rng, weights, secondTotal, first)

	result := &Result{
		Seed:        blockHash,
		Height:      height,
		TotalWeight: total,
		Weights:     weights,
		Selected:    []elderfier.ValidatorKey{pool[first].Key, pool[second].Key},
	}
	log.Debugf("selected validators %s and %s at height %d (total weight %d)",
		pool[first].Key, pool[second].Key, height, total)
	return result, nil
}

// drawIndex picks a weighted index from weights, excluding exclude (a
// prior pick, or -1 for none), summing to remainingTotal.
func drawIndex(rng *rand.Rand, weights []uint64, remainingTotal uint64, exclude int) int {
	if remainingTotal == 0 {
		for i := range weights {
			if i != exclude {
				return i
			}
		}
		return 0
	}
	r := rng.Uint64N(remainingTotal)
	var cum uint64
	for i, w := range weights {
		if i == exclude {
			continue
		}
		cum += w
		if r < cum {
			return i
		}
	}
	for i := range weights {
		if i != exclude {
			return i
		}
	}
	return 0
}

// MultiplierForUptime maps cumulative uptime seconds to the
// SelectionMultiplier ladder of spec section 4.6: the longer a
// validator has stayed continuously in its security window, the more
// heavily it is weighted in the draw, up to the 16x cap. Bands are
// month-scale: 1x under a month, doubling every tier out to 16x at a
// year or more.
func MultiplierForUptime(uptimeSeconds int64) uint8 {
	const day = 86400
	const month = 30 * day
	switch {
	case uptimeSeconds >= 365*day:
		return 16
	case uptimeSeconds >= 180*day:
		return 8
	case uptimeSeconds >= 90*day:
		return 4
	case uptimeSeconds >= month:
		return 2
	default:
		return 1
	}
}

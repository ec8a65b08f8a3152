// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selector

import (
	"testing"

	"github.com/monetarium/elderfier/internal/elderfier"
)

func testPool(n int) []Candidate {
	pool := make([]Candidate, n)
	for i := range pool {
		pool[i].Key[0] = byte(i + 1)
		pool[i].Multiplier = 1
	}
	return pool
}

func TestSelectTwoPicksDistinctValidators(t *testing.T) {
	pool := testPool(5)
	var seed elderfier.Hash
	seed[0] = 42

	result, err := SelectTwo(pool, seed, 100)
	if err != nil {
		t.Fatalf("SelectTwo: %v", err)
	}
	if len(result.Selected) != 2 {
		t.Fatalf("selected = %d, want 2", len(result.Selected))
	}
	if result.Selected[0] == result.Selected[1] {
		t.Fatalf("expected two distinct validators, got %v twice", result.Selected[0])
	}
}

func TestSelectTwoIsDeterministicForSameSeed(t *testing.T) {
	pool := testPool(8)
	var seed elderfier.Hash
	seed[0] = 7

	r1, err := SelectTwo(pool, seed, 100)
	if err != nil {
		t.Fatalf("SelectTwo first: %v", err)
	}
	r2, err := SelectTwo(pool, seed, 100)
	if err != nil {
		t.Fatalf("SelectTwo second: %v", err)
	}
	if r1.Selected[0] != r2.Selected[0] || r1.Selected[1] != r2.Selected[1] {
		t.Fatalf("selection differed across identical seeds: %v vs %v", r1.Selected, r2.Selected)
	}
}

func TestSelectTwoRejectsTooSmallPool(t *testing.T) {
	pool := testPool(1)
	var seed elderfier.Hash
	if _, err := SelectTwo(pool, seed, 0); err == nil {
		t.Fatal("expected rejection of a pool with fewer than two candidates")
	}
}

func TestClampMultiplierCapsAt16(t *testing.T) {
	if got := clampMultiplier(200); got != maxMultiplier {
		t.Fatalf("clampMultiplier(200) = %d, want %d", got, maxMultiplier)
	}
	if got := clampMultiplier(0); got != 1 {
		t.Fatalf("clampMultiplier(0) = %d, want 1", got)
	}
}

func TestMultiplierForUptimeLadder(t *testing.T) {
	const day = 86400
	cases := []struct {
		uptime int64
		want   uint8
	}{
		{0, 1},
		{29 * day, 1},
		{30 * day, 2},
		{89 * day, 2},
		{90 * day, 4},
		{179 * day, 4},
		{180 * day, 8},
		{364 * day, 8},
		{365 * day, 16},
		{1000 * day, 16},
	}
	for _, c := range cases {
		if got := MultiplierForUptime(c.uptime); got != c.want {
			t.Fatalf("MultiplierForUptime(%d) = %d, want %d", c.uptime, got, c.want)
		}
	}
}

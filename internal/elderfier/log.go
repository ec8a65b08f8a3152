// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package elderfier

import "github.com/decred/slog"

// log is the subsystem logger for the Elderfier core. It is a no-op
// until the embedding application calls UseLogger, matching the plug
// point convention used throughout the decred stack (see
// internal/blockchain's use of a package-level log).
var log = slog.Disabled

// UseLogger sets the subsystem logger used by the Elderfier core
// packages that import this one. Sibling subsystem packages
// (depositindex, burnproof, consensus, council, selector, supply,
// monitor, core) each carry their own UseLogger of the same shape so the embedding application can assign independent
// subsystem tags (e.g. "EFDX", "EFCN", "EFSP") the way dcrd assigns
// "BLKC", "MEMP", "RPCS", etc.
func UseLogger(logger slog.Logger) {
	log = logger
}

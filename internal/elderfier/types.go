// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package elderfier defines the shared data model for the Elderfier
// staking, slashing, and cross-chain burn-proof subsystem: deposit
// records, service-ID variants, burn proofs, consensus results, votes,
// and the closed error-kind set every sibling package returns through.
package elderfier

import (
	"fmt"
	"strings"

	"github.com/monetarium/node/chaincfg/chainhash"
)

// Hash is the 32-byte digest type used throughout the Elderfier core
// for deposit hashes, commitments, message IDs, transaction hashes,
// and block hashes. It is a direct alias of chainhash.Hash so that
// FastHash below (blake256, the same function dcrd's chainhash uses)
// can be used interchangeably with the rest of the node's hashing.
type Hash = chainhash.Hash

// FastHash computes the domain's "fast hash" over the given byte
// strings, concatenated in order. It is the same blake256-based
// primitive the surrounding node already uses for block and
// transaction hashing (chainhash.HashH), reused here to avoid
// introducing a second hash function for one subsystem.
func FastHash(parts ...[]byte) Hash {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return chainhash.HashH(buf)
}

// ValidatorKeySize is the length in bytes of an Elderfier validator's
// public key (an Ed25519 public key).
const ValidatorKeySize = 32

// SignatureSize is the length in bytes of an Elderfier signature.
const SignatureSize = 64

// ValidatorKey identifies an Elderfier validator node.
type ValidatorKey [ValidatorKeySize]byte

// String renders the key as hex for logs and error messages.
func (k ValidatorKey) String() string {
	return fmt.Sprintf("%x", k[:])
}

// Signature is a detached Ed25519 signature.
type Signature [SignatureSize]byte

// Amount is an atomic integer unit of the node's currency. All
// arithmetic in the Elderfier core is integer; no floating point
// appears anywhere in validation or accounting, per spec.
type Amount uint64

// String renders the amount as a bare integer of atomic units. Unlike
// dcrutil.Amount this type does not know the node's decimal placement;
// a higher layer that does can divide by its own AtomsPerCoin.
func (a Amount) String() string {
	return fmt.Sprintf("%d", uint64(a))
}

// Currency constants fixed by spec section 6. These are preserved
// exactly for wire/state compatibility and are not derived from any
// other parameter.
const (
	// MinElderfierStake is the minimum locked deposit required for a
	// node to be an active Elderfier.
	MinElderfierStake Amount = 800_000_000_000

	// MinBurnAmount is the smallest amount a burn proof may carry.
	MinBurnAmount Amount = 1_000_000

	// MaxBurnAmount is the largest amount a burn proof may carry.
	MaxBurnAmount Amount = 1_000_000_000_000

	// ElderfierDepositTag is the tx_extra tag marking an Elderfier
	// deposit output (section 6 tag registry).
	ElderfierDepositTag = 0xE8

	// ElderfierConsensusTag marks an Elderfier consensus message in
	// tx_extra.
	ElderfierConsensusTag = 0xEF

	// HeatCommitmentTag marks a burn commitment in tx_extra.
	HeatCommitmentTag = 0x08
)

// DepositFlags bundles the boolean lifecycle flags carried by a
// Deposit. Kept as a struct of named bools rather than a bitmask: the
// invariants in spec section 3 are phrased over named flags and a
// bitmask would just make DepositIndex tests harder to read.
type DepositFlags struct {
	Active            bool
	Slashable         bool
	Spent             bool
	Slashed           bool
	InSecurityWindow  bool
	UnlockRequested   bool
}

// Deposit is an Elderfier staking deposit: a locked on-chain output
// backing one validator's participation in the index.
type Deposit struct {
	DepositHash Hash
	ValidatorKey ValidatorKey
	StakeAmount Amount
	CreatedAt   int64
	Address     string
	ServiceID   ServiceID

	LastSeen        int64
	UptimeSeconds    int64
	SelectionMultiplier uint8

	Flags DepositFlags

	LastSignatureTimestamp int64
	WindowEnd              int64
	WindowDuration         int64
	UnlockRequestTimestamp int64
}

// CheckInvariants validates the deposit against spec section 3's
// invariants. It does not mutate the deposit; callers use this both as
// a guard on write and as a property check in tests.
func (d *Deposit) CheckInvariants(now int64) error {
	if d.Flags.Spent && d.Flags.Active {
		return NewError(ErrStructural, "spent deposit must not be active")
	}
	if d.Flags.Spent && d.Flags.InSecurityWindow {
		return NewError(ErrStructural, "spent deposit must not be in a security window")
	}
	if d.Flags.Slashed && d.Flags.Active {
		return NewError(ErrStructural, "slashed deposit must not be active")
	}
	if d.Flags.Slashed && d.Flags.InSecurityWindow {
		return NewError(ErrStructural, "slashed deposit must not be in a security window")
	}
	wantInWindow := now < d.WindowEnd
	if d.Flags.InSecurityWindow != wantInWindow {
		return NewError(ErrStructural, "in-security-window flag disagrees with window-end timestamp")
	}
	if d.Flags.UnlockRequested && d.LastSignatureTimestamp+d.WindowDuration > now {
		return NewError(ErrStructural, "unlock-requested before window elapsed")
	}
	if d.Flags.Active && d.StakeAmount < MinElderfierStake {
		return NewError(ErrStructural, "active deposit below minimum stake")
	}
	return nil
}

// DefaultWindowDuration is the default security-window length: 8
// hours.
const DefaultWindowDuration int64 = 28_800

// DefaultMinSignatureInterval is the minimum spacing between
// window-refreshing signatures: 1 hour.
const DefaultMinSignatureInterval int64 = 3_600

// DefaultGracePeriod is how much earlier than window-end an unlock
// request may be made.
const DefaultGracePeriod int64 = 600

// DefaultMaxOfflineTime is how long a deposit may go without a
// signature before being flagged inactive (but not spent).
const DefaultMaxOfflineTime int64 = 86_400

// ServiceIDKind tags the variant held by a ServiceID value.
type ServiceIDKind int

const (
	// ServiceIDStandardAddress identifies a node by its plain fee
	// address.
	ServiceIDStandardAddress ServiceIDKind = iota
	// ServiceIDCustomName identifies a node by an 8-letter alias bound
	// to a hashed address.
	ServiceIDCustomName
	// ServiceIDHashedAddress identifies a node by a privacy-preserving
	// hash of its fee address.
	ServiceIDHashedAddress
)

// ServiceID is a tagged variant identifying an Elderfier under one of
// three naming schemes. It is implemented as a sum type (a Kind tag
// plus the union of possible fields) rather than an interface
// hierarchy, per spec section 9's guidance to avoid inheritance for
// variants.
type ServiceID struct {
	Kind ServiceIDKind

	// Address is populated for StandardAddress and HashedAddress.
	Address string

	// Name and LinkedAddress are populated for CustomName.
	Name          string
	LinkedAddress string
}

// reservedCustomNames holds names that may never be claimed as a
// CustomName alias.
var reservedCustomNames = map[string]bool{
	"ELDERFIE": true,
	"TREASURY": true,
	"GENESISX": true,
	"FOREVERX": true,
}

// NewStandardAddressID builds a StandardAddress service ID.
func NewStandardAddressID(addr string) ServiceID {
	return ServiceID{Kind: ServiceIDStandardAddress, Address: addr}
}

// NewHashedAddressID builds a HashedAddress service ID.
func NewHashedAddressID(hashedAddr string) ServiceID {
	return ServiceID{Kind: ServiceIDHashedAddress, Address: hashedAddr}
}

// NewCustomNameID builds a CustomName service ID, validating the
// 8-letter uppercase charset and reserved-name rule.
func NewCustomNameID(name, linkedAddr string) (ServiceID, error) {
	if err := validateCustomName(name); err != nil {
		return ServiceID{}, err
	}
	return ServiceID{Kind: ServiceIDCustomName, Name: name, LinkedAddress: linkedAddr}, nil
}

func validateCustomName(name string) error {
	if len(name) != 8 {
		return NewError(ErrStructural, "custom name must be exactly 8 characters")
	}
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return NewError(ErrStructural, "custom name must be ASCII uppercase letters only")
		}
	}
	if reservedCustomNames[name] {
		return NewError(ErrPolicyViolation, "custom name collides with a reserved name")
	}
	return nil
}

// Key returns the string used to index this ServiceID in a uniqueness
// map. CustomName comparisons are case-sensitive (the 8-letter
// uppercase constraint is enforced at construction, not at lookup).
func (s ServiceID) Key() string {
	switch s.Kind {
	case ServiceIDStandardAddress:
		return "std:" + s.Address
	case ServiceIDHashedAddress:
		return "hash:" + s.Address
	case ServiceIDCustomName:
		return "name:" + s.Name
	default:
		return "invalid:" + strings.ToLower(fmt.Sprintf("%d", s.Kind))
	}
}

// BurnProof is a claim that value was irrevocably burned on the
// originating chain, submitted for cross-chain attestation.
type BurnProof struct {
	BurnHash         Hash
	Amount           Amount
	Timestamp        int64
	DepositorAddress string
	TreasuryAddress  string
	Commitment       Hash
	TxHash           Hash
	Signature        Signature

	// FeeClass is metadata only ("large burn" vs "default burn"); no
	// validator enforces it per spec section 9's open question.
	FeeClass string
}

// ConsensusPath identifies which tier of the progressive consensus
// protocol produced a ConsensusResult.
type ConsensusPath int

const (
	// ConsensusNone marks that no path reached its threshold.
	ConsensusNone ConsensusPath = iota
	// ConsensusFastPath is the 2/2 fast path.
	ConsensusFastPath
	// ConsensusFallback is the 4/5 fallback path.
	ConsensusFallback
	// ConsensusFullQuorum is the 7/10 full-quorum path.
	ConsensusFullQuorum
)

// String renders the path name for logs and test failure messages.
func (p ConsensusPath) String() string {
	switch p {
	case ConsensusFastPath:
		return "fast"
	case ConsensusFallback:
		return "fallback"
	case ConsensusFullQuorum:
		return "full-quorum"
	default:
		return "none"
	}
}

// ConsensusResult is the output of a progressive consensus round.
type ConsensusResult struct {
	ParticipantIDs   []ValidatorKey
	Signatures       []Signature
	TxHash           Hash
	Commitment       Hash
	Amount           Amount
	PathUsed         ConsensusPath
	Threshold        int
	Timestamp        int64
	CommitmentMatch  bool
	AmountMatch      bool
}

// VoteType is the set of verdicts an Elder Council member may cast
// against a slashing target.
type VoteType int

const (
	// VoteSlashAll removes the full stake.
	VoteSlashAll VoteType = iota
	// VoteSlashHalf removes half the stake.
	VoteSlashHalf
	// VoteSlashNone takes no action against the stake.
	VoteSlashNone
	// VoteGoodKeepAll affirms the validator's good standing.
	VoteGoodKeepAll
)

// String renders the vote name.
func (v VoteType) String() string {
	switch v {
	case VoteSlashAll:
		return "slash-all"
	case VoteSlashHalf:
		return "slash-half"
	case VoteSlashNone:
		return "slash-none"
	case VoteGoodKeepAll:
		return "good-keep-all"
	default:
		return "unknown"
	}
}

// SlashPercent returns the percentage of stake this vote type removes
// when it prevails, per spec section 4.5's default schedule.
func (v VoteType) SlashPercent() int {
	switch v {
	case VoteSlashAll:
		return 100
	case VoteSlashHalf:
		return 50
	default:
		return 0
	}
}

// harsherRank ranks vote types for council tie-breaking: SlashAll >
// SlashHalf > SlashNone > GoodKeepAll.
func harsherRank(v VoteType) int {
	switch v {
	case VoteSlashAll:
		return 3
	case VoteSlashHalf:
		return 2
	case VoteSlashNone:
		return 1
	default:
		return 0
	}
}

// HarsherOrEqual reports whether a is at least as harsh as b under the
// spec's tie-break ordering.
func HarsherOrEqual(a, b VoteType) bool {
	return harsherRank(a) >= harsherRank(b)
}

// MisbehaviorEvidence documents a pattern of invalid signatures
// attributed to a validator, used to open an Elder Council vote.
type MisbehaviorEvidence struct {
	TargetKey            ValidatorKey
	InvalidSignatureCount int
	TotalAttempts         int
	FirstInvalidTimestamp int64
	LastInvalidTimestamp  int64
	InvalidSignatureHashes []Hash
	Reason                 string
}

// Serialize produces the deterministic byte encoding of evidence used
// to compute a voting message's ID (message_id = FastHash(evidence)).
func (e *MisbehaviorEvidence) Serialize() []byte {
	buf := append([]byte{}, e.TargetKey[:]...)
	buf = appendInt64(buf, int64(e.InvalidSignatureCount))
	buf = appendInt64(buf, int64(e.TotalAttempts))
	buf = appendInt64(buf, e.FirstInvalidTimestamp)
	buf = appendInt64(buf, e.LastInvalidTimestamp)
	for _, h := range e.InvalidSignatureHashes {
		buf = append(buf, h[:]...)
	}
	buf = append(buf, []byte(e.Reason)...)
	return buf
}

func appendInt64(buf []byte, v int64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
	)
}

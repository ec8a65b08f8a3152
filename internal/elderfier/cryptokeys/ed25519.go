// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cryptokeys implements Elderfier validator key generation,
// signing, and verification on top of agl/ed25519 -- already an
// indirect dependency of the teacher through dcrec/edwards -- chosen
// over the node's own secp256k1-based signing stack because spec
// section 3 specifies a 32-byte public key and a 64-byte signature
// matching Ed25519's fixed sizes exactly, rather than DER-encoded
// ECDSA's variable length.
package cryptokeys

import (
	"crypto/rand"

	"github.com/agl/ed25519"
	"github.com/monetarium/elderfier/internal/elderfier"
)

// KeyPair holds an Elderfier validator's Ed25519 key material.
type KeyPair struct {
	public  *[32]byte
	private *[64]byte
}

// GenerateKeyPair creates a new random validator key pair.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, elderfier.WrapError(elderfier.ErrStructural, "generate ed25519 key pair", err)
	}
	return &KeyPair{public: pub, private: priv}, nil
}

// PublicKey returns the validator's public key in the shared
// ValidatorKey representation.
func (k *KeyPair) PublicKey() elderfier.ValidatorKey {
	var out elderfier.ValidatorKey
	copy(out[:], k.public[:])
	return out
}

// Sign signs message, satisfying burnproof.Signer and any other
// sibling interface needing raw signing.
func (k *KeyPair) Sign(message []byte) elderfier.Signature {
	sig := ed25519.Sign(k.private, message)
	var out elderfier.Signature
	copy(out[:], sig[:])
	return out
}

// Verifier verifies Ed25519 signatures against the shared
// ValidatorKey/Signature types, satisfying burnproof.Verifier and
// consensus.SignatureVerifier.
type Verifier struct{}

// NewVerifier creates a stateless Ed25519 verifier.
func NewVerifier() Verifier { return Verifier{} }

// Verify reports whether sig is a valid Ed25519 signature over
// message under pub.
func (Verifier) Verify(pub elderfier.ValidatorKey, message []byte, sig elderfier.Signature) bool {
	var pubArr [32]byte
	copy(pubArr[:], pub[:])
	var sigArr [64]byte
	copy(sigArr[:], sig[:])
	return ed25519.Verify(&pubArr, message, &sigArr)
}

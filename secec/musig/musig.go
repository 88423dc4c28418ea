// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package musig implements an n-of-n aggregate Schnorr signature
// scheme over secp256k1.  Every cosigner holds a private key; driven
// through a Session, the group jointly produces a single 64-byte
// signature that verifies against the ordered list of their public
// keys, indistinguishable in size from a single-signer signature.
//
// Key aggregation into one composite public key is explicitly not
// part of this package: Verify checks a signature against the *list*
// of participant keys, not a combined key.  Threshold (t-of-n) signing,
// identifiable abort, and proactive nonce refresh are likewise out of
// scope.
//
// Unlike the rest of this module, GenerateNonce, PartialSign, Combine,
// and Verify report failure as a plain bool with no indication of
// *why* the operation failed, by design: the underlying state-machine
// and cryptographic parse failures this package guards against are not
// meant to be distinguishable to a caller (a malformed signature and a
// signature over the wrong message both just fail to verify). Session
// construction still returns an error, since that failure is ordinary
// argument validation rather than part of the signing protocol.
package musig

import (
	"crypto/subtle"
	"errors"
	"io"

	"github.com/cosigner-io/secp256k1agg"
	"github.com/cosigner-io/secp256k1agg/secec"
)

// Sizes, in bytes, of the wire values this package produces and
// consumes.
const (
	// PartialSignatureSize is the size of a single signer's partial
	// signature.
	PartialSignatureSize = 32
	// SignatureSize is the size of the aggregate signature.
	SignatureSize = 64
	// MessageSize is the size of the message digest signed over.
	MessageSize = 32
	// SeedSize is the size of the seed used to initialize a Session's
	// deterministic RNG.
	SeedSize = 32
)

// PartialSignature is one signer's scalar contribution to an aggregate
// signature: a 32-byte big-endian encoding of s_i.
type PartialSignature [PartialSignatureSize]byte

// Signature is a 64-byte aggregate Schnorr signature: `s || R.x`.
type Signature [SignatureSize]byte

// Progress is the per-index state of a Session's signing state
// machine.
type Progress uint8

const (
	// ProgressUnknown is the initial state: neither a nonce nor a
	// partial signature is known for this index.
	ProgressUnknown Progress = iota
	// ProgressOther is reserved for a future extension accepting
	// externally-supplied nonces.  No operation in this package ever
	// sets or reads it; it exists only so the state machine's switch
	// is exhaustive against a future state.
	ProgressOther
	// ProgressOurs means a nonce has been generated for this index
	// and contributed to the running nonce sum, but no partial
	// signature has been produced yet.
	ProgressOurs
	// ProgressSigned means a partial signature has been produced for
	// this index; the index's secret nonce must not be reused.
	ProgressSigned
)

var (
	// ErrInvalidArgument is returned by Session construction for
	// malformed inputs (n == 0, a nil key or seed, duplicate keys).
	ErrInvalidArgument = errors.New("secp256k1/musig: invalid argument")
	// ErrSessionDestroyed names use of a Session after Destroy.  No
	// function in this package returns it: GenerateNonce, PublicNonce,
	// PartialSign and Combine return false on a destroyed Session.
	ErrSessionDestroyed = errors.New("secp256k1/musig: session is destroyed")
)

// Session holds the mutable state of one n-of-n signing attempt: the
// ordered public keys, per-index secret nonces, per-index progress,
// the running aggregate public-nonce sum, and a deterministic RNG
// seeded at creation.
//
// A Session is created for exactly one signing attempt and must be
// destroyed with Destroy afterwards (or on abort); it exclusively owns
// its three parallel slices and its RNG, and is not safe for
// concurrent use. Parallelism across distinct Sessions is safe.
type Session struct {
	pubkeys  []*secec.PublicKey
	secnonce []*secp256k1.Scalar
	progress []Progress

	pubnonceSum *secp256k1.Point // Jacobian running sum, QR-normalized per contribution

	rng io.Reader

	destroyed bool
}

// NewSession creates a Session for the ordered list of n participant
// public keys and a 32-byte seed, initializing the deterministic RNG
// from the seed.  n must be at least 1, and pubkeys must not contain
// duplicates.
func NewSession(pubkeys []*secec.PublicKey, seed *[SeedSize]byte) (*Session, error) {
	if len(pubkeys) == 0 {
		return nil, ErrInvalidArgument
	}
	for i, pk := range pubkeys {
		if pk == nil {
			return nil, ErrInvalidArgument
		}
		pkBytes := pk.Point().CompressedBytes()
		for j := 0; j < i; j++ {
			if subtle.ConstantTimeCompare(pubkeys[j].Point().CompressedBytes(), pkBytes) == 1 {
				return nil, ErrInvalidArgument
			}
		}
	}
	if seed == nil {
		return nil, ErrInvalidArgument
	}

	n := len(pubkeys)
	sess := &Session{
		pubkeys:     append([]*secec.PublicKey{}, pubkeys...),
		secnonce:    make([]*secp256k1.Scalar, n),
		progress:    make([]Progress, n),
		pubnonceSum: secp256k1.NewIdentityPoint(),
		rng:         newSeededRNG(seed),
	}

	return sess, nil
}

// Len returns the number of participants n in the session.
func (s *Session) Len() int {
	return len(s.pubkeys)
}

// Progress returns the current state-machine state for participant
// index i.
func (s *Session) Progress(i int) Progress {
	return s.progress[i]
}

// Destroy zeroizes the session's secret material (secnonce scalars,
// the progress and pubkeys slices) and releases it for teardown.  It
// is idempotent and safe to call on an already-destroyed session or on
// a nil session, where it does nothing.
func (s *Session) Destroy() {
	if s == nil || s.destroyed {
		return
	}

	for i := range s.secnonce {
		if s.secnonce[i] != nil {
			s.secnonce[i].Zero()
			s.secnonce[i] = nil
		}
		s.progress[i] = ProgressUnknown
		s.pubkeys[i] = nil
	}
	s.pubkeys = nil
	s.secnonce = nil
	s.progress = nil
	s.pubnonceSum = nil
	s.rng = nil

	s.destroyed = true
}

func (s *Session) checkIndex(i int) bool {
	return !s.destroyed && i >= 0 && i < len(s.pubkeys)
}

// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import (
	"io"

	"github.com/cosigner-io/secp256k1agg"
)

// maxNonceResamples bounds the rejection-sampling loop in
// sampleSessionScalar. As in secec's sampleRandomScalar, a single
// retry is already cryptographically unreachable for a functioning
// entropy source; this is a backstop, not an expected path.
const maxNonceResamples = 8

// GenerateNonce generates the secret nonce k_i for participant index
// i, derives its public nonce K_i = k_i*G, normalizes K_i to have a
// quadratic-residue Y-coordinate (negating k_i and K_i together if
// needed), and folds K_i into the session's running public-nonce sum.
//
// It returns false without mutating any state if i is out of range or
// progress[i] is not ProgressUnknown (in particular, calling
// GenerateNonce(i) twice on the same index always fails the second
// time).
func (s *Session) GenerateNonce(i int) bool {
	if !s.checkIndex(i) || s.progress[i] != ProgressUnknown {
		return false
	}

	k, ok := sampleSessionScalar(s.rng)
	if !ok {
		return false
	}

	bigK := secp256k1.NewIdentityPoint().ScalarBaseMult(k)
	if affineYIsQR(bigK) == 0 {
		k.Negate(k)
		bigK.Negate(bigK)
	}

	s.pubnonceSum.Add(s.pubnonceSum, bigK)
	s.secnonce[i] = k
	s.progress[i] = ProgressOurs

	return true
}

// PublicNonce returns the compressed 33-byte encoding of participant
// index i's public nonce K_i, once GenerateNonce(i) has succeeded.
// This accessor has no effect on session state; it exists purely so
// that a caller coordinating multiple cosigners has something to
// transmit to the others between the nonce-generation and
// partial-signing phases of the protocol.
func (s *Session) PublicNonce(i int) ([]byte, bool) {
	if !s.checkIndex(i) {
		return nil, false
	}
	switch s.progress[i] {
	case ProgressOurs, ProgressSigned:
	default:
		return nil, false
	}

	bigK := secp256k1.NewIdentityPoint().ScalarBaseMult(s.secnonce[i])
	if affineYIsQR(bigK) == 0 {
		bigK.Negate(bigK)
	}
	return bigK.CompressedBytes(), true
}

// sampleSessionScalar pulls 32 bytes from rng and interprets them as a
// scalar, retrying on overflow or zero. The transient buffer is
// zeroized before returning.
func sampleSessionScalar(rng io.Reader) (*secp256k1.Scalar, bool) {
	var buf [secp256k1.ScalarSize]byte
	defer zeroizeBytes(buf[:])

	s := secp256k1.NewScalar()
	for attempt := 0; attempt < maxNonceResamples; attempt++ {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return nil, false
		}

		didReduce := uint64(0)
		s, didReduce = s.SetBytes(&buf)
		if didReduce == 0 && s.IsZero() == 0 {
			return s, true
		}
	}

	return nil, false
}

func zeroizeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

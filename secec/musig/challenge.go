// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import (
	"crypto/sha256"

	"github.com/cosigner-io/secp256k1agg"
	"github.com/cosigner-io/secp256k1agg/secec"
)

// prehash computes H1(pubkeys, R, msg32): the SHA-256 of every pubkey
// in list order (33-byte compressed), followed by R's 33-byte
// compressed encoding (R MUST already have a quadratic-residue Y),
// followed by the 32-byte message.  It is shared across all signers
// for a given (pubkeys, R, msg32) triple, computed once per signing or
// verification attempt.
func prehash(pubkeys []*secec.PublicKey, r *secp256k1.Point, msg32 *[MessageSize]byte) [sha256.Size]byte {
	h := sha256.New()
	for _, pk := range pubkeys {
		_, _ = h.Write(pk.Point().CompressedBytes())
	}
	_, _ = h.Write(r.CompressedBytes())
	_, _ = h.Write(msg32[:])

	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// encodeIndexLE7 serializes a non-negative 0-based signer index as a
// little-endian base-128 sequence: while i > 0, the low 7 bits are
// emitted and i is shifted right 7. The encoding is empty for index 0.
func encodeIndexLE7(i int) []byte {
	if i < 0 {
		panic("secp256k1/musig: negative signer index")
	}

	var out []byte
	for i > 0 {
		out = append(out, byte(i&0x7f))
		i >>= 7
	}
	return out
}

// challenge computes e_i = H2(prehash, i) mod n: SHA-256 over the
// base-128 index encoding followed by the 32-byte prehash, parsed as a
// scalar.  It fails (ok == false) on the cryptographically negligible
// event that the digest is not a canonical scalar encoding; callers
// must treat that as a non-retryable failure for this participant.
func challenge(ph *[sha256.Size]byte, index int) (e *secp256k1.Scalar, ok bool) {
	h := sha256.New()
	_, _ = h.Write(encodeIndexLE7(index))
	_, _ = h.Write(ph[:])

	var digest [sha256.Size]byte
	copy(digest[:], h.Sum(nil))

	s, err := secp256k1.NewScalarFromCanonicalBytes(&digest)
	if err != nil {
		return nil, false
	}
	return s, true
}

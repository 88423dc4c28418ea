// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import "github.com/cosigner-io/secp256k1agg"

// PartialSign computes participant index i's partial signature s_i
// over msg32 using the 32-byte big-endian secret key seckey32, and
// writes it to out.
//
// The state-machine precondition is strict: every participant's nonce
// must already be known (progress[j] != ProgressUnknown for all j),
// and progress[i] must be ProgressOurs. Either failing returns false
// without mutating any state, which in particular makes signing
// before all nonces are known impossible, and makes signing twice
// with the same index impossible. An invalid (overflowing) seckey32
// also returns false, leaving progress[i] unchanged at ProgressOurs.
func (s *Session) PartialSign(out *PartialSignature, msg32 *[MessageSize]byte, seckey32 *[32]byte, i int) bool {
	if !s.checkIndex(i) {
		return false
	}
	for _, p := range s.progress {
		if p == ProgressUnknown {
			return false
		}
	}
	if s.progress[i] != ProgressOurs {
		return false
	}

	x, err := secp256k1.NewScalarFromCanonicalBytes(seckey32)
	if err != nil {
		return false
	}
	defer x.Zero()

	// R does not persist between phases; it is recomputed here from
	// the running Jacobian sum every call. This is a performance-only
	// concern, not a correctness one.
	r := secp256k1.NewIdentityPoint().Set(s.pubnonceSum)
	k := secp256k1.NewScalarFrom(s.secnonce[i])
	defer k.Zero()

	if affineYIsQR(r) == 0 {
		r.Negate(r)
		k.Negate(k)
	}

	ph := prehash(s.pubkeys, r, msg32)
	e, ok := challenge(&ph, i)
	if !ok {
		return false
	}
	defer e.Zero()

	sVal := secp256k1.NewScalar().Multiply(e, x)
	sVal.Add(sVal, k)
	defer sVal.Zero()

	copy(out[:], sVal.Bytes())

	s.progress[i] = ProgressSigned

	return true
}

// Combine sums the n partial signatures (one per participant, in
// session order) into the aggregate signature sig64Out. It fails if
// len(partials) does not equal the session's participant count, or if
// any partial is not a canonical scalar encoding.
//
// Combine does not check or change any participant's progress.  When
// every index has gone through PartialSign in this session, each is
// ProgressSigned and no further signing is possible.
func (s *Session) Combine(sig64Out *Signature, partials []PartialSignature) bool {
	if s.destroyed || len(partials) != len(s.pubkeys) {
		return false
	}

	sum := secp256k1.NewScalar().Zero()
	for i := range partials {
		ps, err := secp256k1.NewScalarFromCanonicalBytes((*[PartialSignatureSize]byte)(&partials[i]))
		if err != nil {
			return false
		}
		sum.Add(sum, ps)
	}

	if affineYIsQR(s.pubnonceSum) == 0 {
		s.pubnonceSum.Negate(s.pubnonceSum)
	}

	copy(sig64Out[0:32], sum.Bytes())
	copy(sig64Out[32:64], affineXBytes(s.pubnonceSum))

	return true
}

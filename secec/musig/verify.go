// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import (
	"github.com/cosigner-io/secp256k1agg"
	"github.com/cosigner-io/secp256k1agg/internal/field"
	"github.com/cosigner-io/secp256k1agg/secec"
)

// Verify checks whether sig64 is a valid aggregate signature over
// msg32 for the ordered list of participant public keys, and returns
// a plain boolean: verification never distinguishes *why* a signature
// is invalid (malformed encoding, wrong message, wrong key list, and
// tampering are all reported identically as a failed verification).
//
// The verification equation s*G - Σ e_i*P_i - R = O is evaluated as a
// batched, variable-time multi-scalar multiplication (see
// secp256k1.MultiScalarMultVartime); every input here is public, so
// the variable-time primitives are safe to use.
func Verify(sig64 *Signature, msg32 *[MessageSize]byte, pubkeys []*secec.PublicKey) bool {
	n := len(pubkeys)
	if n == 0 {
		return false
	}

	var sBytes, rxBytes [32]byte
	copy(sBytes[:], sig64[0:32])
	copy(rxBytes[:], sig64[32:64])

	sigS, err := secp256k1.NewScalarFromCanonicalBytes(&sBytes)
	if err != nil {
		return false
	}

	r, err := liftXQuadraticResidue((*[field.ElementSize]byte)(&rxBytes))
	if err != nil {
		return false
	}

	ph := prehash(pubkeys, r, msg32)

	negE := make([]*secp256k1.Scalar, n)
	points := make([]*secp256k1.Point, n)
	for i, pk := range pubkeys {
		e, ok := challenge(&ph, i)
		if !ok {
			return false
		}
		e.Negate(e)
		negE[i] = e
		points[i] = pk.Point()
	}

	acc := secp256k1.NewIdentityPoint().MultiScalarMultVartime(negE, points)
	acc.Add(acc, secp256k1.NewIdentityPoint().ScalarBaseMult(sigS))
	acc.Subtract(acc, r)

	return acc.IsIdentity() == 1
}

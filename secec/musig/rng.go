// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// domainSepMusigRNG mirrors the domain-separation convention used by
// secec's mitigateDebianAndSony cSHAKE mitigation, generalized into a
// standalone deterministic byte stream rather than a one-shot mix-in.
const domainSepMusigRNG = "secp256k1-musig/session-rng"

// newSeededRNG returns a deterministic io.Reader derived from seed,
// suitable for a Session's nonce generation. Squeezing the same seed
// twice yields the same byte stream.
func newSeededRNG(seed *[SeedSize]byte) io.Reader {
	xof := sha3.NewCShake256(nil, []byte(domainSepMusigRNG))
	_, _ = xof.Write(seed[:])
	return xof
}

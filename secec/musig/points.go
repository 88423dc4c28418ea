// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import "github.com/cosigner-io/secp256k1agg"

// affineXBytes returns the 32-byte big-endian X-coordinate of p's
// affine representation. p must not be the point at infinity.
func affineXBytes(p *secp256k1.Point) []byte {
	ptBytes := p.UncompressedBytes()
	return append([]byte{}, ptBytes[1:33]...)
}

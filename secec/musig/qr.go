// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package musig

import (
	"errors"

	"github.com/cosigner-io/secp256k1agg"
	"github.com/cosigner-io/secp256k1agg/internal/field"
)

var errInvalidXCoordinate = errors.New("secp256k1/musig: invalid X coordinate")

// feB is the curve equation's constant term (y^2 = x^3 + 7).
var feB = field.NewElementFromSaturated(0, 0, 0, 7)

// isQuadraticResidue returns 1 iff y has a square root in the field,
// 0 otherwise. This is the sole QR test used throughout this package
// to normalize a point's Y without transmitting a sign bit.
func isQuadraticResidue(y *field.Element) uint64 {
	_, hasSqrt := field.NewElement().Sqrt(y)
	return hasSqrt
}

func xCubedPlusB(x *field.Element) *field.Element {
	yy := field.NewElement().Square(x)
	yy.Multiply(yy, x)
	yy.Add(yy, feB)
	return yy
}

// affineYIsQR returns 1 iff the affine Y-coordinate of p is a
// quadratic residue, 0 otherwise. p must not be the point at infinity.
func affineYIsQR(p *secp256k1.Point) uint64 {
	// UncompressedBytes forces the affine rescale; bytes[33:65] is the
	// affine Y.
	ptBytes := p.UncompressedBytes()
	var yBytes [field.ElementSize]byte
	copy(yBytes[:], ptBytes[1+field.ElementSize:])

	y, err := field.NewElementFromCanonicalBytes(&yBytes)
	if err != nil {
		// Unreachable for a point produced by this package's own
		// arithmetic; treat as "not a QR" defensively.
		return 0
	}

	return isQuadraticResidue(y)
}

// liftXQuadraticResidue reconstructs the unique point on the curve
// with X-coordinate xBytes whose Y-coordinate is a quadratic residue.
// It fails if xBytes is not a valid X-coordinate (x^3+7 is not a QR).
func liftXQuadraticResidue(xBytes *[field.ElementSize]byte) (*secp256k1.Point, error) {
	x, err := field.NewElementFromCanonicalBytes(xBytes)
	if err != nil {
		return nil, errInvalidXCoordinate
	}

	y, hasSqrt := field.NewElement().Sqrt(xCubedPlusB(x))
	if hasSqrt != 1 {
		return nil, errInvalidXCoordinate
	}

	if isQuadraticResidue(y) == 0 {
		y.Negate(y)
	}

	var uncompressed [1 + 2*field.ElementSize]byte
	uncompressed[0] = 0x04
	copy(uncompressed[1:], xBytes[:])
	copy(uncompressed[1+field.ElementSize:], y.Bytes())

	pt, err := secp256k1.NewPointFromBytes(uncompressed[:])
	if err != nil {
		return nil, errInvalidXCoordinate
	}

	return pt, nil
}

package secp256k1

// MaxMultiScalarBatch is the largest number of (scalar, point) terms
// MultiScalarMultVartime will accumulate without chunking.  Callers
// with more terms than this get automatically split into multiple
// batches; this bounds the number of projective point-multiplication
// tables live at once, the same concern the reference implementation's
// `SECP256K1_ECMULT_MULTI_MAX_N` addresses.
const MaxMultiScalarBatch = 32

// MultiScalarMultVartime sets `v = Σ scalars[i] * points[i]`, and
// returns `v`, in variable time.  It panics if len(scalars) !=
// len(points). This is safe to use only when every scalar and point
// involved is public.
func (v *Point) MultiScalarMultVartime(scalars []*Scalar, points []*Point) *Point {
	if len(scalars) != len(points) {
		panic("secp256k1: mismatched scalar/point counts in multi-scalar mult")
	}

	v.Identity()
	if len(scalars) == 0 {
		return v
	}

	acc := NewIdentityPoint()
	for off := 0; off < len(scalars); off += MaxMultiScalarBatch {
		end := off + MaxMultiScalarBatch
		if end > len(scalars) {
			end = len(scalars)
		}

		batch := newRcvr().Identity()
		for i := off; i < end; i++ {
			term := newRcvr().scalarMultVartimeGLV(scalars[i], points[i])
			batch.Add(batch, term)
		}
		acc.Add(acc, batch)
	}

	return v.Set(acc)
}

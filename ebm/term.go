package ebm

// Dimension describes one feature slot of a Term: its bin count and a
// monotonicity constraint for that axis. GenerateTermUpdate does not read
// Direction; the constraints it enforces come from its direction argument.
type Dimension struct {
	CBins     int
	Direction MonotoneDirection
}

// Term is a single feature or a small Cartesian product of features
// forming one additive component of the model. Dimensions with CBins == 1
// are insignificant and are dropped from the real-dimension count, but are
// kept in the slice so mixed-radix tensor-bin indexing still lines up with
// external per-sample layout.
type Term struct {
	Dimensions []Dimension
}

// CountDimensions returns the term's raw dimension count, including
// insignificant ones.
func (t *Term) CountDimensions() int { return len(t.Dimensions) }

// CountTensorBins returns cTensorBins = Π_d cBins_d.
func (t *Term) CountTensorBins() int {
	n := 1
	for _, d := range t.Dimensions {
		n *= d.CBins
	}
	return n
}

// SignificantDimensions returns the indices of dimensions with CBins > 1,
// in original order.
func (t *Term) SignificantDimensions() []int {
	var sig []int
	for i, d := range t.Dimensions {
		if d.CBins > 1 {
			sig = append(sig, i)
		}
	}
	return sig
}

// CountRealDimensions returns len(SignificantDimensions()).
func (t *Term) CountRealDimensions() int { return len(t.SignificantDimensions()) }

// mixedRadixStrides returns, for the given per-dimension bin counts, the
// stride of each dimension in a row-major mixed-radix flattening (last
// dimension varies fastest).
func mixedRadixStrides(cBins []int) []int {
	strides := make([]int, len(cBins))
	stride := 1
	for i := len(cBins) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= cBins[i]
	}
	return strides
}

// flattenIndex combines per-dimension indices into one flat tensor-bin
// index using strides from mixedRadixStrides.
func flattenIndex(indices, strides []int) int {
	flat := 0
	for i, idx := range indices {
		flat += idx * strides[i]
	}
	return flat
}

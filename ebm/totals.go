package ebm

// TensorTotalsBuild transforms a cRealDimensions-D histogram in place into
// its multidimensional prefix sum: after the call, the bin
// at (i_0,...,i_{d-1}) holds the sum of every original bin (j_0,...,j_{d-1})
// with j_k <= i_k for every k. Applied dimension-by-dimension; within each
// dimension every 1-D stripe is replaced by its running sum, and dimension
// order is immaterial since each pass only reads/writes along one axis.
func TensorTotalsBuild(cBins []int, bins []MainBin) {
	strides := mixedRadixStrides(cBins)
	total := len(bins)

	for d, n := range cBins {
		stride := strides[d]
		// Iterate every 1-D stripe along dimension d: a stripe is the set
		// of flat indices that agree on every other dimension's index.
		for base := 0; base < total; base++ {
			// Only start a stripe walk from its first element (index 0
			// along dimension d) to avoid reprocessing the same stripe n
			// times.
			if (base/stride)%n != 0 {
				continue
			}
			for i := 1; i < n; i++ {
				cur := base + i*stride
				prev := base + (i-1)*stride
				bins[cur].Add(&bins[prev])
			}
		}
	}
}

// RectSum returns the sum of the axis-aligned hyperrectangle
// [lo_0,hi_0] x ... x [lo_{d-1},hi_{d-1}] (inclusive bounds, any lo may be
// -1 to mean "from the start") from a totals tensor built by
// TensorTotalsBuild, via inclusion-exclusion over the corners.
func RectSum(cBins []int, totals []MainBin, lo, hi []int, cScores int) MainBin {
	strides := mixedRadixStrides(cBins)
	d := len(cBins)

	result := MainBin{Gradients: make([]GradientPair, cScores)}
	// Inclusion-exclusion over the 2^d corners of the box, each corner
	// picking either lo_k-1 or hi_k per dimension with alternating sign.
	for mask := 0; mask < (1 << uint(d)); mask++ {
		sign := 1
		flat := 0
		skip := false
		for k := 0; k < d; k++ {
			var coord int
			if mask&(1<<uint(k)) != 0 {
				coord = lo[k] - 1
				sign = -sign
			} else {
				coord = hi[k]
			}
			if coord < 0 {
				skip = true
				break
			}
			flat += coord * strides[k]
		}
		if skip {
			continue
		}
		corner := totals[flat]
		if sign > 0 {
			result.Count += corner.Count
			result.WeightSum += corner.WeightSum
			for s := 0; s < cScores; s++ {
				result.Gradients[s] = result.Gradients[s].Add(corner.Gradients[s])
			}
		} else {
			result.Count -= corner.Count
			result.WeightSum -= corner.WeightSum
			for s := 0; s < cScores; s++ {
				result.Gradients[s] = result.Gradients[s].Sub(corner.Gradients[s])
			}
		}
	}
	return result
}

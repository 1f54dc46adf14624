package ebm

// axisSegment is one candidate segment along a single axis: [lo, hi) in
// bin-index space, or the whole axis when no cut is placed there.
type axisSegment struct{ lo, hi int }

type axisCandidate struct {
	cut      int // 0 means "no split"
	segments []axisSegment
}

// axisCandidates enumerates the segment sets a cut choice produces along
// one axis of cBins bins: "no split" (one segment spanning the whole
// axis) plus, for every cut in [1, cBins-1], the two-segment split at that
// cut. This lets the 2-D search consider degenerating to a 1-D split on
// only one axis (a real cut on one dimension, no cut on the other).
func axisCandidates(cBins int) []axisCandidate {
	out := []axisCandidate{{cut: 0, segments: []axisSegment{{0, cBins}}}}
	for cut := 1; cut < cBins; cut++ {
		out = append(out, axisCandidate{cut: cut, segments: []axisSegment{{0, cut}, {cut, cBins}}})
	}
	return out
}

// PartitionTwoDimensionalOptions bundles the inputs the joint 2-D
// partitioner needs.
type PartitionTwoDimensionalOptions struct {
	DimX, DimY      int
	CSamplesLeafMin int
	HessianMin      float64
	Flags           TermBoostFlags
}

// rectBounds builds full-rank lo/hi bound slices for RectSum: every
// dimension other than dimX/dimY is pinned to its only valid index, 0,
// since a term collapses to two real dimensions only when every other
// dimension has cBins == 1.
func rectBounds(cDimensions, dimX, dimY int, xs, ys axisSegment) ([]int, []int) {
	lo := make([]int, cDimensions)
	hi := make([]int, cDimensions)
	lo[dimX], hi[dimX] = xs.lo, xs.hi-1
	lo[dimY], hi[dimY] = ys.lo, ys.hi-1
	return lo, hi
}

// PartitionTwoDimensional searches over independent cut choices on each of
// two real dimensions (no split, or one cut) using the totals tensor for
// O(1) rectangle sums, retaining the combination maximizing total gain
// while respecting leaf-size/hessian minima on every resulting segment.
// cBinsFull and totals span every dimension of the term;
// every dimension other than DimX/DimY must have cBins == 1.
func PartitionTwoDimensional(cBinsFull []int, totals []MainBin, cScores int, opts PartitionTwoDimensionalOptions, out *UpdateTensor) (float64, error) {
	dimX, dimY := opts.DimX, opts.DimY
	if dimX >= dimY || dimX < 0 || dimY >= len(cBinsFull) {
		return 0, unexpectedInternal("PartitionTwoDimensional", "dimension indices must satisfy 0 <= DimX < DimY < cDimensions")
	}
	useWeight := opts.Flags.has(TermBoostFlagsDisableNewtonGain)
	cDimensions := len(cBinsFull)

	fullLo, fullHi := rectBounds(cDimensions, dimX, dimY,
		axisSegment{0, cBinsFull[dimX]}, axisSegment{0, cBinsFull[dimY]})
	full := RectSum(cBinsFull, totals, fullLo, fullHi, cScores)
	parentGain := nodeGain(full.Gradients, useWeight, full.WeightSum)

	xCandidates := axisCandidates(cBinsFull[dimX])
	yCandidates := axisCandidates(cBinsFull[dimY])

	var bestGain float64
	var bestCutX, bestCutY int
	var bestCells []MainBin
	haveBest := false

	for _, xc := range xCandidates {
		for _, yc := range yCandidates {
			if xc.cut == 0 && yc.cut == 0 {
				continue // trivial: identical to parent, never an improvement
			}

			cells := make([]MainBin, 0, len(xc.segments)*len(yc.segments))
			valid := true
			childGainSum := 0.0
			for _, xs := range xc.segments {
				for _, ys := range yc.segments {
					lo, hi := rectBounds(cDimensions, dimX, dimY, xs, ys)
					cell := RectSum(cBinsFull, totals, lo, hi, cScores)
					if cell.Count < opts.CSamplesLeafMin {
						valid = false
						break
					}
					if !useWeight {
						for _, g := range cell.Gradients {
							if g.Hess < opts.HessianMin {
								valid = false
								break
							}
						}
					}
					if !valid {
						break
					}
					childGainSum += nodeGain(cell.Gradients, useWeight, cell.WeightSum)
					cells = append(cells, cell)
				}
				if !valid {
					break
				}
			}
			if !valid {
				continue
			}

			gain := childGainSum - parentGain
			if !isFiniteGain(gain) || gain <= 0 {
				continue
			}
			if !haveBest || gain > bestGain {
				haveBest = true
				bestGain = gain
				bestCutX = xc.cut
				bestCutY = yc.cut
				bestCells = cells
			}
		}
	}

	if !haveBest {
		// No improving partition: behave like a zero-D boost over the
		// whole tensor.
		if err := out.SetCuts(dimX, nil); err != nil {
			return 0, err
		}
		if err := out.SetCuts(dimY, nil); err != nil {
			return 0, err
		}
		copy(out.Values(), leafValues(full.Gradients, full.WeightSum, opts.Flags))
		return 0, nil
	}

	var cutsX, cutsY []int
	if bestCutX != 0 {
		cutsX = []int{bestCutX}
	}
	if bestCutY != 0 {
		cutsY = []int{bestCutY}
	}
	if err := out.SetCuts(dimX, cutsX); err != nil {
		return 0, err
	}
	if err := out.SetCuts(dimY, cutsY); err != nil {
		return 0, err
	}

	values := out.Values()
	for i, cell := range bestCells {
		leafVals := leafValues(cell.Gradients, cell.WeightSum, opts.Flags)
		copy(values[i*cScores:(i+1)*cScores], leafVals)
	}

	return bestGain, nil
}

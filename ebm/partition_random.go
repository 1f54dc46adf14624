package ebm

// PartitionRandomOptions bundles the inputs the data-independent
// partitioner needs.
type PartitionRandomOptions struct {
	Flags TermBoostFlags
	RNG   *RNG
}

// PartitionRandom samples one cut position per real dimension from rng,
// independently of the data, then computes each resulting cell's leaf
// value and a diagnostic gain from the actual histogram. The gain is
// reported but never used to choose the cut, preserving differential
// privacy. Used for cRealDimensions > 2 or when TermBoostFlagsRandomSplits
// is set. No leaf-size or hessian minimum is enforced:
// doing so would leak information about the data through the split
// structure, defeating the point of a data-independent partition.
func PartitionRandom(cBins []int, bins []MainBin, cScores int, opts PartitionRandomOptions, out *UpdateTensor) (float64, error) {
	if opts.RNG == nil {
		return 0, unexpectedInternal("PartitionRandom", "RNG is required")
	}

	cuts := make([][]int, len(cBins))
	segCounts := make([]int, len(cBins))
	for d, n := range cBins {
		if n <= 1 {
			segCounts[d] = 1
			continue
		}
		cut := 1 + opts.RNG.IntN(n-1)
		cuts[d] = []int{cut}
		segCounts[d] = 2
	}

	for d, c := range cuts {
		if err := out.SetCuts(d, c); err != nil {
			return 0, err
		}
	}

	useWeight := opts.Flags.has(TermBoostFlagsDisableNewtonGain)
	full := aggregateAll(bins, cScores)
	parentGain := nodeGain(full.Gradients, useWeight, full.WeightSum)

	nCells := totalSegments(segCounts)
	cellSums := make([]MainBin, nCells)
	for i := range cellSums {
		cellSums[i] = MainBin{Gradients: make([]GradientPair, cScores)}
	}

	strides := mixedRadixStrides(cBins)
	cellStrides := mixedRadixStrides(segCounts)
	for flat, bin := range bins {
		binIdx := mixedRadixIndicesFromStrides(flat, cBins, strides)
		cellIdx := make([]int, len(cBins))
		for d, b := range binIdx {
			if len(cuts[d]) == 0 {
				cellIdx[d] = 0
			} else {
				cellIdx[d] = segmentIndexForBin(cuts[d], b)
			}
		}
		cellFlat := flattenIndex(cellIdx, cellStrides)
		cellSums[cellFlat].Add(&bin)
	}

	childGainSum := 0.0
	for _, cell := range cellSums {
		childGainSum += nodeGain(cell.Gradients, useWeight, cell.WeightSum)
	}
	gain := childGainSum - parentGain
	if gain < 0 || !isFiniteGain(gain) {
		gain = 0
	}

	values := out.Values()
	for i, cell := range cellSums {
		leafVals := leafValues(cell.Gradients, cell.WeightSum, opts.Flags)
		copy(values[i*cScores:(i+1)*cScores], leafVals)
	}

	return gain, nil
}

func aggregateAll(bins []MainBin, cScores int) MainBin {
	sum := MainBin{Gradients: make([]GradientPair, cScores)}
	for i := range bins {
		sum.Add(&bins[i])
	}
	return sum
}

// mixedRadixIndicesFromStrides decomposes a flat index using precomputed
// strides rather than recomputing them, for the hot per-bin loop.
func mixedRadixIndicesFromStrides(flat int, cBins, strides []int) []int {
	idx := make([]int, len(cBins))
	remaining := flat
	for d := 0; d < len(cBins); d++ {
		idx[d] = remaining / strides[d]
		remaining %= strides[d]
	}
	return idx
}

package ebm

// SubsetDescriptor is the external per-subset, per-inner-bag data the
// histogram builder scatters. Binning and layout of raw features into
// bins is done upstream of this package; SubsetDescriptor is the
// collaborator that hands the result in.
type SubsetDescriptor struct {
	// CountSamples is the subset's sample count.
	CountSamples int
	// GradientHessian is the subset's per-sample, per-score gradient/hessian
	// array from the objective, laid out sample-major:
	// GradientHessian[i*cScores+s].
	GradientHessian []GradientPair
	// TermIndices is the bit-packed per-sample tensor-bin index for the
	// term being boosted.
	TermIndices *PackedIndices
	// SIMDWidth is the number of independent bin-planes to scatter into
	// before reduction; 1 disables SIMD parallelism.
	SIMDWidth int
}

// HistogramBuilder scatters gradients (and hessians, when present) into
// fast bins for one subset.
type HistogramBuilder struct {
	CScores    int
	HasHessian bool
}

// ScatterFastBins allocates and fills SIMDWidth independent bin-planes for
// one subset, lane-striding samples across planes so the scatter can run
// data-parallel before ConvertAddBin reduces the planes back to one.
// Histogramming itself is infallible: the only failure mode is a failing
// make(). A panic raised there is recovered by GenerateTermUpdate's
// deferred pkg/errors.Recover and returned as an error whose CodeOf is
// UnexpectedInternal; it is not reported as OutOfMemory.
func (h *HistogramBuilder) ScatterFastBins(subset SubsetDescriptor, cTensorBins int) [][]FastBin {
	width := subset.SIMDWidth
	if width < 1 {
		width = 1
	}
	if cTensorBins <= 1 {
		width = 1
	}

	planes := make([][]FastBin, width)
	for p := range planes {
		planes[p] = NewFastBins(cTensorBins, h.CScores)
	}

	for i := 0; i < subset.CountSamples; i++ {
		lane := i % width
		binIdx := subset.TermIndices.At(i)
		plane := planes[lane]
		for s := 0; s < h.CScores; s++ {
			gh := subset.GradientHessian[i*h.CScores+s]
			if !h.HasHessian {
				gh.Hess = 0
			}
			plane[binIdx].Gradients[s].AddGradientPair(gh)
		}
	}
	return planes
}

// Snapshot deep-copies mainBins, capturing a copy of the histogram before
// TensorTotalsBuild mutates bins in place. Go has no debug-build variant of
// this, so Snapshot is an explicit opt-in helper tests call to compare a
// totals reconstruction against the pre-totals histogram, rather than an
// always-compiled-out production code path.
func Snapshot(mainBins []MainBin) []MainBin {
	out := make([]MainBin, len(mainBins))
	for i, b := range mainBins {
		out[i] = MainBin{Count: b.Count, WeightSum: b.WeightSum, Gradients: append([]GradientPair(nil), b.Gradients...)}
	}
	return out
}

// ConvertAddBin reduces the SIMD lane-planes down to wide precision and
// adds them into mainBins. When writeCountsWeights is true it also writes
// the precomputed counts/weights tensors into mainBins, so per-bag totals
// are added exactly once.
func ConvertAddBin(cScores int, planes [][]FastBin, mainBins []MainBin, counts []float64, weights []float64, writeCountsWeights bool) {
	for binIdx := range mainBins {
		for _, plane := range planes {
			fb := plane[binIdx]
			for s := 0; s < cScores; s++ {
				mainBins[binIdx].Gradients[s] = mainBins[binIdx].Gradients[s].Add(fb.Gradients[s].Widen())
			}
		}
		if writeCountsWeights {
			mainBins[binIdx].Count += int(counts[binIdx] + 0.5)
			mainBins[binIdx].WeightSum += weights[binIdx]
		}
	}
}

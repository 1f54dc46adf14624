package ebm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBins2D(cBins []int, cScores int, fill func(idx []int) MainBin) []MainBin {
	strides := mixedRadixStrides(cBins)
	n := totalSegments(cBins)
	bins := NewMainBins(n, cScores)
	for flat := 0; flat < n; flat++ {
		idx := mixedRadixIndicesFromStrides(flat, cBins, strides)
		b := fill(idx)
		bins[flat].Count = b.Count
		bins[flat].WeightSum = b.WeightSum
		copy(bins[flat].Gradients, b.Gradients)
	}
	return bins
}

func TestTensorTotalsBuildAndRectSumFullRange(t *testing.T) {
	cBins := []int{3, 4}
	cScores := 1

	original := makeBins2D(cBins, cScores, func(idx []int) MainBin {
		v := float64(idx[0]*10 + idx[1] + 1)
		return MainBin{Count: idx[0] + idx[1] + 1, WeightSum: v, Gradients: []GradientPair{{Grad: v, Hess: v}}}
	})
	snapshot := Snapshot(original)

	totals := Snapshot(original)
	TensorTotalsBuild(cBins, totals)

	// Full-range RectSum must equal the naive sum of every original bin
	// (testable property 2: totals identity).
	var wantCount int
	var wantWeight float64
	var wantGrad GradientPair
	for _, b := range snapshot {
		wantCount += b.Count
		wantWeight += b.WeightSum
		wantGrad = wantGrad.Add(b.Gradients[0])
	}

	full := RectSum(cBins, totals, []int{0, 0}, []int{cBins[0] - 1, cBins[1] - 1}, cScores)
	assert.Equal(t, wantCount, full.Count)
	assert.InDelta(t, wantWeight, full.WeightSum, 1e-9)
	assert.InDelta(t, wantGrad.Grad, full.Gradients[0].Grad, 1e-9)
}

func TestRectSumMatchesNaiveSubrectangle(t *testing.T) {
	cBins := []int{4, 5}
	cScores := 1
	strides := mixedRadixStrides(cBins)

	original := makeBins2D(cBins, cScores, func(idx []int) MainBin {
		v := float64(idx[0]*7 + idx[1]*3 + 1)
		return MainBin{Count: 1, WeightSum: v, Gradients: []GradientPair{{Grad: v, Hess: 1}}}
	})
	snapshot := Snapshot(original)

	totals := Snapshot(original)
	TensorTotalsBuild(cBins, totals)

	lo := []int{1, 2}
	hi := []int{2, 4}

	var wantCount int
	var wantWeight float64
	var wantGrad float64
	for i0 := lo[0]; i0 <= hi[0]; i0++ {
		for i1 := lo[1]; i1 <= hi[1]; i1++ {
			flat := i0*strides[0] + i1*strides[1]
			wantCount += snapshot[flat].Count
			wantWeight += snapshot[flat].WeightSum
			wantGrad += snapshot[flat].Gradients[0].Grad
		}
	}

	got := RectSum(cBins, totals, lo, hi, cScores)
	require.Equal(t, wantCount, got.Count)
	assert.InDelta(t, wantWeight, got.WeightSum, 1e-9)
	assert.InDelta(t, wantGrad, got.Gradients[0].Grad, 1e-9)
}

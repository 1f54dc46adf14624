package ebm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellSpec is one tensor bin's worth of samples: cCount samples, each
// contributing (gradPerSample, hessPerSample), landing in tensor bin
// binIdx. The bin's aggregated sums are gradPerSample*cCount and
// hessPerSample*cCount.
type cellSpec struct {
	binIdx         int
	cCount         int
	gradPerSample  float64
	hessPerSample  float64
}

func buildTrainingData(cTensorBins int, cells []cellSpec) *TrainingData {
	var idx []int
	var gh []GradientPair
	for _, c := range cells {
		for i := 0; i < c.cCount; i++ {
			idx = append(idx, c.binIdx)
			gh = append(gh, GradientPair{Grad: c.gradPerSample, Hess: c.hessPerSample})
		}
	}
	packed := NewPackedIndices(idx, cTensorBins)

	counts := make([]float64, cTensorBins)
	weights := make([]float64, cTensorBins)
	for _, c := range cells {
		counts[c.binIdx] += float64(c.cCount)
		weights[c.binIdx] += float64(c.cCount)
	}

	bag := InnerBag{
		Subsets: []SubsetDescriptor{{
			CountSamples:    len(idx),
			GradientHessian: gh,
			TermIndices:     packed,
			SIMDWidth:       4,
		}},
		Counts:      counts,
		Weights:     weights,
		WeightTotal: float64(len(idx)),
	}
	return &TrainingData{CountSamples: len(idx), InnerBags: []InnerBag{bag}}
}

// A term with every dimension's CBins == 1 collapses to a zero-D
// boost. gradient sum 4.0, hessian sum 8.0, learning_rate 1.0 (Newton)
// yields a single update value of -0.5 and gain 0.
func TestGenerateTermUpdateZeroDimensional(t *testing.T) {
	data := buildTrainingData(1, []cellSpec{{binIdx: 0, cCount: 10, gradPerSample: 0.4, hessPerSample: 0.8}})
	term := &Term{Dimensions: []Dimension{{CBins: 1}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	gain, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 1.0, 1, 1e-6, []int{1}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0.0, gain)
	require.Empty(t, shell.OuterUpdate.Cuts(0))
	assert.InDelta(t, -0.5, shell.OuterUpdate.Values()[0], 1e-9)
}

// One feature, two bins, perfect separation. Bin 0 aggregates to
// (g=+2, h=1), bin 1 to (g=-2, h=1); leaves_max=2, min_samples_leaf=1.
// Expects one cut at index 1, leaf values {-2, +2}. The 1-D partitioner's
// raw split gain is 8, but GenerateTermUpdate normalizes it by dividing
// by the bag's WeightTotal (10, one per sample) before returning, so the
// reported gain is 8/10 = 0.8.
func TestGenerateTermUpdateOneDimensionalSplit(t *testing.T) {
	data := buildTrainingData(2, []cellSpec{
		{binIdx: 0, cCount: 5, gradPerSample: 0.4, hessPerSample: 0.2},
		{binIdx: 1, cCount: 5, gradPerSample: -0.4, hessPerSample: 0.2},
	})
	term := &Term{Dimensions: []Dimension{{CBins: 2}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	gain, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 1.0, 1, 1e-6, []int{2}, nil)

	require.NoError(t, err)
	assert.InDelta(t, 0.8, gain, 1e-6)
	require.Equal(t, []int{1}, shell.OuterUpdate.Cuts(0))
	values := shell.OuterUpdate.Values()
	require.Len(t, values, 2)
	assert.InDelta(t, -2.0, values[0], 1e-6)
	assert.InDelta(t, 2.0, values[1], 1e-6)
}

// Same feature as the perfect-separation case above but min_samples_leaf
// raised above any bin's
// sample count, so no split is viable and the term falls back to a
// zero-D boost with gain 0.
func TestGenerateTermUpdateOneDimensionalNoViableSplit(t *testing.T) {
	data := buildTrainingData(2, []cellSpec{
		{binIdx: 0, cCount: 5, gradPerSample: 0.4, hessPerSample: 0.2},
		{binIdx: 1, cCount: 5, gradPerSample: -0.4, hessPerSample: 0.2},
	})
	term := &Term{Dimensions: []Dimension{{CBins: 2}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	gain, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 1.0, 6, 1e-6, []int{2}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0.0, gain)
	assert.Empty(t, shell.OuterUpdate.Cuts(0))
}

// Two 2-bin features whose joint histogram has a clean row-wise split:
// row 0 aggregates to (g=+1, h=1) in both columns, row 1 to (g=-1, h=1).
// Expects a cut on dimension 0 only, leaves +/-1.
func TestGenerateTermUpdateTwoDimensionalSplit(t *testing.T) {
	// Tensor bin flat index = row*2 + col (row-major, cBins=[2,2]).
	data := buildTrainingData(4, []cellSpec{
		{binIdx: 0, cCount: 2, gradPerSample: 0.5, hessPerSample: 0.5}, // row0,col0
		{binIdx: 1, cCount: 2, gradPerSample: 0.5, hessPerSample: 0.5}, // row0,col1
		{binIdx: 2, cCount: 2, gradPerSample: -0.5, hessPerSample: 0.5}, // row1,col0
		{binIdx: 3, cCount: 2, gradPerSample: -0.5, hessPerSample: 0.5}, // row1,col1
	})
	term := &Term{Dimensions: []Dimension{{CBins: 2}, {CBins: 2}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	gain, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 1.0, 1, 1e-6, []int{2, 2}, nil)

	require.NoError(t, err)
	assert.Greater(t, gain, 0.0)
	assert.Equal(t, []int{1}, shell.OuterUpdate.Cuts(0))
	assert.Empty(t, shell.OuterUpdate.Cuts(1))
}

// Gradients crafted so the leaf update overflows to a non-finite
// value; the outer update must reset to all zeros and the returned gain
// must be the ILLEGAL_GAIN sentinel, without a returned error.
func TestGenerateTermUpdateOverflowResetsUpdateToZero(t *testing.T) {
	data := buildTrainingData(1, []cellSpec{
		{binIdx: 0, cCount: 1, gradPerSample: math.MaxFloat64, hessPerSample: 1e-300},
	})
	term := &Term{Dimensions: []Dimension{{CBins: 1}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	gain, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 1.0, 1, 1e-6, []int{1}, nil)

	require.NoError(t, err)
	assert.Equal(t, IllegalGain, gain)
	for _, v := range shell.OuterUpdate.Values() {
		assert.Equal(t, 0.0, v)
	}
}

// Monotone violation: leafMean is -gradSum/count, so a gradient sum that
// increases left to right produces a leaf-mean sequence that decreases
// left to right, violating MonotoneIncreasing at every possible split
// point. The partitioner must reject all of them, falling back to a
// zero-D boost.
func TestGenerateTermUpdateMonotoneViolationFallsBackToZeroSplit(t *testing.T) {
	gradSums := []float64{-5, -4, -3, 3, 4, 5}
	cells := make([]cellSpec, 0, 6)
	for b, g := range gradSums {
		cells = append(cells, cellSpec{binIdx: b, cCount: 10, gradPerSample: g / 10, hessPerSample: 1})
	}
	data := buildTrainingData(6, cells)
	term := &Term{Dimensions: []Dimension{{CBins: 6, Direction: MonotoneIncreasing}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	gain, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 1.0, 1, 1e-6, []int{6}, []MonotoneDirection{MonotoneIncreasing})

	require.NoError(t, err)
	assert.Equal(t, 0.0, gain)
	assert.Empty(t, shell.OuterUpdate.Cuts(0))
}

// Determinism (testable property 8): identical inputs and identical RNG
// seeds produce byte-identical outputs across independent runs.
func TestGenerateTermUpdateDeterministicAcrossRuns(t *testing.T) {
	newRun := func() (float64, *UpdateTensor) {
		data := buildTrainingData(6, []cellSpec{
			{binIdx: 0, cCount: 8, gradPerSample: 1, hessPerSample: 1},
			{binIdx: 1, cCount: 8, gradPerSample: 1, hessPerSample: 1},
			{binIdx: 2, cCount: 8, gradPerSample: -1, hessPerSample: 1},
			{binIdx: 3, cCount: 8, gradPerSample: -1, hessPerSample: 1},
			{binIdx: 4, cCount: 8, gradPerSample: 2, hessPerSample: 1},
			{binIdx: 5, cCount: 8, gradPerSample: -2, hessPerSample: 1},
		})
		term := &Term{Dimensions: []Dimension{{CBins: 6}}}
		cfg := DefaultBoosterConfig(1, true)
		shell := NewShell(1)
		gain, err := GenerateTermUpdate(NewDeterministicRNG(99), shell, cfg, 0, term, data,
			TermBoostFlagsRandomSplits, 0.7, 1, 1e-6, []int{6}, nil)
		require.NoError(t, err)
		return gain, shell.OuterUpdate
	}

	gainA, outA := newRun()
	gainB, outB := newRun()

	assert.Equal(t, gainA, gainB)
	assert.True(t, outA.IsEqual(outB))
}

// Scaling (testable property 9 family): a zero learning rate must produce
// an all-zero update, since sanitizeLearningRate warns but never clamps
// zero to a default.
func TestGenerateTermUpdateZeroLearningRateProducesZeroUpdate(t *testing.T) {
	data := buildTrainingData(2, []cellSpec{
		{binIdx: 0, cCount: 5, gradPerSample: 0.4, hessPerSample: 0.2},
		{binIdx: 1, cCount: 5, gradPerSample: -0.4, hessPerSample: 0.2},
	})
	term := &Term{Dimensions: []Dimension{{CBins: 2}}}
	cfg := DefaultBoosterConfig(1, true)
	shell := NewShell(1)

	_, err := GenerateTermUpdate(NewDeterministicRNG(1), shell, cfg, 0, term, data,
		TermBoostFlagsDefault, 0, 1, 1e-6, []int{2}, nil)

	require.NoError(t, err)
	for _, v := range shell.OuterUpdate.Values() {
		assert.Equal(t, 0.0, v)
	}
}

func TestGenerateTermUpdateRejectsNilShell(t *testing.T) {
	term := &Term{Dimensions: []Dimension{{CBins: 1}}}
	cfg := DefaultBoosterConfig(1, true)
	data := buildTrainingData(1, []cellSpec{{binIdx: 0, cCount: 1, gradPerSample: 1, hessPerSample: 1}})

	_, err := GenerateTermUpdate(NewDeterministicRNG(1), nil, cfg, 0, term, data, TermBoostFlagsDefault, 1, 1, 1e-6, []int{1}, nil)
	assert.Error(t, err)
	assert.Equal(t, ErrorIllegalParamVal, CodeOf(err))
}

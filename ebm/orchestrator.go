package ebm

import (
	"math"

	scigoErrors "github.com/ezoic/ebmcore/pkg/errors"
	"github.com/ezoic/ebmcore/pkg/log"
)

var orchestratorLog = log.GetLoggerWithName("ebm.orchestrator")

// GenerateTermUpdate implements the term-update state machine: given a
// term's pre-binned training data across every inner bag, it produces a
// tensor-shaped score update in shell.OuterUpdate and returns an aggregate
// gain. It is the single entry point this package exposes for boosting one
// term.
func GenerateTermUpdate(
	rng *RNG,
	shell *Shell,
	cfg BoosterConfig,
	termIndex int,
	term *Term,
	data *TrainingData,
	flags TermBoostFlags,
	learningRate float64,
	minSamplesLeaf int,
	minHessian float64,
	leavesMax []int,
	direction []MonotoneDirection,
) (gain float64, err error) {
	defer scigoErrors.Recover(&err, "ebm.GenerateTermUpdate")

	if shell == nil {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "shell must not be nil")
	}
	// Step 1: term_index = ILLEGAL, gain = ILLEGAL_GAIN until a
	// successful return proves otherwise.
	shell.TermIndex = IllegalTermIndex
	gain = IllegalGain

	if termIndex < 0 {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "termIndex must be >= 0")
	}
	if term == nil {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "term must not be nil")
	}
	if data == nil {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "data must not be nil")
	}
	if len(leavesMax) != term.CountDimensions() {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "leavesMax length must match term dimension count")
	}
	if direction != nil && len(direction) != term.CountDimensions() {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "direction length must match term dimension count")
	}

	flags, stripped := flags.sanitize()
	if stripped {
		orchestratorLog.Warn("unrecognized TermBoostFlags bits ignored", log.TermIndexKey, termIndex)
	}

	learningRate = sanitizeLearningRate(learningRate, termIndex)
	minSamplesLeaf = sanitizeMinSamplesLeaf(minSamplesLeaf, termIndex)
	minHessian = sanitizeMinHessian(minHessian, termIndex)

	cScores := cfg.CScores
	cTensorBins := term.CountTensorBins()

	// Step 3: degenerate early-success paths.
	if cScores == 0 || cTensorBins == 0 || data.CountSamples == 0 {
		shell.TermIndex = termIndex
		orchestratorLog.Debug("degenerate term update, no boosting performed",
			log.TermIndexKey, termIndex, log.SamplesKey, data.CountSamples)
		return 0, nil
	}

	cDimensions := term.CountDimensions()
	significant := term.SignificantDimensions()

	// Step 4: collapse to zero-D when there are no significant
	// dimensions, or more than one significant dimension carries a
	// monotone constraint.
	monotoneCount := 0
	for _, d := range significant {
		if direction != nil && direction[d] != MonotoneNone {
			monotoneCount++
		}
	}
	for _, lm := range leavesMax {
		if lm < 0 {
			return IllegalGain, illegalParamVal("GenerateTermUpdate", "leavesMax entries must be >= 0")
		}
	}
	collapsedZeroD := len(significant) == 0 || monotoneCount > 1

	// Step 5: reset both outer and inner update tensors to cDimensions.
	shell.OuterUpdate.Reset(cDimensions)
	shell.InnerUpdate.Reset(cDimensions)

	shell.resetMainBins(cTensorBins)
	builder := &HistogramBuilder{CScores: cScores, HasHessian: cfg.HasHessian}

	cInnerBags := len(data.InnerBags)
	if cInnerBags == 0 {
		return IllegalGain, illegalParamVal("GenerateTermUpdate", "data must contain at least one inner bag")
	}

	multiple, gainMultiple := computeScalingFactors(cfg, flags, cInnerBags, learningRate)

	// No caller-supplied RNG: seed one from the OS entropy source.
	if rng == nil {
		seeded, seedErr := NewNondeterministicRNG()
		if seedErr != nil {
			return IllegalGain, seedErr
		}
		rng = seeded
	}

	var gainAvg float64
	cBinsFull := make([]int, cDimensions)
	for i, d := range term.Dimensions {
		cBinsFull[i] = d.CBins
	}

	// Step 6: per-inner-bag loop.
	for bagIdx, bag := range data.InnerBags {
		ResetMainBins(shell.MainBins)

		for subsetIdx, subset := range bag.Subsets {
			planes := builder.ScatterFastBins(subset, cTensorBins)
			isLast := subsetIdx == len(bag.Subsets)-1
			ConvertAddBin(cScores, planes, shell.MainBins, bag.Counts, bag.Weights, isLast)
		}

		LogHistogramSummary(termIndex, shell.MainBins)
		shell.InnerUpdate.Reset(cDimensions)

		var bagGain float64
		var innerErr error
		switch {
		case collapsedZeroD:
			bagGain, innerErr = boostZeroDimensional(shell.MainBins, cScores, flags, shell.InnerUpdate)
		case flags.has(TermBoostFlagsRandomSplits) || len(significant) > 2:
			bagGain, innerErr = PartitionRandom(cBinsFull, shell.MainBins, cScores,
				PartitionRandomOptions{Flags: flags, RNG: rng}, shell.InnerUpdate)
		case len(significant) == 1:
			bagGain, innerErr = PartitionOneDimensional(shell.MainBins, cScores, PartitionOneDimensionalOptions{
				DimIndex:        significant[0],
				CSplitsMax:      leavesMax[significant[0]] - 1,
				CSamplesLeafMin: minSamplesLeaf,
				HessianMin:      minHessian,
				Direction:       directionAt(direction, significant[0]),
				Flags:           flags,
				RNG:             rng,
			}, shell.InnerUpdate)
		case len(significant) == 2:
			totals := Snapshot(shell.MainBins)
			TensorTotalsBuild(cBinsFull, totals)
			bagGain, innerErr = PartitionTwoDimensional(cBinsFull, totals, cScores, PartitionTwoDimensionalOptions{
				DimX:            significant[0],
				DimY:            significant[1],
				CSamplesLeafMin: minSamplesLeaf,
				HessianMin:      minHessian,
				Flags:           flags,
			}, shell.InnerUpdate)
		default:
			return IllegalGain, unexpectedInternal("GenerateTermUpdate", "cRealDimensions > 2 requires RandomSplits")
		}
		if innerErr != nil {
			return IllegalGain, innerErr
		}

		weightTotal := bag.WeightTotal
		if weightTotal <= 0 {
			weightTotal = 1
		}
		bagGain = bagGain / weightTotal * gainMultiple
		gainAvg += bagGain

		if err := shell.OuterUpdate.Add(shell.InnerUpdate); err != nil {
			return IllegalGain, err
		}

		orchestratorLog.Debug("inner bag boosted",
			log.TermIndexKey, termIndex, log.InnerBagKey, bagIdx, "gain", bagGain)
	}

	// Step 7: scale outer update by multiple (x0.5 for binary classification).
	applyMultiple := multiple
	if cScores == 2 {
		applyMultiple *= 0.5
	}
	overflow := shell.OuterUpdate.MultiplyAndCheck(applyMultiple)
	if overflow {
		shell.OuterUpdate.Reset(cDimensions)
		shell.TermIndex = termIndex
		return IllegalGain, nil
	}
	if !isFiniteGain(gainAvg) {
		// Gain overflowed but the update itself is finite: keep the
		// update (the caller may still stop further boosting on this
		// term) and only flag the sentinel gain.
		shell.TermIndex = termIndex
		return IllegalGain, nil
	}
	if gainAvg < 0 {
		gainAvg = 0
	}

	shell.TermIndex = termIndex
	return gainAvg, nil
}

func directionAt(direction []MonotoneDirection, dim int) MonotoneDirection {
	if direction == nil {
		return MonotoneNone
	}
	return direction[dim]
}

// boostZeroDimensional writes one update value per score from the
// aggregate sum of every bin. Gain is always 0.
func boostZeroDimensional(bins []MainBin, cScores int, flags TermBoostFlags, out *UpdateTensor) (float64, error) {
	// out was just Reset(cDimensions): every dimension's cut list is
	// already empty, so the value array is a single all-zero segment of
	// length cScores and needs no SetCuts call before being written.
	sum := aggregateAll(bins, cScores)
	copy(out.Values(), leafValues(sum.Gradients, sum.WeightSum, flags))
	return 0, nil
}

// computeScalingFactors derives the value-scaling multiple and the
// gain-scaling multiple from the booster config, boost flags, inner-bag
// count, and learning rate, picking the DP/gradient-boosting/Newton
// adjustment constants the active flags select.
func computeScalingFactors(cfg BoosterConfig, flags TermBoostFlags, cInnerBags int, learningRate float64) (multiple, gainMultiple float64) {
	b := cInnerBags
	if b < 1 {
		b = 1
	}
	c := cfg.GradientConstant / float64(b)

	switch {
	case flags.has(TermBoostFlagsGradientSums):
		multiple = c * cfg.DPLearningRateAdj * learningRate
	case flags.has(TermBoostFlagsDisableNewtonUpdate):
		multiple = c * cfg.GBLearningRateAdj * learningRate
	default:
		multiple = c / cfg.HessianConstant * cfg.HBLearningRateAdj * learningRate
	}

	if flags.has(TermBoostFlagsDisableNewtonGain) {
		gainMultiple = c * cfg.GradientConstant * cfg.GBGainAdj
	} else {
		gainMultiple = c / cfg.HessianConstant * cfg.GradientConstant * cfg.HBGainAdj
	}
	return multiple, gainMultiple
}

// sanitizeLearningRate only warns on a NaN/inf/zero/negative learning
// rate; unlike minSamplesLeaf/minHessian it is not clamped, since a zero
// learning rate is a legitimate (if useless) caller choice that must flow
// through to an all-zero update (testable property 9), and a NaN/inf rate
// is caught downstream by the update tensor's overflow check instead.
func sanitizeLearningRate(lr float64, termIndex int) float64 {
	if math.IsNaN(lr) || math.IsInf(lr, 0) || lr <= 0 {
		orchestratorLog.Warn("non-positive or non-finite learning rate",
			log.TermIndexKey, termIndex, "learning_rate", lr)
	}
	return lr
}

func sanitizeMinSamplesLeaf(v, termIndex int) int {
	if v < 0 {
		orchestratorLog.Warn("negative minSamplesLeaf clamped to 0", log.TermIndexKey, termIndex)
		return 0
	}
	return v
}

func sanitizeMinHessian(v float64, termIndex int) float64 {
	if v <= 0 {
		orchestratorLog.Warn("non-positive minHessian clamped to minimum positive value", log.TermIndexKey, termIndex)
		return math.SmallestNonzeroFloat64
	}
	return v
}

package ebm

import "math"

// gainEpsilon is the ε in node_gain = Σ_s g_s²/(h_s + ε), preventing
// division by a near-zero hessian or weight sum.
const gainEpsilon = 1e-10

// nodeGain computes Σ_s g_s²/(denom_s + ε) for one node's per-score
// gradient sums, where denom is either the per-score hessian sum (Newton
// gain) or the node's scalar weight sum broadcast across scores
// (DisableNewtonGain).
func nodeGain(grads []GradientPair, useWeight bool, weightSum float64) float64 {
	gain := 0.0
	for _, g := range grads {
		denom := g.Hess
		if useWeight {
			denom = weightSum
		}
		gain += (g.Grad * g.Grad) / (denom + gainEpsilon)
	}
	return gain
}

// ComputeSinglePartitionUpdate returns the Newton (denom = hessian sum) or
// gradient-step (denom = weight sum) leaf value: -(Σg)/(Σdenom + ε).
func ComputeSinglePartitionUpdate(gradSum, denom float64) float64 {
	return -gradSum / (denom + gainEpsilon)
}

// ComputeSinglePartitionUpdateGradientSum returns the raw gradient sum
// unnormalized, used when TermBoostFlagsGradientSums is set so downstream
// differentially-private noise addition sees the pre-normalization signal.
func ComputeSinglePartitionUpdateGradientSum(gradSum float64) float64 {
	return gradSum
}

// leafValues computes one update value per score for a node, dispatching
// on the GradientSums and DisableNewtonUpdate flags.
func leafValues(grads []GradientPair, weightSum float64, flags TermBoostFlags) []float64 {
	values := make([]float64, len(grads))
	for s, g := range grads {
		switch {
		case flags.has(TermBoostFlagsGradientSums):
			values[s] = ComputeSinglePartitionUpdateGradientSum(g.Grad)
		case flags.has(TermBoostFlagsDisableNewtonUpdate):
			values[s] = ComputeSinglePartitionUpdate(g.Grad, weightSum)
		default:
			values[s] = ComputeSinglePartitionUpdate(g.Grad, g.Hess)
		}
	}
	return values
}

// leafMean approximates a leaf's predicted value for monotonicity checks:
// -(Σg)/(count) when hessian/weight information would be noisy on tiny
// leaves, matching the original's use of the leaf's raw gradient direction
// rather than its fully denominated update for the monotonicity test.
func leafMean(sum GradientPair, count int) float64 {
	if count == 0 {
		return 0
	}
	return -sum.Grad / float64(count)
}

// respectsDirection reports whether leftMean/rightMean respect the
// requested monotone direction.
func respectsDirection(dir MonotoneDirection, leftMean, rightMean float64) bool {
	switch dir {
	case MonotoneIncreasing:
		return rightMean >= leftMean
	case MonotoneDecreasing:
		return rightMean <= leftMean
	default:
		return true
	}
}

func isFiniteGain(g float64) bool {
	return !math.IsNaN(g) && !math.IsInf(g, 0)
}

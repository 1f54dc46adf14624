package ebm

import (
	"container/heap"
	"math"
)

// PartitionOneDimensionalOptions bundles the inputs the greedy
// one-dimensional partitioner needs.
type PartitionOneDimensionalOptions struct {
	DimIndex        int
	CSplitsMax      int
	CSamplesLeafMin int
	HessianMin      float64
	Direction       MonotoneDirection
	Flags           TermBoostFlags
	RNG             *RNG
}

// leafCandidate is one leaf's best-known split, ordered by the heap on
// Gain (a max-heap).
type leafCandidate struct {
	lo, hi   int // bin range [lo, hi)
	splitAt  int // best split bin, lo < splitAt < hi
	gain     float64
	hasSplit bool
}

type candidateHeap []*leafCandidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].gain > h[j].gain }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(*leafCandidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// prefixSums precomputes, for a 1-D histogram of n bins, a running total
// so any [lo,hi) range sum is available in O(1).
type prefixSums struct {
	count   []int     // len n+1
	weight  []float64 // len n+1
	grads   [][]GradientPair
	cScores int
}

func buildPrefixSums(bins []MainBin, cScores int) *prefixSums {
	n := len(bins)
	ps := &prefixSums{
		count:   make([]int, n+1),
		weight:  make([]float64, n+1),
		grads:   make([][]GradientPair, n+1),
		cScores: cScores,
	}
	ps.grads[0] = make([]GradientPair, cScores)
	for i := 0; i < n; i++ {
		ps.count[i+1] = ps.count[i] + bins[i].Count
		ps.weight[i+1] = ps.weight[i] + bins[i].WeightSum
		row := make([]GradientPair, cScores)
		for s := 0; s < cScores; s++ {
			row[s] = ps.grads[i][s].Add(bins[i].Gradients[s])
		}
		ps.grads[i+1] = row
	}
	return ps
}

func (ps *prefixSums) rangeCount(lo, hi int) int          { return ps.count[hi] - ps.count[lo] }
func (ps *prefixSums) rangeWeight(lo, hi int) float64     { return ps.weight[hi] - ps.weight[lo] }
func (ps *prefixSums) rangeGrads(lo, hi int) []GradientPair {
	out := make([]GradientPair, ps.cScores)
	for s := 0; s < ps.cScores; s++ {
		out[s] = ps.grads[hi][s].Sub(ps.grads[lo][s])
	}
	return out
}

// bestSplitInRange searches every adjacent split position in (lo, hi) for
// the candidate maximizing childL_gain + childR_gain, subject to the leaf
// size and hessian minima and any monotonicity constraint. Ties are broken
// by rng. Returns hasSplit=false if no candidate is valid.
func bestSplitInRange(ps *prefixSums, lo, hi int, opts PartitionOneDimensionalOptions, useWeight bool) *leafCandidate {
	best := &leafCandidate{lo: lo, hi: hi}
	var tied []int
	bestGain := math.Inf(-1)

	for split := lo + 1; split < hi; split++ {
		leftCount := ps.rangeCount(lo, split)
		rightCount := ps.rangeCount(split, hi)
		if leftCount < opts.CSamplesLeafMin || rightCount < opts.CSamplesLeafMin {
			continue
		}
		leftW := ps.rangeWeight(lo, split)
		rightW := ps.rangeWeight(split, hi)
		leftGrads := ps.rangeGrads(lo, split)
		rightGrads := ps.rangeGrads(split, hi)

		if !useWeight {
			minHess := math.Inf(1)
			for _, g := range leftGrads {
				if g.Hess < minHess {
					minHess = g.Hess
				}
			}
			leftMinHess := minHess
			minHess = math.Inf(1)
			for _, g := range rightGrads {
				if g.Hess < minHess {
					minHess = g.Hess
				}
			}
			rightMinHess := minHess
			if leftMinHess < opts.HessianMin || rightMinHess < opts.HessianMin {
				continue
			}
		}

		if opts.Direction != MonotoneNone {
			lm := leafMean(sumGradientPairs(leftGrads), leftCount)
			rm := leafMean(sumGradientPairs(rightGrads), rightCount)
			if !respectsDirection(opts.Direction, lm, rm) {
				continue
			}
		}

		childGain := nodeGain(leftGrads, useWeight, leftW) + nodeGain(rightGrads, useWeight, rightW)
		switch {
		case childGain > bestGain:
			bestGain = childGain
			tied = []int{split}
		case childGain == bestGain:
			tied = append(tied, split)
		}
	}

	if len(tied) == 0 {
		return best
	}
	chosen := tied[0]
	if len(tied) > 1 && opts.RNG != nil {
		chosen = tied[opts.RNG.IntN(len(tied))]
	}

	parentGrads := ps.rangeGrads(lo, hi)
	parentW := ps.rangeWeight(lo, hi)
	parentGain := nodeGain(parentGrads, useWeight, parentW)

	best.splitAt = chosen
	best.gain = bestGain - parentGain
	best.hasSplit = true
	return best
}

// PartitionOneDimensional runs the greedy best-first split search over a
// single significant dimension's histogram, and writes the
// committed cuts and per-leaf values into out. Returns the total gain.
func PartitionOneDimensional(bins []MainBin, cScores int, opts PartitionOneDimensionalOptions, out *UpdateTensor) (float64, error) {
	n := len(bins)
	useWeight := opts.Flags.has(TermBoostFlagsDisableNewtonGain)
	ps := buildPrefixSums(bins, cScores)

	root := bestSplitInRange(ps, 0, n, opts, useWeight)
	pq := &candidateHeap{}
	heap.Init(pq)
	if root.hasSplit {
		heap.Push(pq, root)
	}

	leaves := []leafRange{{0, n}}
	cuts := []int{}
	totalGain := 0.0

	for len(cuts) < opts.CSplitsMax && pq.Len() > 0 {
		best := heap.Pop(pq).(*leafCandidate)
		if !best.hasSplit || !isFiniteGain(best.gain) || best.gain <= 0 {
			continue
		}

		// Replace the split leaf with its two children.
		for i, l := range leaves {
			if l.lo == best.lo && l.hi == best.hi {
				leaves = append(leaves[:i], append([]leafRange{{best.lo, best.splitAt}, {best.splitAt, best.hi}}, leaves[i+1:]...)...)
				break
			}
		}
		cuts = append(cuts, best.splitAt)
		totalGain += best.gain

		leftCand := bestSplitInRange(ps, best.lo, best.splitAt, opts, useWeight)
		rightCand := bestSplitInRange(ps, best.splitAt, best.hi, opts, useWeight)
		if leftCand.hasSplit {
			heap.Push(pq, leftCand)
		}
		if rightCand.hasSplit {
			heap.Push(pq, rightCand)
		}
	}

	sortInts(cuts)
	if err := out.SetCuts(opts.DimIndex, cuts); err != nil {
		return 0, err
	}

	values := out.Values()
	for i, l := range sortedLeaves(leaves) {
		grads := ps.rangeGrads(l.lo, l.hi)
		w := ps.rangeWeight(l.lo, l.hi)
		leafVals := leafValues(grads, w, opts.Flags)
		copy(values[i*cScores:(i+1)*cScores], leafVals)
	}

	return totalGain, nil
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// leafRange is a committed leaf's bin range [lo, hi) along one dimension.
type leafRange struct{ lo, hi int }

func sortedLeaves(leaves []leafRange) []leafRange {
	out := append([]leafRange(nil), leaves...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].lo > out[j].lo; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

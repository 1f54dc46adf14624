package ebm

// MainBin is the wide-precision, canonical bin form partitioners read:
// {sample_count, weight_sum, gradient_pairs} for one tensor bin. It carries one
// GradientPair per score dimension (cScores == 1 for regression/binary,
// K for multiclass).
type MainBin struct {
	Count      int
	WeightSum  float64
	Gradients  []GradientPair
}

// NewMainBins allocates n zeroed bins, each with cScores gradient slots.
func NewMainBins(n, cScores int) []MainBin {
	bins := make([]MainBin, n)
	flat := make([]GradientPair, n*cScores)
	for i := range bins {
		bins[i].Gradients = flat[i*cScores : (i+1)*cScores : (i+1)*cScores]
	}
	return bins
}

// Reset zeroes b in place, keeping its Gradients backing slice.
func (b *MainBin) Reset() {
	b.Count = 0
	b.WeightSum = 0
	for i := range b.Gradients {
		b.Gradients[i] = GradientPair{}
	}
}

// ResetMainBins zeroes every bin in bins without reallocating.
func ResetMainBins(bins []MainBin) {
	for i := range bins {
		bins[i].Reset()
	}
}

// Add accumulates o into b elementwise across count, weight, and every
// score's gradient pair.
func (b *MainBin) Add(o *MainBin) {
	b.Count += o.Count
	b.WeightSum += o.WeightSum
	for i := range b.Gradients {
		b.Gradients[i] = b.Gradients[i].Add(o.Gradients[i])
	}
}

// FastBin is the narrow-precision scatter target used during histogram build:
// no count, no weight, just per-score gradient pairs at reduced precision.
type FastBin struct {
	Gradients []FastGradientPair
}

// NewFastBins allocates n zeroed fast bins with cScores slots each.
func NewFastBins(n, cScores int) []FastBin {
	bins := make([]FastBin, n)
	flat := make([]FastGradientPair, n*cScores)
	for i := range bins {
		bins[i].Gradients = flat[i*cScores : (i+1)*cScores : (i+1)*cScores]
	}
	return bins
}

// ResetFastBins zeroes every bin in bins without reallocating.
func ResetFastBins(bins []FastBin) {
	for i := range bins {
		for j := range bins[i].Gradients {
			bins[i].Gradients[j] = FastGradientPair{}
		}
	}
}

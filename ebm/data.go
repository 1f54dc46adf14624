package ebm

// InnerBag is one bootstrap resampling mask's contribution to a term
// update, per GLOSSARY: "a bootstrap resampling mask; the orchestrator
// averages updates across bags." Counts and Weights are precomputed
// per-tensor-bin totals for this bag ("supplied externally via
// a precomputed per-term-inner-bag counts and weights tensor").
type InnerBag struct {
	Subsets     []SubsetDescriptor
	Counts      []float64 // len cTensorBins, stored as float64 for interface uniformity but represents integer counts
	Weights     []float64 // len cTensorBins
	WeightTotal float64
}

// TrainingData is the external, pre-binned view of one term's training
// data across every inner bag, the "training data pre-discretized into
// feature bins" that upstream binning hands to the core.
type TrainingData struct {
	CountSamples int
	InnerBags    []InnerBag
}

// BoosterConfig carries the booster-wide constants the scaling formulas
// depend on. The zero value is not valid; use DefaultBoosterConfig.
type BoosterConfig struct {
	CScores          int
	HasHessian       bool
	GradientConstant float64
	HessianConstant  float64

	DPLearningRateAdj float64
	GBLearningRateAdj float64
	HBLearningRateAdj float64
	GBGainAdj         float64
	HBGainAdj         float64
}

// DefaultBoosterConfig returns a BoosterConfig with every adjustment knob
// at its neutral value of 1.0, the configuration a plain (non-DP,
// non-custom-scaled) booster uses.
func DefaultBoosterConfig(cScores int, hasHessian bool) BoosterConfig {
	return BoosterConfig{
		CScores:           cScores,
		HasHessian:        hasHessian,
		GradientConstant:  1,
		HessianConstant:   1,
		DPLearningRateAdj: 1,
		GBLearningRateAdj: 1,
		HBLearningRateAdj: 1,
		GBGainAdj:         1,
		HBGainAdj:         1,
	}
}

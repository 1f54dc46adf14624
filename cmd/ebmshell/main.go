// Command ebmshell drives one GenerateTermUpdate call against a synthetic
// two-feature dataset and reports the resulting gain and update shape,
// exercising the booster shell end to end the way cmd/debug_main exercises
// a trained model end to end.
package main

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/ebmcore/ebm"
	"github.com/ezoic/ebmcore/pkg/log"
)

const (
	cBinsX  = 6
	cBinsY  = 4
	cScores = 1
	cSamples = 5000
)

func main() {
	logger := log.GetLoggerWithName("cmd.ebmshell")
	rng := ebm.NewDeterministicRNG(7)

	// Synthetic pre-binned feature matrix: column 0 is the term's X bin
	// index, column 1 is its Y bin index.
	features := mat.NewDense(cSamples, 2, nil)
	idxX := make([]int, cSamples)
	idxY := make([]int, cSamples)
	grads := make([]ebm.GradientPair, cSamples)

	for i := 0; i < cSamples; i++ {
		x := rng.IntN(cBinsX)
		y := rng.IntN(cBinsY)
		idxX[i], idxY[i] = x, y
		features.Set(i, 0, float64(x))
		features.Set(i, 1, float64(y))

		target := float64(x)*0.4 - float64(y)*0.7
		grads[i] = ebm.GradientPair{Grad: -target, Hess: 1.0}
	}

	cTensorBins := cBinsX * cBinsY
	flat := make([]int, cSamples)
	for i := range flat {
		flat[i] = idxX[i]*cBinsY + idxY[i]
	}
	packed := ebm.NewPackedIndices(flat, cTensorBins)

	counts := make([]float64, cTensorBins)
	weights := make([]float64, cTensorBins)
	for i := 0; i < cSamples; i++ {
		b := packed.At(i)
		counts[b]++
		weights[b]++
	}

	bag := ebm.InnerBag{
		Subsets: []ebm.SubsetDescriptor{{
			CountSamples:    cSamples,
			GradientHessian: grads,
			TermIndices:     packed,
			SIMDWidth:       4,
		}},
		Counts:      counts,
		Weights:     weights,
		WeightTotal: float64(cSamples),
	}
	data := &ebm.TrainingData{CountSamples: cSamples, InnerBags: []ebm.InnerBag{bag}}

	term := &ebm.Term{Dimensions: []ebm.Dimension{{CBins: cBinsX}, {CBins: cBinsY}}}
	cfg := ebm.DefaultBoosterConfig(cScores, true)
	shell := ebm.NewShell(cScores)

	gain, err := ebm.GenerateTermUpdate(
		rng, shell, cfg, 0, term, data,
		ebm.TermBoostFlagsDefault, 0.3, 10, 1e-3,
		[]int{3, 3}, nil,
	)
	if err != nil {
		logger.Error("GenerateTermUpdate failed", "error", err)
		os.Exit(1)
	}

	logger.Info("term update generated",
		log.TermIndexKey, shell.TermIndex,
		"gain", gain,
		"cuts_x", shell.OuterUpdate.Cuts(0),
		"cuts_y", shell.OuterUpdate.Cuts(1),
	)
	fmt.Printf("gain=%.6f cuts_x=%v cuts_y=%v values=%v\n",
		gain, shell.OuterUpdate.Cuts(0), shell.OuterUpdate.Cuts(1), shell.OuterUpdate.Values())
}

package ebm

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/ebmcore/pkg/log"
)

var diagnosticsLog = log.GetLoggerWithName("ebm.diagnostics")

// LogHistogramSummary computes mean/variance of the per-bin weight sums in
// bins and logs them at Debug level, giving an operator a cheap signal for
// how lopsided a term's bin occupancy is without dumping the whole
// histogram. It does not participate in testable property 1 (histogram
// completeness), which tests verify directly against sample sums.
func LogHistogramSummary(termIndex int, bins []MainBin) {
	if len(bins) == 0 {
		return
	}
	weights := make([]float64, len(bins))
	for i, b := range bins {
		weights[i] = b.WeightSum
	}
	mean := stat.Mean(weights, nil)
	variance := stat.Variance(weights, nil)
	diagnosticsLog.Debug("histogram bin-weight summary",
		log.TermIndexKey, termIndex, "bin_weight_mean", mean, "bin_weight_variance", variance)
}

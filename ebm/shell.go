package ebm

import "math"

// IllegalTermIndex marks a shell's TermIndex as not currently holding a
// valid update, matching the convention that a shell not yet bound to a term
// carries an illegal term index.
const IllegalTermIndex = -1

// IllegalGain is the sentinel gain returned when a term update or its gain
// overflows to a non-finite value, signaling numeric failure without a
// structured error. It is also the gain returned alongside every error.
// Degenerate inputs (no scores, no tensor bins, no samples) return gain 0.
var IllegalGain = math.Inf(-1)

// Shell is the booster-shell-owned set of reusable buffers a term update
// is built from: the main-bin tensor and the inner/outer update tensors.
// Its lifetime spans multiple GenerateTermUpdate calls; a
// single Shell is not safe for concurrent use, though distinct Shells may
// be driven from different goroutines.
type Shell struct {
	CScores int

	OuterUpdate *UpdateTensor
	InnerUpdate *UpdateTensor

	MainBins []MainBin

	TermIndex int
}

// NewShell allocates a Shell for a booster with cScores score dimensions.
func NewShell(cScores int) *Shell {
	return &Shell{
		CScores:     cScores,
		OuterUpdate: NewUpdateTensor(cScores),
		InnerUpdate: NewUpdateTensor(cScores),
		TermIndex:   IllegalTermIndex,
	}
}

// resetMainBins ensures s.MainBins has n bins with s.CScores gradient
// slots each, reusing the backing array when it's already big enough
// rather than reallocating on every call.
func (s *Shell) resetMainBins(n int) {
	if cap(s.MainBins) >= n {
		s.MainBins = s.MainBins[:n]
		ResetMainBins(s.MainBins)
		for i := range s.MainBins {
			if len(s.MainBins[i].Gradients) != s.CScores {
				s.MainBins[i].Gradients = make([]GradientPair, s.CScores)
			}
		}
		return
	}
	s.MainBins = NewMainBins(n, s.CScores)
}

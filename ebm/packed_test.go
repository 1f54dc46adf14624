package ebm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackedIndicesRoundTrip(t *testing.T) {
	cases := []int{2, 3, 5, 16, 17, 255, 1000}
	for _, cTensorBins := range cases {
		indices := make([]int, 200)
		for i := range indices {
			indices[i] = (i * 7) % cTensorBins
		}
		p := NewPackedIndices(indices, cTensorBins)
		assert.Equal(t, len(indices), p.Len())
		for i, want := range indices {
			assert.Equal(t, want, p.At(i), "cTensorBins=%d index=%d", cTensorBins, i)
		}
	}
}

func TestPackedIndicesUnpackedFallback(t *testing.T) {
	p := NewPackedIndices([]int{0, 0, 0}, 1)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, p.At(i))
	}
}

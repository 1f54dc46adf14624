package ebm

import "math/bits"

// PackedIndices stores one tensor-bin index per sample, bit-packed into
// uint64 words the way the original bit-packs per-sample term indices to
// keep the training-data columnar plane small. bitsRequired is
// ceil(log2(cTensorBins)); when cTensorBins == 1 the whole structure
// degenerates to the Unpacked fallback (k_cItemsPerBitPackUndefined in the
// original), since every sample trivially addresses tensor bin 0.
type PackedIndices struct {
	words        []uint64
	bitsPerItem  int
	itemsPerWord int
	mask         uint64
	n            int
	unpacked     bool
}

// NewPackedIndices packs indices (each in [0, cTensorBins)) into a
// PackedIndices. cTensorBins must be >= 1.
func NewPackedIndices(indices []int, cTensorBins int) *PackedIndices {
	p := &PackedIndices{n: len(indices)}
	if cTensorBins <= 1 {
		p.unpacked = true
		return p
	}

	p.bitsPerItem = bitsRequired(cTensorBins - 1)
	p.itemsPerWord = 64 / p.bitsPerItem
	p.mask = (uint64(1) << uint(p.bitsPerItem)) - 1

	nWords := (len(indices) + p.itemsPerWord - 1) / p.itemsPerWord
	if nWords == 0 {
		nWords = 1
	}
	p.words = make([]uint64, nWords)

	for i, idx := range indices {
		word := i / p.itemsPerWord
		slot := i % p.itemsPerWord
		p.words[word] |= (uint64(idx) & p.mask) << uint(slot*p.bitsPerItem)
	}
	return p
}

// At decodes the tensor-bin index of sample i.
func (p *PackedIndices) At(i int) int {
	if p.unpacked {
		return 0
	}
	word := i / p.itemsPerWord
	slot := i % p.itemsPerWord
	return int((p.words[word] >> uint(slot*p.bitsPerItem)) & p.mask)
}

// Len returns the number of packed samples.
func (p *PackedIndices) Len() int { return p.n }

// bitsRequired returns ceil(log2(v+1)) for v >= 0, i.e. the number of bits
// needed to represent every value in [0, v].
func bitsRequired(v int) int {
	if v <= 0 {
		return 1
	}
	return bits.Len(uint(v))
}

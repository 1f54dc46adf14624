package ebm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradientPairArithmetic(t *testing.T) {
	a := GradientPair{Grad: 1, Hess: 2}
	b := GradientPair{Grad: 3, Hess: 4}

	assert.Equal(t, GradientPair{Grad: 4, Hess: 6}, a.Add(b))
	assert.Equal(t, GradientPair{Grad: -2, Hess: -2}, a.Sub(b))
	assert.Equal(t, GradientPair{Grad: 2, Hess: 4}, a.Scale(2))
}

func TestFastGradientPairWiden(t *testing.T) {
	var f FastGradientPair
	f.AddGradientPair(GradientPair{Grad: 1.5, Hess: 2.5})
	f.AddGradientPair(GradientPair{Grad: 1.5, Hess: 2.5})

	widened := f.Widen()
	assert.InDelta(t, 3.0, widened.Grad, 1e-6)
	assert.InDelta(t, 5.0, widened.Hess, 1e-6)
}

func TestSumGradientPairs(t *testing.T) {
	sum := sumGradientPairs([]GradientPair{
		{Grad: 1, Hess: 1},
		{Grad: 2, Hess: 3},
		{Grad: -1, Hess: 2},
	})
	assert.Equal(t, GradientPair{Grad: 2, Hess: 6}, sum)
}

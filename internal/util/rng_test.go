package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsSeeded(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	assert.Equal(t, New(0).Float64(), New(1).Float64())
}

func TestUniformAndIndex(t *testing.T) {
	f := &Fixed{Values: []float64{0, 0.5, 0.999999}}
	assert.Equal(t, 0.8, Uniform(f, 0.8, 1.2))
	assert.InDelta(t, 1.0, Uniform(f, 0.8, 1.2), 1e-9)
	assert.Equal(t, 9, Index(f, 10))
	// cycles back to the first value
	assert.Equal(t, 0, Index(f, 10))
	assert.Equal(t, 2, Index(&Fixed{Values: []float64{1}}, 3))
}

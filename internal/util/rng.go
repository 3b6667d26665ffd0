package util

import "math/rand"

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Float64er is the subset of *rand.Rand the battle code draws from.
type Float64er interface {
	Float64() float64
}

// Uniform returns a value in [lo, hi).
func Uniform(r Float64er, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Index returns an index in [0, n). n must be positive.
func Index(r Float64er, n int) int {
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Fixed replays a fixed sequence of draws, cycling when exhausted.
type Fixed struct {
	Values []float64
	next   int
}

func (f *Fixed) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

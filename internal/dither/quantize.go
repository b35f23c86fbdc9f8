package dither

import (
	"fmt"
	"math"
	"sort"
)

// MaxDepth is the widest supported bit depth (one byte per sample).
const MaxDepth = 8

// QuantizeFunc maps a continuous sample value to an output level.
type QuantizeFunc func(float64) float64

// Quantizer snaps sample values to the 2^depth levels representable at a
// given bit depth.
//
// The level set is
//
//	{ round(i * 255 / (2^depth - 1)) : i = 0 .. 2^depth-1 }
//
// so depth 1 yields {0, 255}, depth 2 yields {0, 85, 170, 255} and depth 8 is
// the identity on integers. A Quantizer is immutable and safe for concurrent
// use.
type Quantizer struct {
	depth  int
	levels []float64
}

// NewQuantizer builds the quantizer for depth bits per sample.
//
// Returns ErrInvalidDepth if depth is 0 or wider than MaxDepth.
func NewQuantizer(depth int) (*Quantizer, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidDepth, depth, MaxDepth)
	}

	n := 1 << depth
	step := 255.0 / float64(n-1)
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = math.Round(float64(i) * step)
	}

	return &Quantizer{depth: depth, levels: levels}, nil
}

// Depth returns the bit depth the quantizer was built for.
func (q *Quantizer) Depth() int {
	return q.depth
}

// Levels returns a copy of the ascending output levels.
func (q *Quantizer) Levels() []float64 {
	out := make([]float64, len(q.levels))
	copy(out, q.levels)
	return out
}

// Quantize returns the level closest to v. Ties go to the lower level.
// Values below 0 or above 255 snap to the first or last level.
func (q *Quantizer) Quantize(v float64) float64 {
	i := sort.SearchFloat64s(q.levels, v)
	switch {
	case i == 0:
		return q.levels[0]
	case i == len(q.levels):
		return q.levels[len(q.levels)-1]
	}

	lo, hi := q.levels[i-1], q.levels[i]
	if v-lo <= hi-v {
		return lo
	}
	return hi
}

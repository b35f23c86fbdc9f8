package dither

import (
	"fmt"
	"math"
)

// Buffer is a row-major grid of pixels, each made of Channels() samples.
type Buffer[T any] struct {
	samples  []T
	width    int
	height   int
	channels int
}

// NewBuffer wraps samples as a grid width pixels wide. The height is derived
// from the sample count. The slice is not copied; the buffer takes ownership.
//
// Returns ErrInvalidBufferDimensions if width or channels is not positive and
// ErrDimensionMismatch if len(samples) is not a whole number of rows.
func NewBuffer[T any](samples []T, width, channels int) (*Buffer[T], error) {
	if width <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: width=%d channels=%d", ErrInvalidBufferDimensions, width, channels)
	}
	row := width * channels
	if len(samples)%row != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a multiple of %d (width %d x %d channels)",
			ErrDimensionMismatch, len(samples), row, width, channels)
	}
	return &Buffer[T]{
		samples:  samples,
		width:    width,
		height:   len(samples) / row,
		channels: channels,
	}, nil
}

// Width returns the number of pixels per row.
func (b *Buffer[T]) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer[T]) Height() int { return b.height }

// Channels returns the number of samples per pixel.
func (b *Buffer[T]) Channels() int { return b.channels }

// Samples returns the underlying flat sample slice, row-major and
// channel-interleaved.
func (b *Buffer[T]) Samples() []T { return b.samples }

// At returns channel c of the pixel at column x, row y.
func (b *Buffer[T]) At(x, y, c int) T {
	return b.samples[(y*b.width+x)*b.channels+c]
}

// Clone returns a deep copy of the buffer.
func (b *Buffer[T]) Clone() *Buffer[T] {
	samples := make([]T, len(b.samples))
	copy(samples, b.samples)
	return &Buffer[T]{samples: samples, width: b.width, height: b.height, channels: b.channels}
}

// Convert maps every sample of b through fn into a new buffer of the same
// shape.
func Convert[T, U any](b *Buffer[T], fn func(T) U) *Buffer[U] {
	out := make([]U, len(b.samples))
	for i, s := range b.samples {
		out[i] = fn(s)
	}
	return &Buffer[U]{samples: out, width: b.width, height: b.height, channels: b.channels}
}

// ToFloat64 stages a byte sample for dithering.
func ToFloat64(v uint8) float64 {
	return float64(v)
}

// ClampToUint8 materializes a working sample, saturating to [0, 255].
func ClampToUint8(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

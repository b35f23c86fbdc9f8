package dither

import "errors"

var (
	// ErrInvalidDepth is returned when a bit depth is outside [1, 8].
	ErrInvalidDepth = errors.New("invalid depth")

	// ErrInvalidBufferDimensions is returned for a zero width, height or
	// channel count.
	ErrInvalidBufferDimensions = errors.New("invalid buffer dimensions")

	// ErrDimensionMismatch is returned when a flat sample slice does not
	// divide evenly into rows of the requested width.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidKernel is returned for kernels that would diffuse error into
	// pixels that were already visited, or that have a non-positive divisor.
	ErrInvalidKernel = errors.New("invalid kernel")

	// ErrUnknownAlgorithm is returned when an algorithm name or value is not
	// one of the supported diffusion algorithms.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Package dither implements error-diffusion dithering over floating point
// sample buffers.
//
// The package is split into three small pieces that are combined by callers:
//
//   - Quantizer: maps a continuous sample to the nearest of 2^depth evenly
//     spaced levels in [0, 255].
//   - Kernel: the (dy, dx, weight) taps and divisor of a named diffusion
//     algorithm (Floyd-Steinberg, Atkinson, Stucki, Burkes, Jarvis, Sierra).
//   - Dither: walks a Buffer in row-major order, quantizes every sample and
//     spreads the residual to unvisited neighbors according to the kernel.
//
// # Buffers
//
// A Buffer is a row-major grid of width × height pixels where each pixel holds
// Channels() consecutive samples. Grayscale uses one channel, RGB three.
// Channels are dithered independently with the same kernel and scan order.
//
// # Numeric Semantics
//
// All diffusion arithmetic is done in float64 without intermediate clamping,
// so a residual may be negative or larger than one quantization step. Values
// are only clamped when a buffer is materialized back to bytes with
// ClampToUint8.
//
// # Edges
//
// Taps that land outside the buffer are dropped. The lost error is not
// redistributed, which slightly under-diffuses the last rows and columns.
//
// # Thread Safety
//
// Quantizer and Kernel values are immutable and may be shared. Dither mutates
// the buffer it is given; callers must not use a buffer concurrently.
package dither

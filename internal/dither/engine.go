package dither

import "fmt"

// Dither quantizes buf in place with error diffusion and returns it.
//
// Pixels are visited top to bottom, left to right. For each sample the
// current (error-adjusted) value is replaced by quantize(value) and the
// residual value - quantize(value) is spread over the kernel taps, each target
// receiving residual * weight / divisor on the same channel. Taps outside the
// buffer are dropped. Channels never exchange error.
//
// Because every tap points forward in scan order, the output of a pixel can
// overwrite its working value without affecting pixels still to be read.
//
// Errors:
//   - ErrInvalidBufferDimensions if buf is nil or has zero width or height
//   - ErrInvalidDepth if quantize is nil (no valid quantizer was built)
//   - ErrInvalidKernel if k fails Validate
func Dither(buf *Buffer[float64], quantize QuantizeFunc, k Kernel) (*Buffer[float64], error) {
	if buf == nil || buf.width == 0 || buf.height == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidBufferDimensions)
	}
	if quantize == nil {
		return nil, fmt.Errorf("%w: no quantizer", ErrInvalidDepth)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}

	w, h, ch := buf.width, buf.height, buf.channels
	s := buf.samples
	div := float64(k.Divisor)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * ch
			for c := 0; c < ch; c++ {
				old := s[base+c]
				out := quantize(old)
				s[base+c] = out

				residual := old - out
				if residual == 0 {
					continue
				}
				for _, t := range k.Taps {
					ty, tx := y+t.DY, x+t.DX
					if ty >= h || tx < 0 || tx >= w {
						continue
					}
					s[(ty*w+tx)*ch+c] += residual * float64(t.Weight) / div
				}
			}
		}
	}

	return buf, nil
}

// DitherWith is a convenience wrapper that builds the quantizer for depth and
// the kernel for a, then calls Dither.
func DitherWith(buf *Buffer[float64], a Algorithm, depth int) (*Buffer[float64], error) {
	q, err := NewQuantizer(depth)
	if err != nil {
		return nil, err
	}
	k, err := KernelFor(a)
	if err != nil {
		return nil, err
	}
	return Dither(buf, q.Quantize, k)
}

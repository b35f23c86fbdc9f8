package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/eink-utils/internal/dither"
)

// Format is the pixel layout of a Raster.
type Format int

const (
	// FormatRGB stores three interleaved 8-bit samples (R, G, B) per pixel.
	FormatRGB Format = iota
	// FormatGray stores one 8-bit luma sample per pixel.
	FormatGray
)

// Channels returns the number of samples per pixel, or 0 for unknown formats.
func (f Format) Channels() int {
	switch f {
	case FormatRGB:
		return 3
	case FormatGray:
		return 1
	}
	return 0
}

// String returns "rgb", "gray" or Format(n).
func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatGray:
		return "gray"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Raster is an 8-bit image in row-major order with no row padding.
//
// For FormatRGB, Pix holds R, G, B for each pixel; for FormatGray, one luma
// byte per pixel. len(Pix) must equal Width * Height * Format.Channels().
type Raster struct {
	Pix    []byte
	Width  int
	Height int
	Format Format
}

// Validate checks the format and that Pix matches the declared dimensions.
func (r Raster) Validate() error {
	ch := r.Format.Channels()
	if ch == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.Format)
	}
	if r.Width < 0 || r.Height < 0 || len(r.Pix) != r.Width*r.Height*ch {
		return fmt.Errorf("%w: %d bytes for %dx%d %s", ErrBufferSizeMismatch, len(r.Pix), r.Width, r.Height, r.Format)
	}
	return nil
}

// luma computes 8-bit luminance with Rec. 709 weights in integer arithmetic.
func luma(r, g, b uint8) uint8 {
	return uint8((2126*uint32(r) + 7152*uint32(g) + 722*uint32(b)) / 10000)
}

// Convert returns the raster in format f. Gray is replicated into all three
// channels; RGB is reduced to luma. Converting to the current format returns
// a copy.
func (r Raster) Convert(f Format) (Raster, error) {
	if err := r.Validate(); err != nil {
		return Raster{}, err
	}
	if f.Channels() == 0 {
		return Raster{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	n := r.Width * r.Height
	out := Raster{Width: r.Width, Height: r.Height, Format: f, Pix: make([]byte, n*f.Channels())}

	switch {
	case r.Format == f:
		copy(out.Pix, r.Pix)
	case r.Format == FormatRGB && f == FormatGray:
		for i := 0; i < n; i++ {
			out.Pix[i] = luma(r.Pix[3*i], r.Pix[3*i+1], r.Pix[3*i+2])
		}
	case r.Format == FormatGray && f == FormatRGB:
		for i, v := range r.Pix {
			out.Pix[3*i], out.Pix[3*i+1], out.Pix[3*i+2] = v, v, v
		}
	}
	return out, nil
}

// RasterFromImage coerces any decoded image to an 8-bit raster in format f.
// Alpha is dropped without premultiplying.
func RasterFromImage(img image.Image, f Format) (Raster, error) {
	if f.Channels() == 0 {
		return Raster{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if img == nil {
		return Raster{}, fmt.Errorf("%w: nil image", ErrUnsupportedFormat)
	}

	var rgb Raster
	switch src := img.(type) {
	case *image.Gray:
		gray := Raster{Width: src.Rect.Dx(), Height: src.Rect.Dy(), Format: FormatGray}
		gray.Pix = make([]byte, 0, gray.Width*gray.Height)
		for y := 0; y < gray.Height; y++ {
			off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
			gray.Pix = append(gray.Pix, src.Pix[off:off+gray.Width]...)
		}
		return gray.Convert(f)
	default:
		nrgba := imaging.Clone(img)
		rgb = Raster{Width: nrgba.Rect.Dx(), Height: nrgba.Rect.Dy(), Format: FormatRGB}
		rgb.Pix = make([]byte, 0, rgb.Width*rgb.Height*3)
		for i := 0; i < len(nrgba.Pix); i += 4 {
			rgb.Pix = append(rgb.Pix, nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
		}
	}

	if f == FormatRGB {
		return rgb, nil
	}
	return rgb.Convert(f)
}

// Image materializes the raster as *image.Gray or an opaque *image.NRGBA for
// the encoders and resamplers.
func (r Raster) Image() (image.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, r.Width, r.Height)

	if r.Format == FormatGray {
		g := image.NewGray(rect)
		copy(g.Pix, r.Pix)
		return g, nil
	}

	dst := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+4 {
		dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = r.Pix[i], r.Pix[i+1], r.Pix[i+2], 0xff
	}
	return dst, nil
}

// ToWorkingBuffer stages a raster as a float64 buffer for the dither engine.
func ToWorkingBuffer(r Raster) (*dither.Buffer[float64], error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Width == 0 || r.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", dither.ErrInvalidBufferDimensions, r.Width, r.Height)
	}

	pix, err := dither.NewBuffer(r.Pix, r.Width, r.Format.Channels())
	if err != nil {
		return nil, err
	}
	return dither.Convert(pix, dither.ToFloat64), nil
}

// FromWorkingBuffer clamps a dithered buffer back to bytes. The buffer must
// have the declared dimensions and the channel count of f.
func FromWorkingBuffer(buf *dither.Buffer[float64], f Format, width, height int) (Raster, error) {
	if f.Channels() == 0 {
		return Raster{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if buf == nil {
		return Raster{}, fmt.Errorf("%w: nil buffer", ErrBufferSizeMismatch)
	}
	if buf.Width() != width || buf.Height() != height || buf.Channels() != f.Channels() {
		return Raster{}, fmt.Errorf("%w: buffer is %dx%dx%d, want %dx%dx%d",
			ErrBufferSizeMismatch, buf.Width(), buf.Height(), buf.Channels(), width, height, f.Channels())
	}

	out := dither.Convert(buf, dither.ClampToUint8)
	r := Raster{Pix: out.Samples(), Width: width, Height: height, Format: f}
	if err := r.Validate(); err != nil {
		return Raster{}, fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	return r, nil
}

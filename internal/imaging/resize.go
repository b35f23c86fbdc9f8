package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/eink-utils/internal/dither"
	"github.com/ironsheep/eink-utils/internal/logging"
)

// Resize scales the image to exactly width × height in place.
//
// The image is scaled to cover the target area while keeping its aspect
// ratio, then center-cropped (fill, not letterbox), using the triangle
// (linear) filter. The pixel format is preserved.
//
// Returns dither.ErrInvalidBufferDimensions if either target dimension is not
// positive and ErrLockFailure on a poisoned handle.
func (h *Handle) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: resize target %dx%d", dither.ErrInvalidBufferDimensions, width, height)
	}

	return h.withLock("resize", func() error {
		src, err := h.raster.Image()
		if err != nil {
			return err
		}
		if h.raster.Width == 0 || h.raster.Height == 0 {
			return fmt.Errorf("%w: cannot resize empty image", dither.ErrInvalidBufferDimensions)
		}

		filled := imaging.Fill(src, width, height, imaging.Center, imaging.Linear)

		out, err := RasterFromImage(filled, h.raster.Format)
		if err != nil {
			return err
		}
		if out.Width != width || out.Height != height {
			return fmt.Errorf("%w: resampler produced %dx%d, want %dx%d", ErrUnknown, out.Width, out.Height, width, height)
		}

		logging.For(logging.ComponentImaging).Debug("resized",
			"from_width", h.raster.Width, "from_height", h.raster.Height,
			"width", width, "height", height)
		h.raster = out
		return nil
	})
}

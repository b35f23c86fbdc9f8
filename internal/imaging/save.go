package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/eink-utils/internal/logging"
)

// DefaultJPEGQuality is used by Save for .jpg and .jpeg outputs.
const DefaultJPEGQuality = 95

// SaveOptions tunes the encoders used by SaveWithOptions.
type SaveOptions struct {
	// JPEGQuality is 1-100. Zero means DefaultJPEGQuality.
	JPEGQuality int
}

// Save encodes the current image to path. The format is chosen from the file
// extension: .png, .jpg/.jpeg, .bmp, .gif or .tif/.tiff.
func (h *Handle) Save(path string) error {
	return h.SaveWithOptions(path, SaveOptions{})
}

// SaveWithOptions is Save with explicit encoder settings.
//
// Returns ErrUnsupportedFormat for unknown extensions, ErrEncodeFailed when
// writing fails and ErrLockFailure on a poisoned handle.
func (h *Handle) SaveWithOptions(path string, opts SaveOptions) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}

	return h.withLock("save", func() error {
		img, err := h.raster.Image()
		if err != nil {
			return err
		}
		if err := encode(path, img, format, opts); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrEncodeFailed, path, err)
		}
		logging.For(logging.ComponentImaging).Debug("saved image", "path", path, "format", format.String())
		return nil
	})
}

func encode(path string, img image.Image, format imaging.Format, opts SaveOptions) error {
	switch format {
	case imaging.PNG:
		return imgio.Save(path, img, imgio.PNGEncoder())
	case imaging.JPEG:
		q := opts.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		return imgio.Save(path, img, imgio.JPEGEncoder(q))
	case imaging.BMP:
		return imgio.Save(path, img, imgio.BMPEncoder())
	default:
		// GIF and TIFF are only available from the imaging encoders.
		return imaging.Save(img, path)
	}
}

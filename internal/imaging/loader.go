package imaging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/eink-utils/internal/logging"
)

// Load decodes the image at path and returns a new handle holding it as RGB8.
//
// Supported inputs are whatever the registered decoders understand: PNG,
// JPEG, GIF (first frame), BMP, TIFF and WebP.
//
// # Errors
//
//   - ErrFileNotFound if path does not exist
//   - ErrIO if the file exists but cannot be opened or read
//   - ErrDecodeFailed if the contents are not a supported image
func Load(path string) (*Handle, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %v", ErrIO, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("%w: failed to read image: %v", ErrIO, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}

	r, err := RasterFromImage(img, FormatRGB)
	if err != nil {
		return nil, err
	}

	logging.For(logging.ComponentImaging).Debug("loaded image", "path", path, "width", r.Width, "height", r.Height)
	return &Handle{raster: r, source: path}, nil
}

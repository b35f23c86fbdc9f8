// Package imaging prepares images for low bit depth e-paper panels.
//
// It bridges decoded images and the dither engine: images are loaded into a
// Handle as 8-bit RGB, optionally resized, dithered in grayscale or color,
// then saved to a file or exported as raw bytes.
//
// # Pixel Formats
//
// A Handle always holds one of two layouts (see Raster):
//   - FormatRGB: 3 bytes per pixel, R G B interleaved
//   - FormatGray: 1 luma byte per pixel
//
// Load produces FormatRGB. DitherGrayscale leaves the handle in FormatGray
// and DitherColor in FormatRGB. Luma uses Rec. 709 integer weights:
//
//	Y = (2126*R + 7152*G + 722*B) / 10000
//
// Bytes exports the samples of whichever format is current, row-major,
// without a header.
//
// # Thread Safety
//
// Handle methods serialize on a per-handle mutex, so a handle may be shared
// between goroutines. A panic inside a handle operation poisons the handle;
// later calls return ErrLockFailure. Registry is safe for concurrent use.
//
// # Error Handling
//
// Failures are returned as errors wrapping one of the package sentinels
// (ErrFileNotFound, ErrIO, ErrDecodeFailed, ErrEncodeFailed,
// ErrUnsupportedFormat, ErrBufferSizeMismatch, ErrLockFailure, ErrUnknown) or
// a dither sentinel (ErrInvalidDepth, ErrInvalidBufferDimensions). Kind maps
// any of them to a stable snake case name. A failed operation leaves the
// handle as it was.
package imaging

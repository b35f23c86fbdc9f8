package imaging

import (
	"errors"

	"github.com/ironsheep/eink-utils/internal/dither"
)

var (
	// ErrFileNotFound is returned by Load when the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrIO is returned when a file exists but cannot be read.
	ErrIO = errors.New("io error")

	// ErrDecodeFailed is returned when file contents are not a decodable image.
	ErrDecodeFailed = errors.New("image decode failed")

	// ErrEncodeFailed is returned when an image cannot be written to a path.
	ErrEncodeFailed = errors.New("image encode failed")

	// ErrUnsupportedFormat is returned for pixel formats other than RGB8 and
	// Luma8, and for output file extensions with no encoder.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrBufferSizeMismatch is returned when a sample buffer does not match
	// the declared width × height × channels.
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")

	// ErrLockFailure is returned by every operation on a handle that was
	// poisoned by a panic in an earlier operation.
	ErrLockFailure = errors.New("lock failure")

	// ErrUnknown wraps unexpected internal failures.
	ErrUnknown = errors.New("unknown error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrFileNotFound, "file_not_found"},
	{ErrIO, "io_error"},
	{ErrDecodeFailed, "image_decode_failed"},
	{ErrEncodeFailed, "image_encode_failed"},
	{ErrUnsupportedFormat, "unsupported_format"},
	{ErrBufferSizeMismatch, "buffer_size_mismatch"},
	{ErrLockFailure, "lock_failure"},
	{dither.ErrInvalidDepth, "invalid_depth"},
	{dither.ErrInvalidBufferDimensions, "invalid_buffer_dimensions"},
	{dither.ErrDimensionMismatch, "dimension_mismatch"},
	{dither.ErrInvalidKernel, "invalid_kernel"},
	{dither.ErrUnknownAlgorithm, "bad_argument"},
	{ErrUnknownHandle, "bad_argument"},
}

// Kind returns the taxonomy name of err, such as "file_not_found" or
// "invalid_depth". Errors outside the taxonomy report "unknown"; a nil error
// reports "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}

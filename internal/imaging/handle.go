package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/eink-utils/internal/dither"
	"github.com/ironsheep/eink-utils/internal/logging"
)

// Handle is a mutable, shareable reference to a working image.
//
// Every method holds the handle's mutex for its whole duration, so concurrent
// calls on the same handle run one after another rather than racing. Methods
// either fully apply or leave the image untouched.
//
// If an operation panics while holding the lock, the panic is recovered and
// returned as an ErrUnknown error, and the handle is marked poisoned. Every
// later call then fails with ErrLockFailure instead of working on state that
// may be half-written.
type Handle struct {
	mu       sync.Mutex
	raster   Raster
	source   string
	poisoned bool
}

// NewHandle wraps an in-memory raster. The raster is validated and copied.
func NewHandle(r Raster) (*Handle, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	r.Pix = pix
	return &Handle{raster: r}, nil
}

// NewHandleFromImage coerces a decoded image to RGB8 and wraps it.
func NewHandleFromImage(img image.Image) (*Handle, error) {
	r, err := RasterFromImage(img, FormatRGB)
	if err != nil {
		return nil, err
	}
	return &Handle{raster: r}, nil
}

// withLock runs fn while holding the handle lock.
func (h *Handle) withLock(op string, fn func() error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.poisoned {
		return fmt.Errorf("%w: %s on poisoned handle", ErrLockFailure, op)
	}

	defer func() {
		if r := recover(); r != nil {
			h.poisoned = true
			logging.For(logging.ComponentImaging).Error("operation panicked", "op", op, "source", h.source, "panic", r)
			err = fmt.Errorf("%w: %s panicked: %v", ErrUnknown, op, r)
		}
	}()

	return fn()
}

// Info describes the current state of a handle.
type Info struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Channels int    `json:"channels"`
	Source   string `json:"source,omitempty"`
}

// Info returns the current dimensions and pixel format.
func (h *Handle) Info() (Info, error) {
	var info Info
	err := h.withLock("info", func() error {
		info = Info{
			Width:    h.raster.Width,
			Height:   h.raster.Height,
			Format:   h.raster.Format.String(),
			Channels: h.raster.Format.Channels(),
			Source:   h.source,
		}
		return nil
	})
	return info, err
}

// Bytes returns a copy of the raw samples in the current format, row-major,
// with no header.
func (h *Handle) Bytes() ([]byte, error) {
	var out []byte
	err := h.withLock("export", func() error {
		out = make([]byte, len(h.raster.Pix))
		copy(out, h.raster.Pix)
		return nil
	})
	return out, err
}

// Raster returns a copy of the current raster.
func (h *Handle) Raster() (Raster, error) {
	var out Raster
	err := h.withLock("raster", func() error {
		out = h.raster
		out.Pix = make([]byte, len(h.raster.Pix))
		copy(out.Pix, h.raster.Pix)
		return nil
	})
	return out, err
}

// Clone returns an independent handle with a copy of the current image.
func (h *Handle) Clone() (*Handle, error) {
	r, err := h.Raster()
	if err != nil {
		return nil, err
	}
	return &Handle{raster: r, source: h.source}, nil
}

// DitherGrayscale converts the image to luma and dithers it to depth bits
// with algorithm a. The depth is checked before the lock is taken, so an
// invalid depth never touches the image.
func (h *Handle) DitherGrayscale(a dither.Algorithm, depth int) error {
	return h.ditherAs(FormatGray, a, depth)
}

// DitherColor dithers each RGB channel independently to depth bits with
// algorithm a. Outer surfaces default depth to 1.
func (h *Handle) DitherColor(a dither.Algorithm, depth int) error {
	return h.ditherAs(FormatRGB, a, depth)
}

func (h *Handle) ditherAs(f Format, a dither.Algorithm, depth int) error {
	q, err := dither.NewQuantizer(depth)
	if err != nil {
		return err
	}
	k, err := dither.KernelFor(a)
	if err != nil {
		return err
	}

	op := "dither_" + f.String()
	return h.withLock(op, func() error {
		src, err := h.raster.Convert(f)
		if err != nil {
			return err
		}
		buf, err := ToWorkingBuffer(src)
		if err != nil {
			return err
		}
		buf, err = dither.Dither(buf, q.Quantize, k)
		if err != nil {
			return err
		}
		out, err := FromWorkingBuffer(buf, f, src.Width, src.Height)
		if err != nil {
			return err
		}

		h.raster = out
		logging.For(logging.ComponentImaging).Debug("dithered",
			"algorithm", a.String(), "depth", depth, "format", f.String(),
			"width", out.Width, "height", out.Height)
		return nil
	})
}

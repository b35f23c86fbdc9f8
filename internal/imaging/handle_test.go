package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"sync"
	"testing"

	"github.com/ironsheep/eink-utils/internal/dither"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createGradientImage creates a horizontal gray gradient from black to white
func createGradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / max(width-1, 1))
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func mustHandle(t *testing.T, r Raster) *Handle {
	t.Helper()
	h, err := NewHandle(r)
	if err != nil {
		t.Fatalf("NewHandle failed: %v", err)
	}
	return h
}

func scenarioRaster() Raster {
	return Raster{
		Width: 2, Height: 2, Format: FormatRGB,
		Pix: []byte{
			10, 10, 10, 250, 250, 250,
			10, 10, 10, 250, 250, 250,
		},
	}
}

func TestHandle_DitherGrayscale_Scenario(t *testing.T) {
	h := mustHandle(t, scenarioRaster())

	if err := h.DitherGrayscale(dither.FloydSteinberg, 1); err != nil {
		t.Fatalf("DitherGrayscale failed: %v", err)
	}

	got, err := h.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	want := []byte{0, 255, 0, 255}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	info, _ := h.Info()
	if info.Format != "gray" || info.Width != 2 || info.Height != 2 {
		t.Errorf("info: got %+v", info)
	}
}

func TestHandle_DitherGrayscale_FromFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{10, 10, 10, 255})
	img.Set(1, 0, color.RGBA{250, 250, 250, 255})
	img.Set(0, 1, color.RGBA{10, 10, 10, 255})
	img.Set(1, 1, color.RGBA{250, 250, 250, 255})
	path := writePNG(t, img)
	defer os.Remove(path)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := h.DitherGrayscale(dither.FloydSteinberg, 1); err != nil {
		t.Fatalf("DitherGrayscale failed: %v", err)
	}
	got, _ := h.Bytes()
	if !bytes.Equal(got, []byte{0, 255, 0, 255}) {
		t.Errorf("got %v, want [0 255 0 255]", got)
	}
}

func TestHandle_DitherColor(t *testing.T) {
	h := mustHandle(t, Raster{
		Width: 2, Height: 1, Format: FormatRGB,
		Pix: []byte{100, 0, 255, 100, 0, 255},
	})

	if err := h.DitherColor(dither.FloydSteinberg, 1); err != nil {
		t.Fatalf("DitherColor failed: %v", err)
	}
	got, _ := h.Bytes()
	want := []byte{0, 0, 255, 255, 0, 255}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHandle_DitherColor_OnlyLevels(t *testing.T) {
	h, err := NewHandleFromImage(createGradientImage(32, 8))
	if err != nil {
		t.Fatalf("NewHandleFromImage failed: %v", err)
	}
	for _, a := range dither.Algorithms() {
		c, _ := h.Clone()
		if err := c.DitherColor(a, 2); err != nil {
			t.Fatalf("%s: DitherColor failed: %v", a, err)
		}
		b, _ := c.Bytes()
		if len(b) != 32*8*3 {
			t.Fatalf("%s: got %d bytes, want %d", a, len(b), 32*8*3)
		}
		for _, v := range b {
			if v != 0 && v != 85 && v != 170 && v != 255 {
				t.Fatalf("%s: byte %d is not a depth-2 level", a, v)
			}
		}
	}
}

func TestHandle_GrayThenColor(t *testing.T) {
	h := mustHandle(t, scenarioRaster())
	if err := h.DitherGrayscale(dither.Atkinson, 1); err != nil {
		t.Fatalf("DitherGrayscale failed: %v", err)
	}
	if err := h.DitherColor(dither.Atkinson, 1); err != nil {
		t.Fatalf("DitherColor failed: %v", err)
	}
	got, _ := h.Bytes()
	want := []byte{0, 0, 0, 255, 255, 255, 0, 0, 0, 255, 255, 255}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHandle_InvalidDepthLeavesImage(t *testing.T) {
	for _, depth := range []int{0, 9} {
		h := mustHandle(t, scenarioRaster())
		before, _ := h.Bytes()

		err := h.DitherGrayscale(dither.FloydSteinberg, depth)
		if !errors.Is(err, dither.ErrInvalidDepth) {
			t.Errorf("depth %d: got %v, want ErrInvalidDepth", depth, err)
		}
		err = h.DitherColor(dither.FloydSteinberg, depth)
		if !errors.Is(err, dither.ErrInvalidDepth) {
			t.Errorf("color depth %d: got %v, want ErrInvalidDepth", depth, err)
		}

		after, _ := h.Bytes()
		if !bytes.Equal(before, after) {
			t.Errorf("depth %d: handle modified by failed dither", depth)
		}
		if info, _ := h.Info(); info.Format != "rgb" {
			t.Errorf("depth %d: format changed to %s", depth, info.Format)
		}
	}
}

func TestHandle_UnknownAlgorithm(t *testing.T) {
	h := mustHandle(t, scenarioRaster())
	if err := h.DitherGrayscale(dither.Algorithm(77), 1); !errors.Is(err, dither.ErrUnknownAlgorithm) {
		t.Errorf("got %v, want ErrUnknownAlgorithm", err)
	}
}

func TestHandle_PoisonedAfterPanic(t *testing.T) {
	h := mustHandle(t, scenarioRaster())

	err := h.withLock("test", func() error {
		panic("boom")
	})
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("panic: got %v, want ErrUnknown", err)
	}

	checks := map[string]error{}
	_, checks["bytes"] = h.Bytes()
	_, checks["info"] = h.Info()
	_, checks["palette"] = h.Palette()
	checks["resize"] = h.Resize(1, 1)
	checks["gray"] = h.DitherGrayscale(dither.FloydSteinberg, 1)
	checks["color"] = h.DitherColor(dither.FloydSteinberg, 1)
	checks["save"] = h.Save(t.TempDir() + "/out.png")

	for op, err := range checks {
		if !errors.Is(err, ErrLockFailure) {
			t.Errorf("%s: got %v, want ErrLockFailure", op, err)
		}
	}
}

func TestHandle_ConcurrentAccess(t *testing.T) {
	h, err := NewHandleFromImage(createGradientImage(64, 16))
	if err != nil {
		t.Fatalf("NewHandleFromImage failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			switch i % 3 {
			case 0:
				err = h.DitherGrayscale(dither.Stucki, 2)
			case 1:
				err = h.DitherColor(dither.Burkes, 1)
			default:
				_, err = h.Bytes()
			}
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	info, _ := h.Info()
	b, _ := h.Bytes()
	if len(b) != info.Width*info.Height*info.Channels {
		t.Errorf("got %d bytes for %+v", len(b), info)
	}
}

func TestNewHandle_Invalid(t *testing.T) {
	_, err := NewHandle(Raster{Width: 2, Height: 2, Format: FormatGray, Pix: []byte{1, 2, 3}})
	if !errors.Is(err, ErrBufferSizeMismatch) {
		t.Errorf("got %v, want ErrBufferSizeMismatch", err)
	}
	_, err = NewHandle(Raster{Width: 1, Height: 1, Format: Format(7), Pix: []byte{1}})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestNewHandle_CopiesPixels(t *testing.T) {
	r := scenarioRaster()
	h := mustHandle(t, r)
	r.Pix[0] = 99
	b, _ := h.Bytes()
	if b[0] != 10 {
		t.Error("NewHandle shares the caller's pixel slice")
	}
	b[1] = 99
	again, _ := h.Bytes()
	if again[1] != 10 {
		t.Error("Bytes returned the internal pixel slice")
	}
}

func TestHandle_Clone(t *testing.T) {
	h := mustHandle(t, scenarioRaster())
	c, err := h.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if err := c.DitherGrayscale(dither.Sierra, 1); err != nil {
		t.Fatalf("DitherGrayscale failed: %v", err)
	}
	if info, _ := h.Info(); info.Format != "rgb" {
		t.Error("dithering a clone changed the original")
	}
}

func TestHandle_EmptyImage(t *testing.T) {
	h := mustHandle(t, Raster{Width: 0, Height: 0, Format: FormatRGB})
	if err := h.DitherGrayscale(dither.FloydSteinberg, 1); !errors.Is(err, dither.ErrInvalidBufferDimensions) {
		t.Errorf("got %v, want ErrInvalidBufferDimensions", err)
	}
}

package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/eink-utils/internal/dither"
)

func TestHandle_Palette_AfterDither(t *testing.T) {
	h := mustHandle(t, scenarioRaster())
	if err := h.DitherGrayscale(dither.FloydSteinberg, 1); err != nil {
		t.Fatalf("DitherGrayscale failed: %v", err)
	}

	p, err := h.Palette()
	if err != nil {
		t.Fatalf("Palette failed: %v", err)
	}
	if p.Pixels != 4 {
		t.Errorf("Pixels: got %d, want 4", p.Pixels)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("got %d colors, want 2", len(p.Colors))
	}

	// Equal counts fall back to hex order.
	if p.Colors[0].Hex != "#000000" || p.Colors[1].Hex != "#ffffff" {
		t.Errorf("got %s, %s", p.Colors[0].Hex, p.Colors[1].Hex)
	}
	for _, c := range p.Colors {
		if c.Count != 2 || c.Percentage != 50 {
			t.Errorf("%s: got count %d (%.1f%%)", c.Hex, c.Count, c.Percentage)
		}
	}
	if p.Colors[1].HSL.L != 100 {
		t.Errorf("white lightness: got %d", p.Colors[1].HSL.L)
	}
}

func TestHandle_Palette_SortedByCount(t *testing.T) {
	h, err := NewHandleFromImage(createInMemoryImage(3, 1, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatalf("NewHandleFromImage failed: %v", err)
	}
	h.raster.Pix[6], h.raster.Pix[7], h.raster.Pix[8] = 0, 0, 255

	p, _ := h.Palette()
	if len(p.Colors) != 2 {
		t.Fatalf("got %d colors, want 2", len(p.Colors))
	}
	red := p.Colors[0]
	if red.Hex != "#ff0000" || red.Count != 2 {
		t.Errorf("first: got %s x%d, want #ff0000 x2", red.Hex, red.Count)
	}
	if red.RGB != (RGBColor{255, 0, 0}) || red.HSL.H != 0 || red.HSL.S != 100 {
		t.Errorf("red components: %+v %+v", red.RGB, red.HSL)
	}
	if p.Colors[1].HSL.H != 240 {
		t.Errorf("blue hue: got %d", p.Colors[1].HSL.H)
	}
}

func TestHandle_Palette_Depth2Levels(t *testing.T) {
	h, err := NewHandleFromImage(createGradientImage(64, 4))
	if err != nil {
		t.Fatalf("NewHandleFromImage failed: %v", err)
	}
	if err := h.DitherGrayscale(dither.Burkes, 2); err != nil {
		t.Fatalf("DitherGrayscale failed: %v", err)
	}

	p, _ := h.Palette()
	allowed := map[string]bool{"#000000": true, "#555555": true, "#aaaaaa": true, "#ffffff": true}
	total := 0
	for _, c := range p.Colors {
		if !allowed[c.Hex] {
			t.Errorf("unexpected color %s", c.Hex)
		}
		total += c.Count
	}
	if total != 64*4 {
		t.Errorf("counts sum to %d, want %d", total, 64*4)
	}
}

package imaging

import (
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorFrequency is one distinct output color and how often it occurs.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // "#rrggbb"
	Count      int      `json:"count"`      // Number of pixels with this color
	Percentage float64  `json:"percentage"` // Share of all pixels (0-100)
	RGB        RGBColor `json:"rgb"`
	HSL        HSLColor `json:"hsl"`
}

// PaletteResult lists the distinct colors of an image.
//
// Colors are sorted by frequency, most common first; equal counts are ordered
// by hex value so the result is stable.
type PaletteResult struct {
	Colors []ColorFrequency `json:"colors"`
	Pixels int              `json:"pixels"`
}

// Palette reports the exact colors present in the current image. After
// dithering this is the set of quantization levels actually used, which is
// handy for checking that an output fits a panel's palette.
//
// No bucketing is applied: every distinct RGB (or gray) value is its own
// entry. A full-color photo can therefore yield many thousands of entries.
func (h *Handle) Palette() (*PaletteResult, error) {
	var result *PaletteResult
	err := h.withLock("palette", func() error {
		result = palette(h.raster)
		return nil
	})
	return result, err
}

func palette(r Raster) *PaletteResult {
	ch := r.Format.Channels()
	counts := make(map[RGBColor]int)
	for i := 0; i+ch <= len(r.Pix); i += ch {
		var c RGBColor
		if ch == 1 {
			c = RGBColor{R: r.Pix[i], G: r.Pix[i], B: r.Pix[i]}
		} else {
			c = RGBColor{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2]}
		}
		counts[c]++
	}

	total := r.Width * r.Height
	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		h, s, l := cf.Hsl()
		colors = append(colors, ColorFrequency{
			Hex:        cf.Hex(),
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
			HSL:        HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Hex < colors[j].Hex
	})

	return &PaletteResult{Colors: colors, Pixels: total}
}

package dither

import (
	"fmt"
	"strings"
)

// Algorithm identifies one of the supported error-diffusion kernels.
type Algorithm int

// Supported algorithms. The zero value is FloydSteinberg.
const (
	FloydSteinberg Algorithm = iota
	Atkinson
	Stucki
	Burkes
	Jarvis
	Sierra

	algorithmCount
)

var algorithmNames = [algorithmCount]string{
	"floyd_steinberg", "atkinson", "stucki", "burkes", "jarvis", "sierra",
}

// Algorithms returns every supported algorithm in declaration order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, algorithmCount)
	for a := Algorithm(0); a < algorithmCount; a++ {
		out = append(out, a)
	}
	return out
}

// String returns the snake case name of the algorithm.
func (a Algorithm) String() string {
	if a.Valid() {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a >= 0 && a < algorithmCount
}

// ParseAlgorithm decodes an algorithm name such as "floyd_steinberg",
// "Floyd-Steinberg" or "sierra". Matching ignores case, hyphens and spaces.
// Unknown names return ErrUnknownAlgorithm; there is no default.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)

	for i, n := range algorithmNames {
		if key == n || key == strings.ReplaceAll(n, "_", "") {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Tap is a single kernel entry: the share Weight/Divisor of the residual goes
// to the pixel DY rows below and DX columns right of the current one.
type Tap struct {
	DY     int
	DX     int
	Weight int
}

// Kernel is a diffusion kernel: ordered taps plus a normalization divisor.
type Kernel struct {
	Taps    []Tap
	Divisor int
}

// Coverage returns the fraction of the residual the kernel distributes.
func (k Kernel) Coverage() float64 {
	sum := 0
	for _, t := range k.Taps {
		sum += t.Weight
	}
	return float64(sum) / float64(k.Divisor)
}

// Validate checks that the kernel only targets pixels later in scan order.
func (k Kernel) Validate() error {
	if k.Divisor <= 0 {
		return fmt.Errorf("%w: divisor %d", ErrInvalidKernel, k.Divisor)
	}
	for _, t := range k.Taps {
		if t.DY < 0 || (t.DY == 0 && t.DX <= 0) {
			return fmt.Errorf("%w: tap (%d,%d) points backward", ErrInvalidKernel, t.DY, t.DX)
		}
	}
	return nil
}

var kernels = [algorithmCount]Kernel{
	FloydSteinberg: {
		Divisor: 16,
		Taps: []Tap{
			{0, 1, 7},
			{1, -1, 3}, {1, 0, 5}, {1, 1, 1},
		},
	},
	// Atkinson intentionally diffuses only 6/8 of the residual.
	Atkinson: {
		Divisor: 8,
		Taps: []Tap{
			{0, 1, 1}, {0, 2, 1},
			{1, -1, 1}, {1, 0, 1}, {1, 1, 1},
			{2, 0, 1},
		},
	},
	Stucki: {
		Divisor: 42,
		Taps: []Tap{
			{0, 1, 8}, {0, 2, 4},
			{1, -2, 2}, {1, -1, 4}, {1, 0, 8}, {1, 1, 4}, {1, 2, 2},
			{2, -2, 1}, {2, -1, 2}, {2, 0, 4}, {2, 1, 2}, {2, 2, 1},
		},
	},
	Burkes: {
		Divisor: 32,
		Taps: []Tap{
			{0, 1, 8}, {0, 2, 4},
			{1, -2, 2}, {1, -1, 4}, {1, 0, 8}, {1, 1, 4}, {1, 2, 2},
		},
	},
	// Jarvis, Judice and Ninke.
	Jarvis: {
		Divisor: 48,
		Taps: []Tap{
			{0, 1, 7}, {0, 2, 5},
			{1, -2, 3}, {1, -1, 5}, {1, 0, 7}, {1, 1, 5}, {1, 2, 3},
			{2, -2, 1}, {2, -1, 3}, {2, 0, 5}, {2, 1, 3}, {2, 2, 1},
		},
	},
	// Three-row Sierra.
	Sierra: {
		Divisor: 32,
		Taps: []Tap{
			{0, 1, 5}, {0, 2, 3},
			{1, -2, 2}, {1, -1, 4}, {1, 0, 5}, {1, 1, 4}, {1, 2, 2},
			{2, -1, 2}, {2, 0, 3}, {2, 1, 2},
		},
	},
}

// KernelFor returns the diffusion kernel of a. The returned kernel has its
// own copy of the taps.
func KernelFor(a Algorithm) (Kernel, error) {
	if !a.Valid() {
		return Kernel{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	k := kernels[a]
	taps := make([]Tap, len(k.Taps))
	copy(taps, k.Taps)
	return Kernel{Taps: taps, Divisor: k.Divisor}, nil
}

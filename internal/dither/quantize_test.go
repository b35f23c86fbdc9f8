package dither

import (
	"errors"
	"testing"
)

func TestNewQuantizer_InvalidDepth(t *testing.T) {
	for _, depth := range []int{-1, 0, 9, 16} {
		_, err := NewQuantizer(depth)
		if !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("depth %d: got %v, want ErrInvalidDepth", depth, err)
		}
	}
}

func TestQuantizer_Levels(t *testing.T) {
	tests := []struct {
		depth int
		want  []float64
	}{
		{1, []float64{0, 255}},
		{2, []float64{0, 85, 170, 255}},
		{3, []float64{0, 36, 73, 109, 146, 182, 219, 255}},
	}

	for _, tt := range tests {
		q, err := NewQuantizer(tt.depth)
		if err != nil {
			t.Fatalf("NewQuantizer(%d) failed: %v", tt.depth, err)
		}
		got := q.Levels()
		if len(got) != len(tt.want) {
			t.Fatalf("depth %d: got %d levels, want %d", tt.depth, len(got), len(tt.want))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("depth %d level %d: got %v, want %v", tt.depth, i, got[i], tt.want[i])
			}
		}
	}
}

func TestQuantizer_Levels_Depth8IsIdentity(t *testing.T) {
	q, err := NewQuantizer(8)
	if err != nil {
		t.Fatalf("NewQuantizer(8) failed: %v", err)
	}
	for v := 0; v <= 255; v++ {
		if got := q.Quantize(float64(v)); got != float64(v) {
			t.Fatalf("Quantize(%d) = %v, want %d", v, got, v)
		}
	}
}

func TestQuantizer_Depth1Midpoint(t *testing.T) {
	q, _ := NewQuantizer(1)

	for v := 0; v < 128; v++ {
		if got := q.Quantize(float64(v)); got != 0 {
			t.Errorf("Quantize(%d) = %v, want 0", v, got)
		}
	}
	for v := 128; v <= 255; v++ {
		if got := q.Quantize(float64(v)); got != 255 {
			t.Errorf("Quantize(%d) = %v, want 255", v, got)
		}
	}
}

func TestQuantizer_TiesGoLow(t *testing.T) {
	q, _ := NewQuantizer(1)
	if got := q.Quantize(127.5); got != 0 {
		t.Errorf("Quantize(127.5) = %v, want 0", got)
	}

	q2, _ := NewQuantizer(2)
	// Midpoint between 85 and 170.
	if got := q2.Quantize(127.5); got != 85 {
		t.Errorf("depth 2 Quantize(127.5) = %v, want 85", got)
	}
}

func TestQuantizer_OutOfRange(t *testing.T) {
	q, _ := NewQuantizer(2)

	tests := []struct {
		in   float64
		want float64
	}{
		{-1000, 0},
		{-0.1, 0},
		{255.1, 255},
		{1e9, 255},
		{42, 0},
		{43, 85},
		{200, 170},
		{213, 255},
	}

	for _, tt := range tests {
		if got := q.Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQuantizer_LevelsIsCopy(t *testing.T) {
	q, _ := NewQuantizer(1)
	levels := q.Levels()
	levels[0] = 99
	if q.Quantize(0) != 0 {
		t.Error("mutating Levels() result changed the quantizer")
	}
	if q.Depth() != 1 {
		t.Errorf("Depth: got %d, want 1", q.Depth())
	}
}

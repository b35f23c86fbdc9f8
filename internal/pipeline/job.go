// Package pipeline runs batches of image conversions described in YAML.
//
// A job file lists one or more jobs. Each job loads an input image, optionally
// resizes it, optionally dithers it, then writes an encoded image, the raw
// exported samples, or both:
//
//	jobs:
//	  - input: photo.jpg
//	    output: panel.png
//	    raw: panel.bin
//	    resize: {width: 800, height: 480}
//	    dither: {mode: grayscale, algorithm: atkinson, depth: 2}
//
// Relative paths are resolved against the directory of the job file.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/eink-utils/internal/dither"
)

// ErrInvalidJob is returned when a job file fails validation.
var ErrInvalidJob = errors.New("invalid job")

// Mode selects the dither variant.
type Mode string

const (
	ModeGrayscale Mode = "grayscale"
	ModeColor     Mode = "color"
)

// ParseMode accepts "grayscale", "gray", "luma", "color" and "rgb". An empty
// string means grayscale.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "grayscale", "gray", "grey", "luma":
		return ModeGrayscale, nil
	case "color", "colour", "rgb":
		return ModeColor, nil
	}
	return "", fmt.Errorf("%w: unknown dither mode %q", ErrInvalidJob, s)
}

// ResizeStep scales the image to exactly Width x Height (crop-to-fill).
type ResizeStep struct {
	Width  int `yaml:"width" validate:"gt=0"`
	Height int `yaml:"height" validate:"gt=0"`
}

// DitherStep quantizes the image. Empty fields take the run defaults.
type DitherStep struct {
	Mode      string `yaml:"mode" validate:"mode"`
	Algorithm string `yaml:"algorithm" validate:"omitempty,algorithm"`
	// Depth 0 means the run default.
	Depth int `yaml:"depth" validate:"gte=0,lte=8"`
}

// Job is a single load, transform, write sequence.
type Job struct {
	Input  string      `yaml:"input" validate:"required"`
	Output string      `yaml:"output,omitempty" validate:"required_without=Raw"`
	Raw    string      `yaml:"raw,omitempty"`
	Resize *ResizeStep `yaml:"resize,omitempty"`
	Dither *DitherStep `yaml:"dither,omitempty"`
}

// File is a parsed job file.
type File struct {
	Jobs []Job `yaml:"jobs"`

	// dir is the directory relative paths resolve against.
	dir string
}

// Parse decodes a job file. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty job file", ErrInvalidJob)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and validates the job file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Validate checks every job and names the first bad one by index.
func (f *File) Validate() error {
	if len(f.Jobs) == 0 {
		return fmt.Errorf("%w: no jobs", ErrInvalidJob)
	}
	for i, j := range f.Jobs {
		if err := j.Validate(); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single job without touching the filesystem.
func (j Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return jobError(err, j)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		_, err := ParseMode(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		_, err := dither.ParseAlgorithm(fl.Field().String())
		return err == nil
	})
	return v
}

// jobError turns the first validation failure into an ErrInvalidJob error.
func jobError(err error, j Job) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	ve := verrs[0]
	switch ve.Field() {
	case "input":
		return fmt.Errorf("%w: input is required", ErrInvalidJob)
	case "output":
		return fmt.Errorf("%w: one of output or raw is required", ErrInvalidJob)
	case "width", "height":
		return fmt.Errorf("%w: resize %dx%d must be positive", ErrInvalidJob, j.Resize.Width, j.Resize.Height)
	case "mode":
		return fmt.Errorf("%w: unknown dither mode %q", ErrInvalidJob, ve.Value())
	case "algorithm":
		return fmt.Errorf("%w: %w: %q", ErrInvalidJob, dither.ErrUnknownAlgorithm, ve.Value())
	case "depth":
		return fmt.Errorf("%w: %w: depth %v", ErrInvalidJob, dither.ErrInvalidDepth, ve.Value())
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalidJob, ve.Namespace(), ve.Tag())
}

func (f *File) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

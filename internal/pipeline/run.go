package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ironsheep/eink-utils/internal/config"
	"github.com/ironsheep/eink-utils/internal/dither"
	"github.com/ironsheep/eink-utils/internal/imaging"
	"github.com/ironsheep/eink-utils/internal/logging"
)

// Defaults fills in dither settings a job leaves empty.
type Defaults struct {
	Algorithm   dither.Algorithm
	Depth       int
	JPEGQuality int
}

// DefaultsFromConfig resolves the configured algorithm name. An unknown name
// is an error rather than a silent fallback.
func DefaultsFromConfig(cfg config.Config) (Defaults, error) {
	a, err := dither.ParseAlgorithm(cfg.DefaultAlgorithm)
	if err != nil {
		return Defaults{}, fmt.Errorf("EINK_DEFAULT_ALGORITHM: %w", err)
	}
	if cfg.DefaultDepth < 1 || cfg.DefaultDepth > dither.MaxDepth {
		return Defaults{}, fmt.Errorf("EINK_DEFAULT_DEPTH: %w: %d", dither.ErrInvalidDepth, cfg.DefaultDepth)
	}
	return Defaults{Algorithm: a, Depth: cfg.DefaultDepth, JPEGQuality: cfg.JPEGQuality}, nil
}

// Result summarizes one completed job.
type Result struct {
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	Raw      string        `json:"raw,omitempty"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Format   string        `json:"format"`
	Duration time.Duration `json:"duration"`
}

// Run executes the jobs in order and stops at the first failure. Results of
// the jobs that completed are returned along with the error. Cancellation is
// checked between jobs.
func Run(ctx context.Context, f *File, d Defaults) ([]Result, error) {
	log := logging.For(logging.ComponentPipeline)
	results := make([]Result, 0, len(f.Jobs))

	for i, j := range f.Jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		j.Input = f.resolve(j.Input)
		j.Output = f.resolve(j.Output)
		j.Raw = f.resolve(j.Raw)

		res, err := RunJob(j, d)
		if err != nil {
			log.Error("job failed", "job", i, "input", j.Input, "kind", imaging.Kind(err), "error", err)
			return results, fmt.Errorf("job %d: %w", i, err)
		}
		log.Info("job done", "job", i, "input", j.Input, "width", res.Width, "height", res.Height, "duration", res.Duration)
		results = append(results, res)
	}
	return results, nil
}

// RunJob executes a single job with paths taken as given.
func RunJob(j Job, d Defaults) (Result, error) {
	start := time.Now()
	if err := j.Validate(); err != nil {
		return Result{}, err
	}

	h, err := imaging.Load(j.Input)
	if err != nil {
		return Result{}, err
	}

	if r := j.Resize; r != nil {
		if err := h.Resize(r.Width, r.Height); err != nil {
			return Result{}, err
		}
	}

	if ds := j.Dither; ds != nil {
		if err := applyDither(h, ds, d); err != nil {
			return Result{}, err
		}
	}

	if j.Output != "" {
		if err := h.SaveWithOptions(j.Output, imaging.SaveOptions{JPEGQuality: d.JPEGQuality}); err != nil {
			return Result{}, err
		}
	}
	if j.Raw != "" {
		b, err := h.Bytes()
		if err != nil {
			return Result{}, err
		}
		if err := os.WriteFile(j.Raw, b, 0o644); err != nil {
			return Result{}, fmt.Errorf("%w: %v", imaging.ErrIO, err)
		}
	}

	info, err := h.Info()
	if err != nil {
		return Result{}, err
	}
	return Result{
		Input:    j.Input,
		Output:   j.Output,
		Raw:      j.Raw,
		Width:    info.Width,
		Height:   info.Height,
		Format:   info.Format,
		Duration: time.Since(start),
	}, nil
}

func applyDither(h *imaging.Handle, ds *DitherStep, d Defaults) error {
	mode, err := ParseMode(ds.Mode)
	if err != nil {
		return err
	}
	a := d.Algorithm
	if ds.Algorithm != "" {
		if a, err = dither.ParseAlgorithm(ds.Algorithm); err != nil {
			return err
		}
	}
	depth := ds.Depth
	if depth == 0 {
		depth = d.Depth
	}
	if depth == 0 {
		depth = 1
	}

	if mode == ModeColor {
		return h.DitherColor(a, depth)
	}
	return h.DitherGrayscale(a, depth)
}

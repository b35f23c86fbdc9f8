package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/eink-utils/internal/config"
	"github.com/ironsheep/eink-utils/internal/dither"
	"github.com/ironsheep/eink-utils/internal/imaging"
	"github.com/ironsheep/eink-utils/internal/logging"
	"github.com/ironsheep/eink-utils/internal/pipeline"
	"github.com/ironsheep/eink-utils/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "eink-utils %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "eink-utils: failed to load .env: %v\n", err)
		return 1
	}
	if err := setupLogging(cfg, stderr); err != nil {
		fmt.Fprintf(stderr, "eink-utils: %v\n", err)
		return 2
	}
	log := logging.For(logging.ComponentCLI)

	defaults, err := pipeline.DefaultsFromConfig(cfg)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return 2
	}

	switch cmd {
	case "serve":
		log.Info("starting MCP server", "version", Version, "commit", GitCommit)
		srv := server.New(server.WithDefaults(defaults), server.WithVersion(Version))
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("server error", "error", err)
			return 1
		}
		return 0

	case "dither":
		return runDither(args, defaults, stdout, stderr)

	case "run":
		return runJobs(ctx, args, defaults, stdout, stderr)

	default:
		fmt.Fprintf(stderr, "eink-utils: unknown command %q\n\n", cmd)
		printUsage(stderr)
		return 2
	}
}

func setupLogging(cfg config.Config, w io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("EINK_LOG_LEVEL: %w", err)
	}
	logging.SetLogger(logging.New(w, logging.Options{
		Level:     level,
		NoColor:   cfg.NoColor,
		AddSource: cfg.LogSource,
	}))
	return nil
}

func runDither(args []string, d pipeline.Defaults, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dither", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "Input image path")
	out := fs.String("out", "", "Output path (encoded image, or raw samples with -raw)")
	width := fs.Int("width", 0, "Resize to this width before dithering (requires -height)")
	height := fs.Int("height", 0, "Resize to this height before dithering (requires -width)")
	mode := fs.String("mode", "gray", "Dither mode: gray or color")
	alg := fs.String("algorithm", d.Algorithm.String(), "Dither algorithm")
	depth := fs.Int("depth", d.Depth, "Bits per output sample (1-8)")
	raw := fs.Bool("raw", false, "Write raw row-major samples instead of an encoded image")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *in == "" || *out == "" {
		fmt.Fprintln(stderr, "eink-utils dither: -in and -out are required")
		fs.Usage()
		return 2
	}
	if *depth < 1 || *depth > dither.MaxDepth {
		fmt.Fprintf(stderr, "eink-utils dither: invalid_depth: %d (want 1-%d)\n", *depth, dither.MaxDepth)
		return 2
	}
	if (*width == 0) != (*height == 0) {
		fmt.Fprintln(stderr, "eink-utils dither: -width and -height must be given together")
		return 2
	}

	job := pipeline.Job{
		Input:  *in,
		Dither: &pipeline.DitherStep{Mode: *mode, Algorithm: *alg, Depth: *depth},
	}
	if *raw {
		job.Raw = *out
	} else {
		job.Output = *out
	}
	if *width != 0 {
		job.Resize = &pipeline.ResizeStep{Width: *width, Height: *height}
	}

	res, err := pipeline.RunJob(job, d)
	if err != nil {
		fmt.Fprintf(stderr, "eink-utils dither: %s: %v\n", imaging.Kind(err), err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: %dx%d %s\n", *out, res.Width, res.Height, res.Format)
	return 0
}

func runJobs(ctx context.Context, args []string, d pipeline.Defaults, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: eink-utils run JOBFILE.yaml")
		return 2
	}

	f, err := pipeline.Load(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "eink-utils run: %v\n", err)
		return 2
	}

	results, err := pipeline.Run(ctx, f, d)
	for _, r := range results {
		dst := r.Output
		if dst == "" {
			dst = r.Raw
		}
		fmt.Fprintf(stdout, "%s -> %s: %dx%d %s (%s)\n", r.Input, dst, r.Width, r.Height, r.Format, r.Duration.Round(time.Millisecond))
	}
	if err != nil {
		fmt.Fprintf(stderr, "eink-utils run: %s: %v\n", imaging.Kind(err), err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "eink-utils - dithering for e-paper displays")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  eink-utils [serve]                 Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  eink-utils dither -in X -out Y     Convert one image")
	fmt.Fprintln(w, "      [-width W -height H] [-mode gray|color] [-algorithm NAME] [-depth N] [-raw]")
	fmt.Fprintln(w, "  eink-utils run JOBFILE.yaml        Run a batch of jobs")
	fmt.Fprintln(w, "  eink-utils version                 Print version information")
	fmt.Fprintln(w, "  eink-utils help                    Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Algorithms: floyd_steinberg, atkinson, stucki, burkes, jarvis, sierra")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (also read from .env, or KEY_FILE):")
	fmt.Fprintln(w, "  EINK_LOG_LEVEL=info                 debug, info, warn or error")
	fmt.Fprintln(w, "  EINK_LOG_SOURCE=false               Add file:line to log records")
	fmt.Fprintln(w, "  EINK_DEFAULT_ALGORITHM=floyd_steinberg")
	fmt.Fprintln(w, "  EINK_DEFAULT_DEPTH=1")
	fmt.Fprintln(w, "  EINK_JPEG_QUALITY=95")
	fmt.Fprintln(w, "  NO_COLOR                            Disable colored logs")
}

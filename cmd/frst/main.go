// Command frst locates radially symmetric blobs in an image with the fast
// radial symmetry transform and optionally renders the markers and the
// score map.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"frst/internal/logger"
	"frst/pkg/frst"
)

type options struct {
	input      string
	radius     int
	radii      string
	alpha      float64
	std        float64
	mode       string
	workers    int
	morph      string
	shape      string
	size       int
	iterations int
	minArea    float64
	stretch    bool
	overlay    string
	heatmap    string
	maxWidth   int
	labels     bool
	debugDir   string
	verbose    bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	defaults := frst.NewLocateParams()
	o := &options{}

	fs := flag.NewFlagSet("frst", flag.ContinueOnError)
	fs.IntVar(&o.radius, "radius", defaults.Transform.Radius, "Projection radius in pixels")
	fs.StringVar(&o.radii, "radii", "", "Comma-separated radii to fuse (overrides -radius)")
	fs.Float64Var(&o.alpha, "alpha", defaults.Transform.Alpha, "Radial strictness exponent (>= 1)")
	fs.Float64Var(&o.std, "std", defaults.Transform.StdFactor, "Gaussian sigma as a fraction of the radius")
	fs.StringVar(&o.mode, "mode", defaults.Transform.Mode.String(), "Polarity: bright, dark or both")
	fs.IntVar(&o.workers, "workers", defaults.Transform.Workers, "Row bands processed in parallel")
	fs.StringVar(&o.morph, "morph", defaults.Morph.Op.String(), "Morphology: erode, dilate, open or close")
	fs.StringVar(&o.shape, "shape", defaults.Morph.Shape.String(), "Structuring element: rect, cross or ellipse")
	fs.IntVar(&o.size, "size", defaults.Morph.Size, "Structuring element size (odd)")
	fs.IntVar(&o.iterations, "iterations", defaults.Morph.Iterations, "Morphology iterations")
	fs.Float64Var(&o.minArea, "min-area", defaults.MinArea, "Drop blobs smaller than this area")
	fs.BoolVar(&o.stretch, "stretch", true, "Min-max stretch FITS samples to 8 bits")
	fs.StringVar(&o.overlay, "overlay", "", "Write marker overlay to this file (.png/.jpg)")
	fs.StringVar(&o.heatmap, "heatmap", "", "Write colourised score map to this file")
	fs.IntVar(&o.maxWidth, "max-width", 0, "Downscale rendered images to this width")
	fs.BoolVar(&o.labels, "labels", false, "Number the markers in the overlay")
	fs.StringVar(&o.debugDir, "debug-dir", "", "Existing directory for intermediate stage images")
	fs.BoolVar(&o.verbose, "v", false, "Debug logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: frst [options] <input-file>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one input file")
	}
	o.input = fs.Arg(0)
	return o, nil
}

func (o *options) locateParams() (*frst.LocateParams, error) {
	mode, err := frst.ParseMode(o.mode)
	if err != nil {
		return nil, err
	}
	op, err := frst.ParseMorphOp(o.morph)
	if err != nil {
		return nil, err
	}
	shape, err := frst.ParseStructuringShape(o.shape)
	if err != nil {
		return nil, err
	}
	radii, err := parseRadii(o.radii)
	if err != nil {
		return nil, err
	}

	lp := frst.NewLocateParams()
	lp.Transform = frst.Params{
		Radius:    o.radius,
		Alpha:     o.alpha,
		StdFactor: o.std,
		Mode:      mode,
		Workers:   o.workers,
	}
	lp.Radii = radii
	lp.Morph = frst.MorphFilter{Op: op, Shape: shape, Size: o.size, Iterations: o.iterations}
	lp.MinArea = o.minArea
	lp.SaveIntermediateFilesPath = o.debugDir
	return lp, nil
}

func parseRadii(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var radii []int
	for _, part := range strings.Split(s, ",") {
		r, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: radii entry %q is not an integer", frst.ErrInvalidParameter, part)
		}
		radii = append(radii, r)
	}
	return radii, nil
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	level := logger.LevelFromEnv()
	if o.verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewConsoleLogger(level)

	lp, err := o.locateParams()
	if err != nil {
		return err
	}

	log.Info("Loader", "loading image", map[string]interface{}{"path": o.input})
	gray, err := loadInput(o.input, o.stretch)
	if err != nil {
		return err
	}
	b := gray.Bounds()
	log.Debug("Loader", "image loaded", map[string]interface{}{"width": b.Dx(), "height": b.Dy()})

	startTime := time.Now()
	result, err := frst.Locate(context.Background(), gray, lp)
	if err != nil {
		log.Error("Locate", err, map[string]interface{}{"path": o.input})
		return fmt.Errorf("locating markers: %w", err)
	}
	elapsed := time.Since(startTime)
	log.Debug("Locate", "pipeline finished", map[string]interface{}{
		"elapsed_ms": elapsed.Milliseconds(),
		"blobs":      result.Metrics.Blobs,
		"threshold":  result.Threshold,
	})

	printResults(o, gray, result, elapsed)

	if o.overlay != "" {
		opts := frst.DefaultOverlayOptions()
		opts.Labels = o.labels
		if len(lp.Radii) == 0 {
			opts.RingRadius = lp.Transform.Radius
		}
		img := frst.RenderMarkers(gray, result.Markers, opts)
		if err := frst.SaveImage(frst.FitWidth(img, o.maxWidth), o.overlay); err != nil {
			return err
		}
		log.Info("Overlay", "overlay written", map[string]interface{}{"path": o.overlay})
	}
	if o.heatmap != "" {
		img := frst.RenderHeatmap(result.Score)
		if err := frst.SaveImage(frst.FitWidth(img, o.maxWidth), o.heatmap); err != nil {
			return err
		}
		log.Info("Overlay", "heat map written", map[string]interface{}{"path": o.heatmap})
	}
	return nil
}

func loadInput(path string, stretch bool) (*image.Gray, error) {
	lowerPath := strings.ToLower(path)
	if strings.HasSuffix(lowerPath, ".fits") || strings.HasSuffix(lowerPath, ".fit") {
		fitsData, err := frst.ReadFITS(path)
		if err != nil {
			return nil, fmt.Errorf("reading FITS: %w", err)
		}
		return fitsData.Gray(stretch), nil
	}
	return loadGrayImage(path)
}

func printResults(o *options, gray *image.Gray, result *frst.LocateResult, elapsed time.Duration) {
	b := gray.Bounds()
	fmt.Println()
	fmt.Printf("=== Radial Symmetry Markers (%.2fs) ===\n", elapsed.Seconds())
	fmt.Printf("  Image size:      %d x %d\n", b.Dx(), b.Dy())
	fmt.Printf("  Mode:            %s\n", o.mode)
	if o.radii != "" {
		fmt.Printf("  Radii:           %s\n", o.radii)
	} else {
		fmt.Printf("  Radius:          %d\n", o.radius)
	}
	fmt.Printf("  Otsu threshold:  %.0f\n", result.Threshold)
	fmt.Printf("  Blobs:           %d (too small: %d)\n", result.Metrics.Blobs, result.Metrics.TooSmall)
	fmt.Printf("  Markers:         %d\n", len(result.Markers))

	if len(result.Markers) > 1 {
		areas := make([]float64, len(result.Markers))
		for i, m := range result.Markers {
			areas[i] = m.Area
		}
		mean, std := stat.MeanStdDev(areas, nil)
		fmt.Printf("  Area:            %.1f +/- %.1f px\n", mean, std)
	}

	for i, m := range result.Markers {
		fmt.Printf("  %3d  x=%8.2f  y=%8.2f  area=%7.1f  peak=%.4g\n", i+1, m.Center.X, m.Center.Y, m.Area, m.Peak)
	}
	fmt.Println("==============================")
}

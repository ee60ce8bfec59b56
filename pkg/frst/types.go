package frst

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidParameter is wrapped by every parameter validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError describes which parameter was rejected and why.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

func invalid(field string, value any, reason string) error {
	return &ParamError{Field: field, Value: value, Reason: reason}
}

// Mode selects which gradient polarity casts votes.
type Mode int

const (
	ModeBright Mode = 1
	ModeDark   Mode = 2
	ModeBoth   Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeBright:
		return "bright"
	case ModeDark:
		return "dark"
	case ModeBoth:
		return "both"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "bright", "dark" or "both".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "bright":
		return ModeBright, nil
	case "dark":
		return ModeDark, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, invalid("mode", s, "must be one of bright, dark, both")
}

// polarity reports which vote directions a mode enables.
func (m Mode) polarity() (bright, dark bool, err error) {
	switch m {
	case ModeBright:
		return true, false, nil
	case ModeDark:
		return false, true, nil
	case ModeBoth:
		return true, true, nil
	}
	return false, false, invalid("mode", m, "must be one of bright, dark, both")
}

// Params configures a single fixed-radius transform.
type Params struct {
	// Radius is the projection distance in pixels; it also scales the blur.
	Radius int
	// Alpha is the strictness exponent applied to the normalised vote counts.
	Alpha float64
	// StdFactor scales the Gaussian sigma relative to Radius.
	StdFactor float64
	Mode      Mode
	// Workers > 1 splits gradient and vote passes into row bands.
	Workers int
}

// NewParams returns the default transform parameters.
func NewParams() Params {
	return Params{
		Radius:    12,
		Alpha:     2,
		StdFactor: 0.1,
		Mode:      ModeDark,
		Workers:   1,
	}
}

// Validate checks the mode first, then the numeric ranges.
func (p Params) Validate() error {
	if _, _, err := p.Mode.polarity(); err != nil {
		return err
	}
	if p.Radius <= 0 {
		return invalid("radius", p.Radius, "must be positive")
	}
	if !(p.Alpha >= 1) {
		return invalid("alpha", p.Alpha, "must be >= 1")
	}
	if !(p.StdFactor > 0) {
		return invalid("stdFactor", p.StdFactor, "must be positive")
	}
	if p.Workers < 0 {
		return invalid("workers", p.Workers, "must not be negative")
	}
	return nil
}

// ScoreMap is the unnormalised radial symmetry response, row-major.
type ScoreMap struct {
	Width  int
	Height int
	Data   []float64
}

func (s *ScoreMap) At(x, y int) float64 { return s.Data[y*s.Width+x] }

// MaxLoc returns the first location holding the maximum score.
func (s *ScoreMap) MaxLoc() (x, y int, v float64) {
	best := 0
	for i, d := range s.Data {
		if d > s.Data[best] {
			best = i
		}
	}
	return best % s.Width, best / s.Width, s.Data[best]
}

// Add accumulates o into s elementwise. Both maps must share dimensions.
func (s *ScoreMap) Add(o *ScoreMap) error {
	if s.Width != o.Width || s.Height != o.Height {
		return fmt.Errorf("score map size mismatch: %dx%d vs %dx%d", s.Width, s.Height, o.Width, o.Height)
	}
	for i, v := range o.Data {
		s.Data[i] += v
	}
	return nil
}

// Point2d represents a 2D point with float64 coordinates.
type Point2d struct {
	X, Y float64
}

// Marker is one localised symmetry centre.
type Marker struct {
	Center Point2d
	// Area is the blob area in pixels (contour area on the native backend).
	Area   float64
	Bounds image.Rectangle
	// Peak is the largest raw score inside Bounds.
	Peak float64
}

func (m Marker) String() string {
	return fmt.Sprintf("{Center=(%.2f,%.2f), Area=%.1f, Bounds=%v, Peak=%g}",
		m.Center.X, m.Center.Y, m.Area, m.Bounds, m.Peak)
}

// MorphOp is a binary morphology operation.
type MorphOp int

const (
	MorphErode MorphOp = iota
	MorphDilate
	MorphOpen
	MorphClose
)

func (o MorphOp) String() string {
	switch o {
	case MorphErode:
		return "erode"
	case MorphDilate:
		return "dilate"
	case MorphOpen:
		return "open"
	case MorphClose:
		return "close"
	default:
		return "unknown"
	}
}

// StructuringShape is the footprint of a morphology kernel.
type StructuringShape int

const (
	ShapeRect StructuringShape = iota
	ShapeCross
	ShapeEllipse
)

func (s StructuringShape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCross:
		return "cross"
	case ShapeEllipse:
		return "ellipse"
	default:
		return "unknown"
	}
}

// LocateParams configures the marker pipeline built on Transform.
type LocateParams struct {
	Transform Params
	// Radii, when set, fuses one transform per radius instead of Transform.Radius.
	Radii   []int
	Morph   MorphFilter
	MinArea float64
	// SaveIntermediateFilesPath receives stage images when it names an existing directory.
	SaveIntermediateFilesPath string
}

// NewLocateParams closes blobs with a 5x5 ellipse by default.
func NewLocateParams() *LocateParams {
	return &LocateParams{
		Transform: NewParams(),
		Morph: MorphFilter{
			Op:         MorphClose,
			Shape:      ShapeEllipse,
			Size:       5,
			Iterations: 1,
		},
	}
}

// LocateMetrics tracks how blobs were filtered.
type LocateMetrics struct {
	Blobs      int
	TooSmall   int
	Degenerate int
}

// LocateResult is the output of Locate.
type LocateResult struct {
	Score *ScoreMap
	// Threshold is the Otsu level on the 8-bit normalised score.
	Threshold float64
	Markers   []Marker
	Metrics   *LocateMetrics
}

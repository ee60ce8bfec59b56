package frst

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// OverlayOptions controls RenderMarkers.
type OverlayOptions struct {
	// DotRadius is the filled marker radius in pixels.
	DotRadius int
	// RingRadius draws an outline of this radius around each marker when > 0.
	RingRadius int
	// Labels prints each marker's index next to it.
	Labels bool
	// ColorByPeak grades markers from red (weakest) to green (strongest)
	// instead of plain green.
	ColorByPeak bool
}

// DefaultOverlayOptions draws plain green dots of radius 2.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{DotRadius: 2}
}

var (
	markerGreen = colorful.Color{R: 0, G: 1, B: 0}
	markerRed   = colorful.Color{R: 1, G: 0.2, B: 0.2}

	heatStops = []colorful.Color{
		{R: 0, G: 0, B: 0.05},
		{R: 0.35, G: 0.05, B: 0.55},
		{R: 0.95, G: 0.45, B: 0.1},
		{R: 1, G: 1, B: 0.85},
	}
)

// RenderMarkers draws markers over the gray source frame.
func RenderMarkers(src *image.Gray, markers []Marker, opts OverlayOptions) *image.RGBA {
	img := clone.AsRGBA(src)
	if opts.DotRadius <= 0 {
		opts.DotRadius = 2
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, m := range markers {
		lo = math.Min(lo, m.Peak)
		hi = math.Max(hi, m.Peak)
	}

	face := basicfont.Face7x13
	for i, m := range markers {
		c := markerGreen
		if opts.ColorByPeak && hi > lo {
			c = markerRed.BlendHcl(markerGreen, (m.Peak-lo)/(hi-lo)).Clamped()
		}
		r, g, b := c.RGB255()
		rgba := color.RGBA{r, g, b, 255}

		cx := int(math.Round(m.Center.X))
		cy := int(math.Round(m.Center.Y))
		fillCircle(img, cx, cy, opts.DotRadius, rgba)
		if opts.RingRadius > 0 {
			drawCircle(img, cx, cy, opts.RingRadius, rgba)
		}
		if opts.Labels {
			drawText(img, face, fmt.Sprintf("%d", i+1), cx+opts.DotRadius+2, cy-opts.DotRadius, rgba)
		}
	}
	return img
}

// RenderHeatmap colours a score map through a dark-to-bright ramp after
// min-max normalisation. A flat map renders in the darkest colour.
func RenderHeatmap(score *ScoreMap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, score.Width, score.Height))
	levels := normalizeToByteRange(score.Data)
	for i, v := range levels {
		r, g, b := heatColor(v / 255).RGB255()
		img.SetRGBA(i%score.Width, i/score.Width, color.RGBA{r, g, b, 255})
	}
	return img
}

func heatColor(t float64) colorful.Color {
	segments := float64(len(heatStops) - 1)
	pos := clampFloat64(t, 0, 1) * segments
	i := int(math.Min(math.Floor(pos), segments-1))
	return heatStops[i].BlendLab(heatStops[i+1], pos-float64(i)).Clamped()
}

// FitWidth downscales img to maxWidth keeping the aspect ratio. Narrower
// images and maxWidth <= 0 leave img unchanged.
func FitWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

// SaveImage writes img with the format implied by the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// EncodePNGBytes returns img as PNG bytes.
func EncodePNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawText draws a string at (x, y) using the given font face.
func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawCircle draws a circle outline using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		img.Set(cx+x, cy+y, c)
		img.Set(cx+y, cy+x, c)
		img.Set(cx-y, cy+x, c)
		img.Set(cx-x, cy+y, c)
		img.Set(cx-x, cy-y, c)
		img.Set(cx-y, cy-x, c)
		img.Set(cx+y, cy-x, c)
		img.Set(cx+x, cy-y, c)

		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

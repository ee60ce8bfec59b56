package frst

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// GrayFromImage converts any image to 8-bit luminance (ITU-R BT.601).
// *image.Gray inputs are returned as-is.
func GrayFromImage(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return out
}

// GrayFromSamples scales high bit-depth samples to 8 bits. With stretch the
// observed min..max range is mapped to 0..255 instead of the full bit depth.
func GrayFromSamples(samples []uint16, bitDepth, width, height int, stretch bool) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, width, height))
	lo, hi := 0.0, float64(uint32(1)<<uint(bitDepth)-1)
	if stretch && len(samples) > 0 {
		lo, hi = math.MaxFloat64, 0
		for _, s := range samples[:width*height] {
			lo = math.Min(lo, float64(s))
			hi = math.Max(hi, float64(s))
		}
	}
	scale := 0.0
	if hi > lo {
		scale = 255 / (hi - lo)
	}
	for i, s := range samples[:width*height] {
		out.Pix[(i/width)*out.Stride+i%width] = uint8(math.Round(clampFloat64((float64(s)-lo)*scale, 0, 255)))
	}
	return out
}

// normalizeToByteRange maps data onto 0..255 by min-max scaling and rounds,
// like a NORM_MINMAX normalise followed by an 8-bit conversion. A flat input
// maps to all zero.
func normalizeToByteRange(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	lo, hi := floats.Min(data), floats.Max(data)
	if hi <= lo {
		return out
	}
	scale := 255 / (hi - lo)
	for i, v := range data {
		out[i] = math.Round((v - lo) * scale)
	}
	return out
}

// otsuLevel returns the 8-bit level that maximises the between-class
// variance of values (expected in 0..255). Pixels strictly above the level
// form the foreground.
func otsuLevel(values []float64) float64 {
	hist := make([]float64, 256)
	for _, v := range values {
		hist[int(clampFloat64(v, 0, 255))]++
	}
	total := floats.Sum(hist)
	if total == 0 {
		return 0
	}
	levels := make([]float64, 256)
	for i := range levels {
		levels[i] = float64(i)
	}
	mu := floats.Dot(levels, hist) / total

	var q1, mu1Sum, bestSigma float64
	best := 0
	for i := 0; i < 256; i++ {
		p := hist[i] / total
		q1 += p
		mu1Sum += float64(i) * p
		q2 := 1 - q1
		if q1 < 1e-12 || q2 < 1e-12 {
			continue
		}
		mu1 := mu1Sum / q1
		mu2 := (mu - mu1Sum) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > bestSigma {
			bestSigma = sigma
			best = i
		}
	}
	return float64(best)
}

func clampFloat64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package frst

import (
	"image"
	"image/color"
	"math"
)

// makeDisk returns a w x h image filled with bg and a disk of value fg.
func makeDisk(w, h, cx, cy, radius int, fg, bg uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := bg
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= radius*radius {
				v = fg
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func makeConstant(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func chebyshev(x0, y0, x1, y1 int) int {
	dx, dy := x0-x1, y0-y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

func maxAbsDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

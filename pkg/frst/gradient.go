package frst

import (
	"image"

	"golang.org/x/sync/errgroup"
)

// GradientField holds central-difference gradients of an image, row-major.
type GradientField struct {
	Rows int
	Cols int
	// DX is the horizontal gradient; zero on the first and last column.
	DX []float64
	// DY is the vertical gradient; zero on the first and last row.
	DY []float64
}

func (g *GradientField) At(row, col int) (dx, dy float64) {
	i := row*g.Cols + col
	return g.DX[i], g.DY[i]
}

// ComputeGradient computes (next - previous) / 2 along both axes.
func ComputeGradient(img *image.Gray) *GradientField {
	return computeGradient(img, 1)
}

func computeGradient(img *image.Gray, workers int) *GradientField {
	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()
	g := &GradientField{
		Rows: rows,
		Cols: cols,
		DX:   make([]float64, rows*cols),
		DY:   make([]float64, rows*cols),
	}

	forEachBand(rows, workers, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			out := y * cols
			for x := 1; x < cols-1; x++ {
				g.DX[out+x] = (float64(row[x+1]) - float64(row[x-1])) / 2
			}
			if y == 0 || y == rows-1 {
				continue
			}
			above := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y-1):]
			below := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y+1):]
			for x := 0; x < cols; x++ {
				g.DY[out+x] = (float64(below[x]) - float64(above[x])) / 2
			}
		}
	})
	return g
}

// forEachBand splits [0, rows) into at most workers contiguous bands and
// runs fn on each, concurrently when workers > 1.
func forEachBand(rows, workers int, fn func(start, end int)) {
	bands := splitBands(rows, workers)
	if len(bands) == 1 {
		fn(bands[0][0], bands[0][1])
		return
	}
	var g errgroup.Group
	for _, band := range bands {
		band := band
		g.Go(func() error {
			fn(band[0], band[1])
			return nil
		})
	}
	_ = g.Wait()
}

func splitBands(rows, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	if workers < 1 {
		return [][2]int{{0, rows}}
	}
	bands := make([][2]int, 0, workers)
	size := rows / workers
	extra := rows % workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < extra {
			end++
		}
		bands = append(bands, [2]int{start, end})
		start = end
	}
	return bands
}

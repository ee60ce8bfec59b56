package frst

import "math"

// accumulateVotes projects every non-zero gradient radius pixels forward
// (bright) and/or backward (dark) into two canvases padded by radius on each
// side: a signed vote count and a signed gradient-magnitude sum.
//
// With workers > 1 each band of source rows scatters into private canvases
// which are then summed in band order, so a given worker count always
// produces the same sums.
func accumulateVotes(g *GradientField, radius int, bright, dark bool, workers int) (count, magnitude Mat) {
	canvasRows := g.Rows + 2*radius
	canvasCols := g.Cols + 2*radius
	count = NewMatWithSize(canvasRows, canvasCols)
	magnitude = NewMatWithSize(canvasRows, canvasCols)
	countData := count.DataFloat64()
	magData := magnitude.DataFloat64()

	bands := splitBands(g.Rows, workers)
	if len(bands) == 1 {
		scatterVotes(g, radius, bright, dark, 0, g.Rows, countData, magData, canvasCols)
		return count, magnitude
	}

	partialCount := make([][]float64, len(bands))
	partialMag := make([][]float64, len(bands))
	for i := range bands {
		partialCount[i] = make([]float64, canvasRows*canvasCols)
		partialMag[i] = make([]float64, canvasRows*canvasCols)
	}
	forEachBand(g.Rows, workers, func(start, end int) {
		// bands from forEachBand match splitBands one to one
		i := bandIndex(bands, start)
		scatterVotes(g, radius, bright, dark, start, end, partialCount[i], partialMag[i], canvasCols)
	})
	for i := range bands {
		pc, pm := partialCount[i], partialMag[i]
		for j := range countData {
			countData[j] += pc[j]
			magData[j] += pm[j]
		}
	}
	return count, magnitude
}

func bandIndex(bands [][2]int, start int) int {
	for i, b := range bands {
		if b[0] == start {
			return i
		}
	}
	return 0
}

func scatterVotes(g *GradientField, radius int, bright, dark bool, startRow, endRow int, countData, magData []float64, canvasCols int) {
	r := float64(radius)
	for row := startRow; row < endRow; row++ {
		for col := 0; col < g.Cols; col++ {
			dx, dy := g.At(row, col)
			norm := math.Sqrt(dx*dx + dy*dy)
			if norm == 0 {
				continue
			}
			kRow := int(math.Round(dy / norm * r))
			kCol := int(math.Round(dx / norm * r))

			if bright {
				i := (row+kRow+radius)*canvasCols + col + kCol + radius
				countData[i]++
				magData[i] += norm
			}
			if dark {
				i := (row-kRow+radius)*canvasCols + col - kCol + radius
				countData[i]--
				magData[i] -= norm
			}
		}
	}
}

//go:build purego || js

package frst

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/floats"
)

// Mat is a pure Go 2D float64 matrix.
type Mat struct {
	data    []float64
	rows    int
	cols    int
	stride  int // elements per row in backing array (may differ from cols for sub-matrices)
	dataOff int // offset into data for sub-matrices
	owned   bool
}

func NewMat() Mat { return Mat{} }

// NewMatWithSize returns a zero-filled rows x cols matrix.
func NewMatWithSize(rows, cols int) Mat {
	return Mat{
		data:   make([]float64, rows*cols),
		rows:   rows,
		cols:   cols,
		stride: cols,
		owned:  true,
	}
}

func (m Mat) Rows() int   { return m.rows }
func (m Mat) Cols() int   { return m.cols }
func (m Mat) Empty() bool { return m.data == nil || m.rows == 0 || m.cols == 0 }

func (m Mat) Clone() Mat {
	newData := make([]float64, m.rows*m.cols)
	for r := 0; r < m.rows; r++ {
		srcOff := m.dataOff + r*m.stride
		copy(newData[r*m.cols:], m.data[srcOff:srcOff+m.cols])
	}
	return Mat{data: newData, rows: m.rows, cols: m.cols, stride: m.cols, owned: true}
}

func (m *Mat) Close() {
	if m.owned {
		m.data = nil
	}
	m.rows = 0
	m.cols = 0
}

// DataFloat64 returns the backing float64 slice.
// Only valid for contiguous mats (not un-cloned sub-matrices from Region).
func (m Mat) DataFloat64() []float64 {
	return m.data[m.dataOff:]
}

func (m Mat) Region(r image.Rectangle) Mat {
	return Mat{
		data:    m.data,
		rows:    r.Dy(),
		cols:    r.Dx(),
		stride:  m.stride,
		dataOff: m.dataOff + r.Min.Y*m.stride + r.Min.X,
		owned:   false,
	}
}

func CopyMatTo(src Mat, dst *Mat) {
	if dst.rows != src.rows || dst.cols != src.cols || dst.data == nil {
		*dst = NewMatWithSize(src.rows, src.cols)
	}
	for r := 0; r < src.rows; r++ {
		srcOff := src.dataOff + r*src.stride
		dstOff := dst.dataOff + r*dst.stride
		copy(dst.data[dstOff:dstOff+src.cols], src.data[srcOff:srcOff+src.cols])
	}
}

// --- Pure Go CV operations ---

// reflectIndex maps idx into [0, size) mirroring around the edge pixels
// without repeating them (OpenCV BORDER_REFLECT_101).
func reflectIndex(idx, size int) int {
	if size == 1 {
		return 0
	}
	if idx < 0 {
		idx = -idx
	}
	for idx >= size {
		idx = 2*size - 2 - idx
		if idx < 0 {
			idx = -idx
		}
	}
	return idx
}

func sepFilter2DReflect(src Mat, dst *Mat, kernelX, kernelY []float64) {
	rows, cols := src.rows, src.cols
	srcData := src.DataFloat64()
	kxLen := len(kernelX)
	kyLen := len(kernelY)
	kxHalf := kxLen / 2
	kyHalf := kyLen / 2

	temp := make([]float64, rows*cols)

	// Horizontal pass; border columns go through reflectIndex.
	for r := 0; r < rows; r++ {
		rowOff := r * cols
		for c := 0; c < cols; c++ {
			var sum float64
			if c >= kxHalf && c < cols-kxHalf {
				base := rowOff + c - kxHalf
				for k := 0; k < kxLen; k++ {
					sum += srcData[base+k] * kernelX[k]
				}
			} else {
				for k := 0; k < kxLen; k++ {
					cc := reflectIndex(c+k-kxHalf, cols)
					sum += srcData[rowOff+cc] * kernelX[k]
				}
			}
			temp[rowOff+c] = sum
		}
	}

	if dst.rows != rows || dst.cols != cols || dst.data == nil {
		*dst = NewMatWithSize(rows, cols)
	}
	dstData := dst.DataFloat64()
	rowOffs := make([]int, kyLen)

	for r := 0; r < rows; r++ {
		for k := 0; k < kyLen; k++ {
			rowOffs[k] = reflectIndex(r+k-kyHalf, rows) * cols
		}
		dstOff := r * cols
		for c := 0; c < cols; c++ {
			var sum float64
			for k := 0; k < kyLen; k++ {
				sum += temp[rowOffs[k]+c] * kernelY[k]
			}
			dstData[dstOff+c] = sum
		}
	}
}

func getGaussianKernel1D(size int, sigma float64) []float64 {
	kernel := make([]float64, size)
	half := size / 2
	for i := 0; i < size; i++ {
		x := float64(i - half)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

func gaussianBlur(src Mat, dst *Mat, ksize int, sigma float64) {
	kernel := getGaussianKernel1D(ksize, sigma)
	sepFilter2DReflect(src, dst, kernel, kernel)
}

func thresholdBinary(src Mat, dst *Mat, thresh, maxval float64) {
	n := src.rows * src.cols
	sd := src.DataFloat64()
	if dst.rows != src.rows || dst.cols != src.cols || dst.data == nil {
		*dst = NewMatWithSize(src.rows, src.cols)
	}
	dd := dst.DataFloat64()
	for i := 0; i < n; i++ {
		if sd[i] > thresh {
			dd[i] = maxval
		} else {
			dd[i] = 0
		}
	}
}

type structOffset struct{ dr, dc int }

func structuringOffsets(shape StructuringShape, size int) []structOffset {
	half := size / 2
	var offsets []structOffset
	for dr := -half; dr <= half; dr++ {
		for dc := -half; dc <= half; dc++ {
			switch shape {
			case ShapeCross:
				if dr != 0 && dc != 0 {
					continue
				}
			case ShapeEllipse:
				if half > 0 {
					nr := float64(dr) / float64(half)
					nc := float64(dc) / float64(half)
					if nr*nr+nc*nc > 1.0 {
						continue
					}
				}
			}
			offsets = append(offsets, structOffset{dr, dc})
		}
	}
	return offsets
}

// rankFilter replaces each pixel with the min (erode) or max (dilate) over
// the structuring element. Out-of-image neighbours are ignored.
func rankFilter(current, result []float64, rows, cols int, offsets []structOffset, dilate bool) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := current[r*cols+c]
			for _, o := range offsets {
				rr, cc := r+o.dr, c+o.dc
				if rr < 0 || rr >= rows || cc < 0 || cc >= cols {
					continue
				}
				n := current[rr*cols+cc]
				if dilate && n > v || !dilate && n < v {
					v = n
				}
			}
			result[r*cols+c] = v
		}
	}
}

func morphologyEx(src Mat, dst *Mat, op MorphOp, shape StructuringShape, size, iterations int) {
	rows, cols := src.rows, src.cols
	offsets := structuringOffsets(shape, size)

	current := make([]float64, rows*cols)
	copy(current, src.DataFloat64())
	result := make([]float64, rows*cols)

	pass := func(dilate bool) {
		for iter := 0; iter < iterations; iter++ {
			rankFilter(current, result, rows, cols, offsets, dilate)
			current, result = result, current
		}
	}

	switch op {
	case MorphErode:
		pass(false)
	case MorphDilate:
		pass(true)
	case MorphOpen:
		pass(false)
		pass(true)
	default:
		pass(true)
		pass(false)
	}

	if dst.rows != rows || dst.cols != cols || dst.data == nil {
		*dst = NewMatWithSize(rows, cols)
	}
	copy(dst.DataFloat64(), current)
}

// findBlobs labels 8-connected foreground regions and measures each one
// with region moments.
func findBlobs(binary Mat) []blob {
	rows, cols := binary.rows, binary.cols
	data := binary.DataFloat64()
	visited := make([]bool, rows*cols)
	stack := make([]image.Point, 0, 256)

	var blobs []blob
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			idx := y*cols + x
			if data[idx] == 0 || visited[idx] {
				continue
			}
			visited[idx] = true
			stack = append(stack[:0], image.Pt(x, y))
			var pts []image.Point
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pts = append(pts, p)
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
							continue
						}
						nIdx := ny*cols + nx
						if data[nIdx] == 0 || visited[nIdx] {
							continue
						}
						visited[nIdx] = true
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}
			blobs = append(blobs, blob{
				points:  pts,
				moments: regionMoments(pts),
				bounds:  pointBounds(pts),
			})
		}
	}
	return blobs
}

// imWriteMat stores m as a 16-bit TIFF, min-max stretched.
func imWriteMat(path string, m Mat) error {
	data := m.Clone().DataFloat64()
	img := image.NewGray16(image.Rect(0, 0, m.cols, m.rows))
	lo, hi := 0.0, 0.0
	if len(data) > 0 {
		lo, hi = floats.Min(data), floats.Max(data)
	}
	scale := 0.0
	if hi > lo {
		scale = 65535 / (hi - lo)
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			v := (data[r*m.cols+c] - lo) * scale
			img.SetGray16(c, r, color.Gray16{Y: uint16(math.Round(v))})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return tiff.Encode(f, img, nil)
}

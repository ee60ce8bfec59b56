//go:build !purego && !js

package frst

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Mat wraps a single-channel CV_64F gocv.Mat for the native OpenCV backend.
type Mat struct {
	m gocv.Mat
}

func NewMat() Mat { return Mat{m: gocv.NewMat()} }

// NewMatWithSize returns a zero-filled rows x cols matrix.
func NewMatWithSize(rows, cols int) Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV64F)
	m.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return Mat{m: m}
}

func (mat Mat) Rows() int                    { return mat.m.Rows() }
func (mat Mat) Cols() int                    { return mat.m.Cols() }
func (mat Mat) Empty() bool                  { return mat.m.Empty() }
func (mat Mat) Clone() Mat                   { return Mat{m: mat.m.Clone()} }
func (mat *Mat) Close()                      { mat.m.Close() }
func (mat Mat) Region(r image.Rectangle) Mat { return Mat{m: mat.m.Region(r)} }

// DataFloat64 returns the backing float64 slice.
// Only valid for contiguous mats (not un-cloned sub-matrices from Region).
func (mat Mat) DataFloat64() []float64 {
	data, _ := mat.m.DataPtrFloat64()
	return data
}

func CopyMatTo(src Mat, dst *Mat) {
	src.m.CopyTo(&dst.m)
}

// --- CV operations ---

func gaussianBlur(src Mat, dst *Mat, ksize int, sigma float64) {
	gocv.GaussianBlur(src.m, &dst.m, image.Pt(ksize, ksize), sigma, sigma, gocv.BorderDefault)
}

func thresholdBinary(src Mat, dst *Mat, thresh, maxval float64) {
	gocv.Threshold(src.m, &dst.m, float32(thresh), float32(maxval), gocv.ThresholdBinary)
}

func morphologyEx(src Mat, dst *Mat, op MorphOp, shape StructuringShape, size, iterations int) {
	var cvShape gocv.MorphShape
	switch shape {
	case ShapeCross:
		cvShape = gocv.MorphCross
	case ShapeEllipse:
		cvShape = gocv.MorphEllipse
	default:
		cvShape = gocv.MorphRect
	}
	var cvOp gocv.MorphType
	switch op {
	case MorphErode:
		cvOp = gocv.MorphErode
	case MorphDilate:
		cvOp = gocv.MorphDilate
	case MorphOpen:
		cvOp = gocv.MorphOpen
	default:
		cvOp = gocv.MorphClose
	}
	kernel := gocv.GetStructuringElement(cvShape, image.Pt(size, size))
	defer kernel.Close()
	// BorderConstant selects OpenCV's morphology default border value, which
	// never wins a min/max comparison.
	gocv.MorphologyExWithParams(src.m, &dst.m, cvOp, kernel, iterations, gocv.BorderConstant)
}

// findBlobs extracts the outer contour of every connected foreground region
// and measures it with polygon moments.
func findBlobs(binary Mat) []blob {
	bin8 := gocv.NewMat()
	defer bin8.Close()
	binary.m.ConvertTo(&bin8, gocv.MatTypeCV8U)

	contours := gocv.FindContours(bin8, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	blobs := make([]blob, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pts := contours.At(i).ToPoints()
		if len(pts) == 0 {
			continue
		}
		blobs = append(blobs, blob{
			points:  pts,
			moments: polygonMoments(pts),
			bounds:  pointBounds(pts),
		})
	}
	return blobs
}

func imWriteMat(path string, m Mat) error {
	f32 := gocv.NewMat()
	defer f32.Close()
	m.m.ConvertTo(&f32, gocv.MatTypeCV32F)
	if ok := gocv.IMWrite(path, f32); !ok {
		return fmt.Errorf("could not write image: %s", path)
	}
	return nil
}

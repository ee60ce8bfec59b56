package frst

import (
	"errors"
	"testing"
)

func binaryMat(rows, cols int, on func(r, c int) bool) Mat {
	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if on(r, c) {
				data[r*cols+c] = 255
			}
		}
	}
	return newMatFromData(rows, cols, data)
}

func countOn(m Mat) int {
	n := 0
	for _, v := range m.DataFloat64()[:m.Rows()*m.Cols()] {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestMorphFilter_CloseFillsGap(t *testing.T) {
	// horizontal bar with a one-pixel break at column 4
	src := binaryMat(9, 9, func(r, c int) bool { return r >= 3 && r <= 5 && c >= 1 && c <= 7 && c != 4 })
	defer src.Close()

	dst := NewMat()
	defer dst.Close()
	MorphFilter{Op: MorphClose, Shape: ShapeRect, Size: 3, Iterations: 1}.Apply(src, &dst)

	if v := dst.DataFloat64()[4*9+4]; v != 255 {
		t.Errorf("gap pixel = %v, want 255", v)
	}
	if got := len(findBlobs(dst)); got != 1 {
		t.Errorf("blobs after close = %d, want 1", got)
	}
	if got := len(findBlobs(src)); got != 2 {
		t.Errorf("blobs before close = %d, want 2", got)
	}
}

func TestMorphFilter_ErodeShrinks(t *testing.T) {
	src := binaryMat(9, 9, func(r, c int) bool { return r >= 2 && r <= 6 && c >= 2 && c <= 6 })
	defer src.Close()

	dst := NewMat()
	defer dst.Close()
	MorphFilter{Op: MorphErode, Shape: ShapeRect, Size: 3, Iterations: 1}.Apply(src, &dst)
	if got := countOn(dst); got != 9 {
		t.Errorf("eroded pixels = %d, want 9", got)
	}

	twice := NewMat()
	defer twice.Close()
	MorphFilter{Op: MorphErode, Shape: ShapeRect, Size: 3, Iterations: 2}.Apply(src, &twice)
	if got := countOn(twice); got != 1 {
		t.Errorf("eroded twice = %d, want 1", got)
	}
}

func TestMorphFilter_DilateCross(t *testing.T) {
	src := binaryMat(7, 7, func(r, c int) bool { return r == 3 && c == 3 })
	defer src.Close()

	dst := NewMat()
	defer dst.Close()
	MorphFilter{Op: MorphDilate, Shape: ShapeCross, Size: 3, Iterations: 1}.Apply(src, &dst)
	if got := countOn(dst); got != 5 {
		t.Errorf("dilated pixels = %d, want 5", got)
	}
}

func TestMorphFilter_OpenRemovesSpeck(t *testing.T) {
	src := binaryMat(12, 12, func(r, c int) bool {
		return (r == 1 && c == 1) || (r >= 5 && r <= 9 && c >= 5 && c <= 9)
	})
	defer src.Close()

	dst := NewMat()
	defer dst.Close()
	MorphFilter{Op: MorphOpen, Shape: ShapeRect, Size: 3, Iterations: 1}.Apply(src, &dst)
	if v := dst.DataFloat64()[1*12+1]; v != 0 {
		t.Errorf("speck survived opening: %v", v)
	}
	if got := countOn(dst); got != 25 {
		t.Errorf("opened pixels = %d, want 25", got)
	}
}

func TestMorphFilter_EvenSizeRoundsUp(t *testing.T) {
	src := binaryMat(9, 9, func(r, c int) bool { return r >= 2 && r <= 6 && c >= 2 && c <= 6 })
	defer src.Close()

	even := NewMat()
	defer even.Close()
	MorphFilter{Op: MorphErode, Shape: ShapeRect, Size: 2}.Apply(src, &even)

	odd := NewMat()
	defer odd.Close()
	MorphFilter{Op: MorphErode, Shape: ShapeRect, Size: 3, Iterations: 1}.Apply(src, &odd)

	if d := maxAbsDiff(even.DataFloat64()[:81], odd.DataFloat64()[:81]); d != 0 {
		t.Errorf("size 2 differs from size 3 by %v", d)
	}
}

func TestParseMorph(t *testing.T) {
	for _, op := range []MorphOp{MorphErode, MorphDilate, MorphOpen, MorphClose} {
		got, err := ParseMorphOp(op.String())
		if err != nil || got != op {
			t.Errorf("ParseMorphOp(%q) = %v, %v", op.String(), got, err)
		}
	}
	for _, sh := range []StructuringShape{ShapeRect, ShapeCross, ShapeEllipse} {
		got, err := ParseStructuringShape(sh.String())
		if err != nil || got != sh {
			t.Errorf("ParseStructuringShape(%q) = %v, %v", sh.String(), got, err)
		}
	}
	if _, err := ParseMorphOp("tophat"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseMorphOp(tophat) err = %v", err)
	}
	if _, err := ParseStructuringShape("disk"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseStructuringShape(disk) err = %v", err)
	}
}

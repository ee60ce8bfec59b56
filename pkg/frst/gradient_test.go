package frst

import (
	"image"
	"testing"
)

func rampImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8(10*x + 50*y)
		}
	}
	return img
}

func TestComputeGradient_Ramp(t *testing.T) {
	g := ComputeGradient(rampImage(4, 4))
	if g.Rows != 4 || g.Cols != 4 {
		t.Fatalf("size = %dx%d, want 4x4", g.Cols, g.Rows)
	}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			dx, dy := g.At(row, col)
			wantDX, wantDY := 10.0, 50.0
			if col == 0 || col == 3 {
				wantDX = 0
			}
			if row == 0 || row == 3 {
				wantDY = 0
			}
			if dx != wantDX || dy != wantDY {
				t.Errorf("At(%d,%d) = (%v,%v), want (%v,%v)", row, col, dx, dy, wantDX, wantDY)
			}
		}
	}
}

func TestComputeGradient_SubImage(t *testing.T) {
	full := rampImage(6, 6)
	sub := full.SubImage(image.Rect(1, 1, 5, 5)).(*image.Gray)

	g := ComputeGradient(sub)
	if g.Rows != 4 || g.Cols != 4 {
		t.Fatalf("size = %dx%d, want 4x4", g.Cols, g.Rows)
	}
	if dx, dy := g.At(1, 1); dx != 10 || dy != 50 {
		t.Errorf("At(1,1) = (%v,%v), want (10,50)", dx, dy)
	}
	if dx, _ := g.At(1, 0); dx != 0 {
		t.Errorf("left border DX = %v, want 0", dx)
	}
}

func TestComputeGradient_Tiny(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"single pixel", 1, 1},
		{"single row", 5, 1},
		{"single column", 1, 5},
		{"two by two", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := rampImage(tt.w, tt.h)
			g := ComputeGradient(img)
			for i := range g.DX {
				if g.DX[i] != 0 && (tt.w < 3) {
					t.Errorf("DX[%d] = %v, want 0", i, g.DX[i])
				}
				if g.DY[i] != 0 && (tt.h < 3) {
					t.Errorf("DY[%d] = %v, want 0", i, g.DY[i])
				}
			}
		})
	}
}

func TestComputeGradient_WorkersMatch(t *testing.T) {
	img := makeDisk(31, 23, 14, 11, 7, 220, 20)
	want := computeGradient(img, 1)
	for _, workers := range []int{2, 3, 8, 100} {
		got := computeGradient(img, workers)
		if maxAbsDiff(got.DX, want.DX) != 0 || maxAbsDiff(got.DY, want.DY) != 0 {
			t.Errorf("workers=%d: gradient differs from single-threaded result", workers)
		}
	}
}

func TestSplitBands(t *testing.T) {
	tests := []struct {
		rows, workers int
		wantBands     int
	}{
		{10, 1, 1},
		{10, 0, 1},
		{10, 3, 3},
		{10, 10, 10},
		{3, 8, 3},
	}

	for _, tt := range tests {
		bands := splitBands(tt.rows, tt.workers)
		if len(bands) != tt.wantBands {
			t.Errorf("splitBands(%d,%d) = %d bands, want %d", tt.rows, tt.workers, len(bands), tt.wantBands)
			continue
		}
		next := 0
		for _, b := range bands {
			if b[0] != next || b[1] <= b[0] {
				t.Errorf("splitBands(%d,%d): band %v not contiguous", tt.rows, tt.workers, b)
			}
			next = b[1]
		}
		if next != tt.rows {
			t.Errorf("splitBands(%d,%d) covers %d rows", tt.rows, tt.workers, next)
		}
	}
}

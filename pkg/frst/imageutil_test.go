package frst

import (
	"image"
	"image/color"
	"testing"
)

func TestOtsuLevel_Bimodal(t *testing.T) {
	values := make([]float64, 0, 200)
	for i := 0; i < 100; i++ {
		values = append(values, 10, 200)
	}
	level := otsuLevel(values)
	if level < 10 || level >= 200 {
		t.Errorf("level = %v, want in [10, 200)", level)
	}
}

func TestOtsuLevel_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"empty", nil},
		{"all zero", make([]float64, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := otsuLevel(tt.values); got != 0 {
				t.Errorf("level = %v, want 0", got)
			}
		})
	}
}

func TestNormalizeToByteRange(t *testing.T) {
	got := normalizeToByteRange([]float64{2, 4, 6})
	want := []float64{0, 128, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	for i, v := range normalizeToByteRange([]float64{3, 3, 3}) {
		if v != 0 {
			t.Errorf("flat[%d] = %v, want 0", i, v)
		}
	}
}

func TestGrayFromSamples(t *testing.T) {
	tests := []struct {
		name     string
		samples  []uint16
		bitDepth int
		stretch  bool
		want     []uint8
	}{
		{"8-bit passthrough", []uint16{0, 128, 255}, 8, false, []uint8{0, 128, 255}},
		{"16-bit full range", []uint16{0, 65535, 257}, 16, false, []uint8{0, 255, 1}},
		{"16-bit stretch", []uint16{1000, 3000, 2000}, 16, true, []uint8{0, 255, 128}},
		{"flat stretch", []uint16{500, 500, 500}, 16, true, []uint8{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := GrayFromSamples(tt.samples, tt.bitDepth, 3, 1, tt.stretch)
			for i, want := range tt.want {
				if got := img.GrayAt(i, 0).Y; got != want {
					t.Errorf("pixel %d = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestGrayFromImage(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(5, 5, 8, 7))
	rgba.Set(5, 5, color.RGBA{255, 255, 255, 255})
	rgba.Set(7, 6, color.RGBA{0, 0, 0, 255})

	gray := GrayFromImage(rgba)
	if gray.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v, want 3x2 at origin", gray.Bounds())
	}
	if gray.GrayAt(0, 0).Y != 255 || gray.GrayAt(2, 1).Y != 0 {
		t.Errorf("unexpected pixels %v", gray.Pix)
	}

	already := image.NewGray(image.Rect(0, 0, 2, 2))
	if GrayFromImage(already) != already {
		t.Error("expected *image.Gray to be returned unchanged")
	}
}

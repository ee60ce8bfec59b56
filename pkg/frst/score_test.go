package frst

import (
	"math"
	"testing"
)

func TestCombineScores(t *testing.T) {
	count := newMatFromData(2, 2, []float64{0, -2, 1, 0})
	magnitude := newMatFromData(2, 2, []float64{0, -4, 2, 0})
	defer count.Close()
	defer magnitude.Close()

	score := combineScores(count, magnitude, 2)
	defer score.Close()

	want := []float64{0, 1, 0.125, 0}
	got := score.DataFloat64()[:4]
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("score[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCombineScores_AlphaOnlyOnCounts(t *testing.T) {
	count := newMatFromData(1, 2, []float64{1, 2})
	magnitude := newMatFromData(1, 2, []float64{4, 4})
	defer count.Close()
	defer magnitude.Close()

	score := combineScores(count, magnitude, 3)
	defer score.Close()

	// counts 0.5 and 1, magnitudes both 1
	got := score.DataFloat64()[:2]
	if math.Abs(got[0]-0.125) > 1e-12 || math.Abs(got[1]-1) > 1e-12 {
		t.Errorf("score = %v, want [0.125 1]", got)
	}
}

func TestCombineScores_NoVotes(t *testing.T) {
	count := NewMatWithSize(3, 3)
	magnitude := NewMatWithSize(3, 3)
	defer count.Close()
	defer magnitude.Close()

	score := combineScores(count, magnitude, 2)
	defer score.Close()

	for i, v := range score.DataFloat64()[:9] {
		if v != 0 {
			t.Errorf("score[%d] = %v, want 0", i, v)
		}
	}
}

func TestNormalizeAbs(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"mixed signs", []float64{-4, 2, 0, 1}, []float64{1, 0.5, 0, 0.25}},
		{"all zero", []float64{0, 0, 0}, []float64{0, 0, 0}},
		{"single", []float64{-3}, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]float64(nil), tt.in...)
			normalizeAbs(data)
			for i := range tt.want {
				if data[i] != tt.want[i] {
					t.Errorf("got %v, want %v", data, tt.want)
					break
				}
			}
		})
	}
}

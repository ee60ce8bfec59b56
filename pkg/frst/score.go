package frst

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// combineScores normalises the count and magnitude canvases independently,
// raises the counts to alpha and multiplies the two. Both inputs are
// overwritten with their normalised absolute values.
func combineScores(count, magnitude Mat, alpha float64) Mat {
	countData := count.DataFloat64()
	magData := magnitude.DataFloat64()
	n := count.Rows() * count.Cols()
	countData, magData = countData[:n], magData[:n]

	normalizeAbs(countData)
	normalizeAbs(magData)

	score := NewMatWithSize(count.Rows(), count.Cols())
	scoreData := score.DataFloat64()[:n]
	for i, c := range countData {
		scoreData[i] = math.Pow(c, alpha)
	}
	floats.Mul(scoreData, magData)
	return score
}

// normalizeAbs replaces data with |data| / max|data|. A canvas that received
// no votes stays all zero.
func normalizeAbs(data []float64) {
	for i, v := range data {
		data[i] = math.Abs(v)
	}
	maxVal := floats.Max(data)
	if maxVal == 0 {
		return
	}
	floats.Scale(1/maxVal, data)
}

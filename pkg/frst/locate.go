package frst

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
)

// Locate runs the transform and turns its response into point markers:
// min-max normalisation to 8 bits, a global Otsu threshold, a morphology
// pass (closing by default) and one centroid per external blob.
//
// Cancellation is checked between stages. A degenerate image yields no
// markers and no error.
func Locate(ctx context.Context, img *image.Gray, lp *LocateParams) (*LocateResult, error) {
	if lp == nil {
		lp = NewLocateParams()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maybeSaveText(lp.SaveIntermediateFilesPath, "00-params.txt",
		fmt.Sprintf("Params: Radius=%d, Radii=%v, Alpha=%f, StdFactor=%f, Mode=%s, Morph=%s/%s/%d x%d, MinArea=%f",
			lp.Transform.Radius, lp.Radii, lp.Transform.Alpha, lp.Transform.StdFactor, lp.Transform.Mode,
			lp.Morph.Op, lp.Morph.Shape, lp.Morph.Size, lp.Morph.Iterations, lp.MinArea))

	var score *ScoreMap
	var err error
	if len(lp.Radii) > 0 {
		score, err = TransformMulti(img, lp.Radii, lp.Transform)
	} else {
		score, err = Transform(img, lp.Transform)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, cols := score.Height, score.Width
	scoreMat := newMatFromData(rows, cols, score.Data)
	defer scoreMat.Close()
	maybeSaveImage(scoreMat, lp.SaveIntermediateFilesPath, "01-score.tif")

	// Step 1: 8-bit normalisation and Otsu binarisation
	normalized := newMatFromData(rows, cols, normalizeToByteRange(score.Data))
	defer normalized.Close()
	maybeSaveImage(normalized, lp.SaveIntermediateFilesPath, "02-normalized.tif")

	level := otsuLevel(normalized.DataFloat64()[:rows*cols])
	binary := NewMat()
	defer binary.Close()
	thresholdBinary(normalized, &binary, level, 255)
	maybeSaveImage(binary, lp.SaveIntermediateFilesPath, "03-binary.tif")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: consolidate blobs
	consolidated := NewMat()
	defer consolidated.Close()
	lp.Morph.Apply(binary, &consolidated)
	maybeSaveImage(consolidated, lp.SaveIntermediateFilesPath, "04-morph.tif")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: one marker per blob
	metrics := &LocateMetrics{}
	markers := make([]Marker, 0)
	for _, b := range findBlobs(consolidated) {
		metrics.Blobs++
		center, ok := b.centroid()
		if !ok {
			metrics.Degenerate++
		}
		if b.moments.M00 < lp.MinArea {
			metrics.TooSmall++
			continue
		}
		markers = append(markers, Marker{
			Center: center,
			Area:   b.moments.M00,
			Bounds: b.bounds,
			Peak:   peakWithin(score, b.bounds),
		})
	}
	sort.SliceStable(markers, func(i, j int) bool {
		if markers[i].Peak != markers[j].Peak {
			return markers[i].Peak > markers[j].Peak
		}
		if markers[i].Center.Y != markers[j].Center.Y {
			return markers[i].Center.Y < markers[j].Center.Y
		}
		return markers[i].Center.X < markers[j].Center.X
	})

	return &LocateResult{
		Score:     score,
		Threshold: level,
		Markers:   markers,
		Metrics:   metrics,
	}, nil
}

func peakWithin(score *ScoreMap, r image.Rectangle) float64 {
	r = r.Intersect(image.Rect(0, 0, score.Width, score.Height))
	peak := 0.0
	first := true
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if v := score.At(x, y); first || v > peak {
				peak = v
				first = false
			}
		}
	}
	return peak
}

func newMatFromData(rows, cols int, data []float64) Mat {
	m := NewMatWithSize(rows, cols)
	copy(m.DataFloat64(), data)
	return m
}

func maybeSaveImage(img Mat, savePath, filename string) {
	if savePath == "" {
		return
	}
	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		return
	}
	_ = imWriteMat(filepath.Join(savePath, filename), img)
}

func maybeSaveText(savePath, filename, text string) {
	if savePath == "" {
		return
	}
	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		return
	}
	_ = os.WriteFile(filepath.Join(savePath, filename), []byte(text), 0644)
}

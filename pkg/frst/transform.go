package frst

import (
	"fmt"
	"image"
)

// Transform computes the fast radial symmetry transform of img for a single
// radius (Loy & Zelinsky, ECCV 2002).
//
// The returned map has the same size as img and is not normalised. An image
// without gradients yields an all-zero map. Invalid parameters fail with an
// error wrapping ErrInvalidParameter before any work is done.
func Transform(img *image.Gray, p Params) (*ScoreMap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, invalid("image", "empty", "must have positive width and height")
	}
	bright, dark, _ := p.Mode.polarity()

	g := computeGradient(img, p.Workers)

	count, magnitude := accumulateVotes(g, p.Radius, bright, dark, p.Workers)
	defer count.Close()
	defer magnitude.Close()

	score := combineScores(count, magnitude, p.Alpha)
	defer score.Close()

	return smoothAndCrop(score, p.Radius, p.StdFactor, g.Rows, g.Cols), nil
}

// TransformMulti sums one Transform per radius. All other settings come
// from p; p.Radius is ignored.
func TransformMulti(img *image.Gray, radii []int, p Params) (*ScoreMap, error) {
	if len(radii) == 0 {
		return nil, invalid("radii", radii, "must not be empty")
	}
	for _, r := range radii {
		p.Radius = r
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	var total *ScoreMap
	for _, r := range radii {
		p.Radius = r
		s, err := Transform(img, p)
		if err != nil {
			return nil, fmt.Errorf("radius %d: %w", r, err)
		}
		if total == nil {
			total = s
			continue
		}
		if err := total.Add(s); err != nil {
			return nil, err
		}
	}
	return total, nil
}

package frst

import "image"

// KernelSize returns the odd Gaussian kernel size used for a radius:
// ceil(radius/2), bumped to the next odd number when even.
func KernelSize(radius int) int {
	k := (radius + 1) / 2
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	return k
}

// smoothAndCrop blurs the padded score canvas and cuts the rows x cols
// image area back out of it.
func smoothAndCrop(score Mat, radius int, stdFactor float64, rows, cols int) *ScoreMap {
	blurred := NewMat()
	defer blurred.Close()
	gaussianBlur(score, &blurred, KernelSize(radius), float64(radius)*stdFactor)

	view := blurred.Region(image.Rect(radius, radius, radius+cols, radius+rows))
	cropped := view.Clone()
	view.Close()
	defer cropped.Close()

	out := &ScoreMap{Width: cols, Height: rows, Data: make([]float64, rows*cols)}
	copy(out.Data, cropped.DataFloat64())
	return out
}

//go:build !purego && !js

package main

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func loadGrayImage(path string) (*image.Gray, error) {
	src := gocv.IMRead(path, gocv.IMReadGrayScale)
	if src.Empty() {
		return nil, fmt.Errorf("could not load image: %s", path)
	}
	defer src.Close()

	data, err := src.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("reading pixels of %s: %w", path, err)
	}
	w, h := src.Cols(), src.Rows()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	copy(gray.Pix, data[:w*h])
	return gray, nil
}

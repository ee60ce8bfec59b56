//go:build purego || js

package main

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"frst/pkg/frst"
)

func loadGrayImage(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return frst.GrayFromImage(imaging.Grayscale(img)), nil
}

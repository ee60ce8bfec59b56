package frst

// DebayerRGGB bilinearly interpolates a raw RGGB Bayer frame and returns
// its luminance, (R + G + B) / 3 per pixel, at the input bit depth.
//
// RGGB layout (row-major, 0-indexed):
//
//	(even row, even col) = R
//	(even row, odd  col) = G  (Gr)
//	(odd  row, even col) = G  (Gb)
//	(odd  row, odd  col) = B
//
// Edge pixels use clamped (replicated) neighbour lookups.
func DebayerRGGB(raw []uint16, width, height int) []uint16 {
	out := make([]uint16, width*height)

	px := func(x, y int) float64 {
		x = min(max(x, 0), width-1)
		y = min(max(y, 0), height-1)
		return float64(raw[y*width+x])
	}
	cross := func(x, y int) float64 {
		return (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
	}
	diagonal := func(x, y int) float64 {
		return (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
	}

	for y := 0; y < height; y++ {
		evenRow := y%2 == 0
		for x := 0; x < width; x++ {
			evenCol := x%2 == 0
			var r, g, b float64

			switch {
			case evenRow && evenCol:
				r, g, b = px(x, y), cross(x, y), diagonal(x, y)
			case evenRow:
				r = (px(x-1, y) + px(x+1, y)) / 2
				g = px(x, y)
				b = (px(x, y-1) + px(x, y+1)) / 2
			case evenCol:
				r = (px(x, y-1) + px(x, y+1)) / 2
				g = px(x, y)
				b = (px(x-1, y) + px(x+1, y)) / 2
			default:
				r, g, b = diagonal(x, y), cross(x, y), px(x, y)
			}

			out[y*width+x] = uint16((r+g+b)/3 + 0.5)
		}
	}
	return out
}

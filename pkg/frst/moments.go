package frst

import (
	"image"
	"math"
)

// blob is one connected foreground region as reported by a backend.
type blob struct {
	points  []image.Point
	moments spatialMoments
	bounds  image.Rectangle
}

type spatialMoments struct {
	M00, M10, M01 float64
}

// centroid returns m10/m00, m01/m00. Zero-area blobs (a single point or a
// line contour) fall back to the mean of their points and report ok=false.
func (b blob) centroid() (c Point2d, ok bool) {
	if math.Abs(b.moments.M00) > 1e-12 {
		return Point2d{X: b.moments.M10 / b.moments.M00, Y: b.moments.M01 / b.moments.M00}, true
	}
	for _, p := range b.points {
		c.X += float64(p.X)
		c.Y += float64(p.Y)
	}
	n := float64(len(b.points))
	return Point2d{X: c.X / n, Y: c.Y / n}, false
}

// polygonMoments computes area moments of a closed polygon by Green's
// theorem. The sign is normalised so clockwise and counter-clockwise
// contours give the same result.
func polygonMoments(pts []image.Point) spatialMoments {
	var a00, a10, a01 float64
	n := len(pts)
	for i := 0; i < n; i++ {
		x0, y0 := float64(pts[i].X), float64(pts[i].Y)
		x1, y1 := float64(pts[(i+1)%n].X), float64(pts[(i+1)%n].Y)
		cross := x0*y1 - x1*y0
		a00 += cross
		a10 += cross * (x0 + x1)
		a01 += cross * (y0 + y1)
	}
	m := spatialMoments{M00: a00 / 2, M10: a10 / 6, M01: a01 / 6}
	if m.M00 < 0 {
		m.M00, m.M10, m.M01 = -m.M00, -m.M10, -m.M01
	}
	return m
}

// regionMoments treats every point as a unit-mass pixel.
func regionMoments(pts []image.Point) spatialMoments {
	var m spatialMoments
	for _, p := range pts {
		m.M00++
		m.M10 += float64(p.X)
		m.M01 += float64(p.Y)
	}
	return m
}

func pointBounds(pts []image.Point) image.Rectangle {
	r := image.Rect(pts[0].X, pts[0].Y, pts[0].X+1, pts[0].Y+1)
	for _, p := range pts[1:] {
		r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}
	return r
}

package frst

// Morphology transforms a binary or grayscale Mat.
type Morphology interface {
	Apply(src Mat, dst *Mat)
}

// MorphFilter applies one morphology operation with a square-bounded
// structuring element. Even sizes are bumped to the next odd size.
type MorphFilter struct {
	Op         MorphOp
	Shape      StructuringShape
	Size       int
	Iterations int
}

var _ Morphology = MorphFilter{}

func (f MorphFilter) Apply(src Mat, dst *Mat) {
	size := f.Size
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	iterations := f.Iterations
	if iterations < 1 {
		iterations = 1
	}
	morphologyEx(src, dst, f.Op, f.Shape, size, iterations)
}

// ParseMorphOp accepts "erode", "dilate", "open" or "close".
func ParseMorphOp(s string) (MorphOp, error) {
	for _, op := range []MorphOp{MorphErode, MorphDilate, MorphOpen, MorphClose} {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, invalid("morph", s, "must be one of erode, dilate, open, close")
}

// ParseStructuringShape accepts "rect", "cross" or "ellipse".
func ParseStructuringShape(s string) (StructuringShape, error) {
	for _, sh := range []StructuringShape{ShapeRect, ShapeCross, ShapeEllipse} {
		if sh.String() == s {
			return sh, nil
		}
	}
	return 0, invalid("shape", s, "must be one of rect, cross, ellipse")
}

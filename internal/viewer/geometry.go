package viewer

// Bounds is a vertical span measured in terminal lines.
type Bounds struct {
	Top    int
	Height int
}

// Bottom is the first line below the span.
func (b Bounds) Bottom() int {
	return b.Top + b.Height
}

func (b Bounds) overlap(root Bounds) int {
	top := max(b.Top, root.Top)
	bottom := min(b.Bottom(), root.Bottom())
	if bottom <= top {
		return 0
	}
	return bottom - top
}

// IntersectionRatio reports the fraction of target that lies inside root.
func IntersectionRatio(target, root Bounds) float64 {
	if target.Height <= 0 {
		return 0
	}
	return float64(target.overlap(root)) / float64(target.Height)
}

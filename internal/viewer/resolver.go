package viewer

import "math"

// ResolveCurrentPage picks the page whose top edge is closest to the top of
// the viewport. The first target wins ties; an empty list resolves to page 1.
func ResolveCurrentPage(targets []Target, viewportTop int) int {
	closest := 1
	best := math.MaxInt
	for _, target := range targets {
		distance := target.Bounds().Top - viewportTop
		if distance < 0 {
			distance = -distance
		}
		if distance < best {
			best = distance
			closest = target.PageNumber()
		}
	}
	return closest
}

package viewer

type fakeRoot struct {
	top    int
	height int
}

func (r *fakeRoot) Bounds() Bounds { return Bounds{Top: r.top, Height: r.height} }

type fakePage struct {
	number int
	top    int
	height int
}

func (p *fakePage) PageNumber() int { return p.number }
func (p *fakePage) Bounds() Bounds  { return Bounds{Top: p.top, Height: p.height} }

// stackedPages lays out count pages of equal height with a one line gap.
func stackedPages(count, height int) []Target {
	targets := make([]Target, 0, count)
	top := 0
	for i := 1; i <= count; i++ {
		targets = append(targets, &fakePage{number: i, top: top, height: height})
		top += height + 1
	}
	return targets
}

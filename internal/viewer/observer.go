package viewer

// Root is the scrollable container whose bounds define what is on screen.
// Implementations must be comparable; pointer types are expected.
type Root interface {
	Bounds() Bounds
}

// Target is one rendered page element, keyed by its page number.
type Target interface {
	PageNumber() int
	Bounds() Bounds
}

// Entry describes one target whose intersecting state changed.
type Entry struct {
	Page         int
	Intersecting bool
	Ratio        float64
	Target       Target
}

// Callback receives every change detected by one Check in a single batch.
type Callback func(entries []Entry)

type observation struct {
	target       Target
	reported     bool
	intersecting bool
}

// Observer tracks the intersection of page targets with a root. Changes are
// delivered in batches from Check, never one target at a time.
type Observer struct {
	root      Root
	threshold float64
	callback  Callback
	observed  []observation
	closed    bool
}

// NewObserver builds an observer for root. A target counts as intersecting
// once at least threshold of its height is inside the root, or once it fills
// more than threshold of the root. The second rule keeps pages taller than
// the root visible while they cover it.
func NewObserver(root Root, threshold float64, callback Callback) *Observer {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	return &Observer{root: root, threshold: threshold, callback: callback}
}

// Root returns the container this observer was created for.
func (o *Observer) Root() Root {
	return o.root
}

// Observe starts tracking target. A target with the same page number replaces
// the previous one and keeps its last reported state.
func (o *Observer) Observe(target Target) {
	if o.closed || target == nil {
		return
	}
	page := target.PageNumber()
	for i := range o.observed {
		if o.observed[i].target.PageNumber() == page {
			o.observed[i].target = target
			return
		}
	}
	o.observed = append(o.observed, observation{target: target})
}

// Unobserve stops tracking the target for page.
func (o *Observer) Unobserve(page int) {
	for i := range o.observed {
		if o.observed[i].target.PageNumber() == page {
			o.observed = append(o.observed[:i], o.observed[i+1:]...)
			return
		}
	}
}

// Targets lists the currently observed targets in registration order.
func (o *Observer) Targets() []Target {
	targets := make([]Target, 0, len(o.observed))
	for _, obs := range o.observed {
		targets = append(targets, obs.target)
	}
	return targets
}

// Check measures every target and delivers the changed ones. Targets that
// were never reported are always included.
func (o *Observer) Check() {
	if o.closed || o.root == nil || len(o.observed) == 0 {
		return
	}
	rootBounds := o.root.Bounds()
	var entries []Entry
	for i := range o.observed {
		obs := &o.observed[i]
		bounds := obs.target.Bounds()
		ratio := IntersectionRatio(bounds, rootBounds)
		intersecting := o.intersects(bounds, rootBounds, ratio)
		if obs.reported && obs.intersecting == intersecting {
			continue
		}
		obs.reported = true
		obs.intersecting = intersecting
		entries = append(entries, Entry{
			Page:         obs.target.PageNumber(),
			Intersecting: intersecting,
			Ratio:        ratio,
			Target:       obs.target,
		})
	}
	if len(entries) > 0 && o.callback != nil {
		o.callback(entries)
	}
}

func (o *Observer) intersects(target, root Bounds, ratio float64) bool {
	overlap := target.overlap(root)
	if overlap <= 0 {
		return false
	}
	if ratio >= o.threshold {
		return true
	}
	return float64(overlap) > o.threshold*float64(root.Height)
}

// Disconnect releases every target. The callback never fires afterwards.
func (o *Observer) Disconnect() {
	o.closed = true
	o.observed = nil
}

// Closed reports whether Disconnect was called.
func (o *Observer) Closed() bool {
	return o.closed
}

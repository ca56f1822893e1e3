package viewer

import "testing"

func TestIntersectionRatio(t *testing.T) {
	t.Parallel()

	root := Bounds{Top: 10, Height: 20}
	cases := []struct {
		name   string
		target Bounds
		want   float64
	}{
		{"inside", Bounds{Top: 12, Height: 5}, 1},
		{"above", Bounds{Top: 0, Height: 10}, 0},
		{"below", Bounds{Top: 30, Height: 10}, 0},
		{"straddles top", Bounds{Top: 5, Height: 10}, 0.5},
		{"covers root", Bounds{Top: 0, Height: 40}, 0.5},
		{"empty", Bounds{Top: 12, Height: 0}, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IntersectionRatio(tc.target, root); got != tc.want {
				t.Fatalf("IntersectionRatio(%+v) = %v, want %v", tc.target, got, tc.want)
			}
		})
	}
}

func TestObserverReportsInitialStateThenOnlyChanges(t *testing.T) {
	t.Parallel()

	root := &fakeRoot{top: 0, height: 10}
	var batches [][]Entry
	obs := NewObserver(root, 0.1, func(entries []Entry) {
		batches = append(batches, entries)
	})
	for _, target := range stackedPages(3, 10) {
		obs.Observe(target)
	}

	obs.Check()
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("expected one initial batch with 3 entries, got %#v", batches)
	}
	if !batches[0][0].Intersecting || batches[0][1].Intersecting || batches[0][2].Intersecting {
		t.Fatalf("unexpected initial states: %#v", batches[0])
	}

	obs.Check()
	if len(batches) != 1 {
		t.Fatalf("unchanged geometry must not fire, got %d batches", len(batches))
	}

	root.top = 8
	obs.Check()
	if len(batches) != 2 {
		t.Fatalf("expected a second batch after scrolling, got %d", len(batches))
	}
	if len(batches[1]) != 1 || batches[1][0].Page != 2 || !batches[1][0].Intersecting {
		t.Fatalf("expected page 2 to become visible, got %#v", batches[1])
	}
}

func TestObserverThresholdExcludesSlivers(t *testing.T) {
	t.Parallel()

	root := &fakeRoot{top: 0, height: 10}
	var last []Entry
	obs := NewObserver(root, 0.1, func(entries []Entry) { last = entries })
	// Only one of twenty lines is inside the root: 5%.
	obs.Observe(&fakePage{number: 1, top: 9, height: 20})
	obs.Check()
	if len(last) != 1 || last[0].Intersecting {
		t.Fatalf("sliver below threshold should not intersect: %#v", last)
	}
}

func TestObserverCountsPagesTallerThanRoot(t *testing.T) {
	t.Parallel()

	root := &fakeRoot{top: 100, height: 15}
	var last []Entry
	obs := NewObserver(root, 0.1, func(entries []Entry) { last = entries })
	// 15 of 200 lines is 7.5% of the page but the whole root.
	obs.Observe(&fakePage{number: 2, top: 31, height: 200})
	obs.Check()
	if len(last) != 1 || !last[0].Intersecting {
		t.Fatalf("page filling the root should intersect: %#v", last)
	}

	// One line of a tall page peeking into the root is still a sliver.
	root.top = 230
	obs.Check()
	if len(last) != 1 || last[0].Intersecting {
		t.Fatalf("one line of a tall page should not intersect: %#v", last)
	}
}

func TestObserverDisconnectSilencesCallback(t *testing.T) {
	t.Parallel()

	root := &fakeRoot{top: 0, height: 10}
	calls := 0
	obs := NewObserver(root, 0.1, func([]Entry) { calls++ })
	obs.Observe(&fakePage{number: 1, top: 0, height: 5})
	obs.Disconnect()
	obs.Check()
	obs.Observe(&fakePage{number: 2, top: 0, height: 5})
	obs.Check()
	if calls != 0 {
		t.Fatalf("callback fired %d times after disconnect", calls)
	}
	if !obs.Closed() || len(obs.Targets()) != 0 {
		t.Fatal("disconnect should release all targets")
	}
}

func TestObserverReplacesTargetWithSamePageNumber(t *testing.T) {
	t.Parallel()

	obs := NewObserver(&fakeRoot{height: 10}, 0.1, nil)
	obs.Observe(&fakePage{number: 1, top: 0, height: 5})
	obs.Observe(&fakePage{number: 1, top: 40, height: 5})
	targets := obs.Targets()
	if len(targets) != 1 || targets[0].Bounds().Top != 40 {
		t.Fatalf("expected replacement keyed by page number, got %#v", targets)
	}
	obs.Unobserve(1)
	if len(obs.Targets()) != 0 {
		t.Fatal("unobserve should drop the target")
	}
}

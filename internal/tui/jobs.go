package tui

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/docdesk/internal/logger"
)

type jobKind string

type jobStatus string

const (
	jobKindHealth     jobKind = "health"
	jobKindFetch      jobKind = "fetch"
	jobKindUpload     jobKind = "upload"
	jobKindOpen       jobKind = "open"
	jobKindHistory    jobKind = "history"
	jobKindChat       jobKind = "chat"
	jobKindClear      jobKind = "clear"
	jobKindTranslate  jobKind = "translate"
	jobKindSelection  jobKind = "selection"
	jobKindScreenshot jobKind = "screenshot"
	jobKindRecents    jobKind = "recents"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		ctx := context.Background()
		payload, err := runner(ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		entry := logger.Named("jobs").WithField("job", id).WithField("duration", snapshot.Duration)
		if err != nil {
			entry.WithError(err).Warnf("%s %s", kind, snapshot.Status)
		} else {
			entry.Debugf("%s %s", kind, snapshot.Status)
		}
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

// jobTracker counts running jobs per kind for the spinner and status bar.
type jobTracker struct {
	running map[jobKind]int
}

func newJobTracker() jobTracker {
	return jobTracker{running: map[jobKind]int{}}
}

func (t *jobTracker) observe(s jobSnapshot) {
	switch s.Status {
	case jobStatusRunning:
		t.running[s.Kind]++
	default:
		if t.running[s.Kind] > 0 {
			t.running[s.Kind]--
		}
	}
}

func (t *jobTracker) any() bool {
	for _, n := range t.running {
		if n > 0 {
			return true
		}
	}
	return false
}

// badges names the running jobs in a stable order.
func (t *jobTracker) badges() []string {
	var out []string
	for kind, n := range t.running {
		if n > 0 {
			out = append(out, string(kind))
		}
	}
	sort.Strings(out)
	return out
}

package summary

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

//*******************************************
// stage timer
//*******************************************

// Stage is the duration of one finished pipeline stage. Depth is the nesting
// level at which it was started.
type Stage struct {
	Name    string  `json:"name"`
	Depth   int     `json:"depth"`
	Seconds float64 `json:"seconds"`
}

type openStage struct {
	name  string
	start time.Time
}

// Timer measures nested pipeline stages. It is not safe for concurrent use.
type Timer struct {
	start  time.Time
	open   []openStage
	stages []Stage
	now    func() time.Time
}

func NewTimer() *Timer {
	return newTimerWithClock(time.Now)
}

func newTimerWithClock(now func() time.Time) *Timer {
	return &Timer{
		start:  now(),
		open:   make([]openStage, 0, 4),
		stages: make([]Stage, 0, 16),
		now:    now,
	}
}

// Start opens a stage nested inside the currently open one.
func (t *Timer) Start(name string) {
	slog.Info(fmt.Sprintf("%s%s", strings.Repeat("  ", len(t.open)), name))
	t.open = append(t.open, openStage{name: name, start: t.now()})
}

// Stop closes the innermost open stage and returns its duration. Stopping
// without an open stage is a no-op.
func (t *Timer) Stop() time.Duration {
	if len(t.open) == 0 {
		return 0
	}
	last := t.open[len(t.open)-1]
	t.open = t.open[:len(t.open)-1]
	elapsed := t.now().Sub(last.start)
	t.stages = append(t.stages, Stage{
		Name:    last.name,
		Depth:   len(t.open),
		Seconds: elapsed.Seconds(),
	})
	slog.Info(fmt.Sprintf("%s%s took %v", strings.Repeat("  ", len(t.open)), last.name, elapsed.Round(time.Millisecond)))
	return elapsed
}

// Stages returns the finished stages in the order they were stopped.
func (t *Timer) Stages() []Stage {
	return append([]Stage(nil), t.stages...)
}

// Current returns the innermost open stage, or "" if none is open.
func (t *Timer) Current() string {
	if len(t.open) == 0 {
		return ""
	}
	return t.open[len(t.open)-1].name
}

// Total is the time since the timer was created.
func (t *Timer) Total() time.Duration {
	return t.now().Sub(t.start)
}

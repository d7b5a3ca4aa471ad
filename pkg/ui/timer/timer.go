// Package timer provides wall-clock timing for multi-stage command runs.
package timer

import "time"

// Timer tracks the total elapsed time of a run and the elapsed time of the
// current stage. Stages are advanced explicitly with NewStage so each
// pipeline step can report its own duration alongside the running total.
type Timer interface {
	// Start begins timing. Calling Start again resets both the total and
	// the current stage.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the
	// current stage.
	GetTiming() (total, stage time.Duration)
}

// New returns a Timer backed by the real wall clock.
func New() Timer {
	return &realTimer{now: time.Now}
}

type realTimer struct {
	now        func() time.Time
	start      time.Time
	stageStart time.Time
}

func (t *realTimer) Start() {
	t.start = t.now()
	t.stageStart = t.start
}

func (t *realTimer) NewStage() {
	t.stageStart = t.now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	if t.start.IsZero() {
		return 0, 0
	}

	current := t.now()

	return current.Sub(t.start), current.Sub(t.stageStart)
}

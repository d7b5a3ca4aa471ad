package orchestrator

import (
	"io"
	"sync"

	"github.com/devantler-tech/conformci/pkg/ui/notify"
)

// TeardownStack collects cleanup steps during a run and executes them in
// reverse registration order, exactly once. Registering the broadest step
// first (workspace removal) therefore guarantees it runs last, after every
// step that still depends on the workspace.
//
// Every step is best-effort: a failing step is reported as a warning and
// never stops the remaining steps.
type TeardownStack struct {
	mu     sync.Mutex
	once   sync.Once
	steps  []teardownStep
	writer io.Writer
}

type teardownStep struct {
	name string
	run  func() error
}

// NewTeardownStack returns an empty stack reporting step failures to writer.
func NewTeardownStack(writer io.Writer) *TeardownStack {
	return &TeardownStack{writer: writer}
}

// Register appends a cleanup step. Steps registered later run earlier.
func (s *TeardownStack) Register(name string, run func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.steps = append(s.steps, teardownStep{name: name, run: run})
}

// Execute runs all registered steps in reverse registration order. Repeated
// calls are no-ops, so Execute is safe to invoke from both a defer and a
// signal handler.
func (s *TeardownStack) Execute() {
	s.once.Do(s.execute)
}

func (s *TeardownStack) execute() {
	s.mu.Lock()
	steps := make([]teardownStep, len(s.steps))
	copy(steps, s.steps)
	s.mu.Unlock()

	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]

		err := step.run()
		if err != nil {
			notify.Warningf(s.writer, "cleanup step %q failed: %v", step.name, err)
		}
	}
}

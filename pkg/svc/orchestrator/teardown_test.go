package orchestrator_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/devantler-tech/conformci/pkg/svc/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStepFailed = errors.New("step failed")

func TestTeardownStack_ExecutesInReverseRegistrationOrder(t *testing.T) {
	t.Parallel()

	var order []string

	stack := orchestrator.NewTeardownStack(&bytes.Buffer{})
	stack.Register("first", func() error {
		order = append(order, "first")

		return nil
	})
	stack.Register("second", func() error {
		order = append(order, "second")

		return nil
	})
	stack.Register("third", func() error {
		order = append(order, "third")

		return nil
	})

	stack.Execute()

	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestTeardownStack_ExecutesExactlyOnce(t *testing.T) {
	t.Parallel()

	runs := 0

	stack := orchestrator.NewTeardownStack(&bytes.Buffer{})
	stack.Register("counted", func() error {
		runs++

		return nil
	})

	stack.Execute()
	stack.Execute()
	stack.Execute()

	assert.Equal(t, 1, runs)
}

func TestTeardownStack_ExecutesExactlyOnceConcurrently(t *testing.T) {
	t.Parallel()

	runs := 0

	stack := orchestrator.NewTeardownStack(&bytes.Buffer{})
	stack.Register("counted", func() error {
		runs++

		return nil
	})

	var waitGroup sync.WaitGroup
	for range 8 {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()
			stack.Execute()
		}()
	}

	waitGroup.Wait()

	assert.Equal(t, 1, runs)
}

func TestTeardownStack_FailingStepDoesNotStopRemainingSteps(t *testing.T) {
	t.Parallel()

	var order []string

	output := &bytes.Buffer{}

	stack := orchestrator.NewTeardownStack(output)
	stack.Register("survivor", func() error {
		order = append(order, "survivor")

		return nil
	})
	stack.Register("failing", func() error {
		order = append(order, "failing")

		return errStepFailed
	})

	stack.Execute()

	require.Equal(t, []string{"failing", "survivor"}, order)
	assert.Contains(t, output.String(), `cleanup step "failing" failed`)
	assert.Contains(t, output.String(), "step failed")
}

func TestTeardownStack_EmptyStackIsANoOp(t *testing.T) {
	t.Parallel()

	output := &bytes.Buffer{}

	stack := orchestrator.NewTeardownStack(output)
	stack.Execute()

	assert.Empty(t, output.String())
}

package timer_test

import (
	"testing"
	"time"

	"github.com/devantler-tech/conformci/pkg/ui/timer"
	"github.com/stretchr/testify/assert"
)

func TestGetTiming_BeforeStartReturnsZero(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	total, stage := tmr.GetTiming()

	assert.Equal(t, time.Duration(0), total)
	assert.Equal(t, time.Duration(0), stage)
}

func TestGetTiming_AfterStartReportsElapsedTime(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(10 * time.Millisecond)

	total, stage := tmr.GetTiming()

	assert.Positive(t, total)
	assert.Positive(t, stage)
	assert.GreaterOrEqual(t, total, stage)
}

func TestNewStage_ResetsStageButNotTotal(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(10 * time.Millisecond)
	tmr.NewStage()

	total, stage := tmr.GetTiming()

	assert.Greater(t, total, stage)
}

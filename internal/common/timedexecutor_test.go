package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toddybot/internal/common"
)

func TestTimedExecutorRunsOncePerInterval(t *testing.T) {
	runs := 0
	executor := common.NewTimedExecutor(50*time.Millisecond, func() { runs++ })

	// The first call runs, the immediate repeats do not
	executor.Execute()
	executor.Execute()
	executor.Execute()
	assert.Equal(t, 1, runs)

	time.Sleep(60 * time.Millisecond)
	executor.Execute()
	assert.Equal(t, 2, runs)
}

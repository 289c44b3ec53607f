package openfoam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `
Time = 10

smoothSolver:  Solving for Ux, Initial residual = 0.0012, Final residual = 2.1e-06, No Iterations 3
ExecutionTime = 45.2 s  ClockTime = 47 s

Time = 20

smoothSolver:  Solving for Ux, Initial residual = 0.0009, Final residual = 1.8e-06, No Iterations 3
ExecutionTime = 91.8 s  ClockTime = 95 s

End
`

func TestParse_TakesFinalExecutionTime(t *testing.T) {
	result, err := Parse(sampleLog)
	require.NoError(t, err)
	assert.Equal(t, "91.80", result.Values["execution_time_s"])
	assert.Equal(t, "95.00", result.Values["clock_time_s"])
}

func TestParse_NoExecutionTimeLine(t *testing.T) {
	_, err := Parse("solver crashed\n")
	assert.Error(t, err)
}

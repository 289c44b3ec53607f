package pytorch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `
Running benchmark script...
Epoch 1/1 complete
CPU Peak Memory: 1024 MB
GPU Peak Memory: 4096 MB
CPU Wall Time: 12.345 s
`

func TestParse_AllMetricsPresent(t *testing.T) {
	result, err := Parse(sampleLog)
	require.NoError(t, err)
	assert.Equal(t, "12.345", result.Values["cpu_wall_time_s"])
	assert.Equal(t, "1024", result.Values["cpu_peak_memory_mb"])
	assert.Equal(t, "4096", result.Values["gpu_peak_memory_mb"])
	assert.Contains(t, result.Summary, "GPU peak memory 4096 MB")
}

func TestParse_CPUOnlyRun(t *testing.T) {
	log := "CPU Peak Memory: 512 MB\nCPU Wall Time: 3.2 s\n"
	result, err := Parse(log)
	require.NoError(t, err)
	_, hasGPU := result.Values["gpu_peak_memory_mb"]
	assert.False(t, hasGPU)
	assert.Contains(t, result.Summary, "CPU peak memory 512 MB")
}

func TestParse_MissingWallTime(t *testing.T) {
	_, err := Parse("CPU Peak Memory: 512 MB\n")
	assert.Error(t, err)
}

func TestParse_NoMetrics(t *testing.T) {
	_, err := Parse("nothing useful\n")
	assert.Error(t, err)
}

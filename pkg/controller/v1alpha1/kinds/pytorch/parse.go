package pytorch

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// metricLine matches the banner lines PyTorch micro-benchmark scripts print
// at exit, e.g. "CPU Wall Time: 12.345 s", "GPU Peak Memory: 2048 MB"
// (spec §4.5: "CPU/GPU Peak Memory, CPU Wall Time lines").
var metricLine = regexp.MustCompile(`(?m)^\s*(CPU Wall Time|CPU Peak Memory|GPU Peak Memory)\s*:\s*([0-9]+(?:\.[0-9]+)?)`)

// Parse implements the PyTorch parser contract: pull out whichever of the
// three known banner metrics are present. At least CPU Wall Time must be
// present for the result to be meaningful; GPU Peak Memory is absent on
// CPU-only runs.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	matches := metricLine.FindAllStringSubmatch(logOutput, -1)
	if len(matches) == 0 {
		return nil, errors.New("no CPU/GPU metric banner lines found in PyTorch log output")
	}

	values := make(map[string]string)
	for _, m := range matches {
		switch m[1] {
		case "CPU Wall Time":
			values["cpu_wall_time_s"] = m[2]
		case "CPU Peak Memory":
			values["cpu_peak_memory_mb"] = m[2]
		case "GPU Peak Memory":
			values["gpu_peak_memory_mb"] = m[2]
		}
	}

	wallTime, ok := values["cpu_wall_time_s"]
	if !ok {
		return nil, errors.New("PyTorch log output did not include a CPU Wall Time line")
	}

	summary := fmt.Sprintf("wall time %s s", wallTime)
	if mem, ok := values["gpu_peak_memory_mb"]; ok {
		summary += fmt.Sprintf(", GPU peak memory %s MB", mem)
	} else if mem, ok := values["cpu_peak_memory_mb"]; ok {
		summary += fmt.Sprintf(", CPU peak memory %s MB", mem)
	}

	return &v1alpha1.BenchmarkResult{
		Summary: summary,
		Values:  values,
	}, nil
}

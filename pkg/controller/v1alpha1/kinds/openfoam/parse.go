package openfoam

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// executionTimeLine matches OpenFOAM's end-of-run timing line, e.g.
// "ExecutionTime = 123.45 s  ClockTime = 130 s" (spec §4.5: "extract
// ExecutionTime = X s ClockTime = Y s").
var executionTimeLine = regexp.MustCompile(`ExecutionTime\s*=\s*([0-9]+(?:\.[0-9]+)?)\s*s\s+ClockTime\s*=\s*([0-9]+(?:\.[0-9]+)?)\s*s`)

// Parse implements the OpenFOAM parser contract: the solver prints an
// ExecutionTime/ClockTime pair at the end of every timestep, so the last
// match in the log is the final, total wall time.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	matches := executionTimeLine.FindAllStringSubmatch(logOutput, -1)
	if len(matches) == 0 {
		return nil, errors.New("no ExecutionTime/ClockTime line found in OpenFOAM log output")
	}

	last := matches[len(matches)-1]
	executionTime, err := strconv.ParseFloat(last[1], 64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ExecutionTime value")
	}
	clockTime, err := strconv.ParseFloat(last[2], 64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ClockTime value")
	}

	return &v1alpha1.BenchmarkResult{
		Summary: fmt.Sprintf("execution time %.2f s, clock time %.2f s", executionTime, clockTime),
		Values: map[string]string{
			"execution_time_s": fmt.Sprintf("%.2f", executionTime),
			"clock_time_s":     fmt.Sprintf("%.2f", clockTime),
		},
	}, nil
}

package iperf

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// summaryLine matches an iperf3 "[SUM] ... <n> Kbits/sec" final summary
// line (spec §4.5: "Final summary line: average bandwidth in kbit/s").
var summaryLine = regexp.MustCompile(`\[SUM\].*?([0-9]+(?:\.[0-9]+)?)\s*Kbits/sec`)

// Parse implements the IPerf parser contract (spec §4.5): find the final
// [SUM] line's bandwidth in Kbits/sec, and rewrite it as Gbit/s with two
// decimal places. Fails if no summary line is present in the log.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	matches := summaryLine.FindAllStringSubmatch(logOutput, -1)
	if len(matches) == 0 {
		return nil, errors.New("no iperf3 [SUM] summary line found in log output")
	}

	// The sender and receiver each print a [SUM] line; take the last one,
	// matching iperf3's own convention of reporting the final outcome last.
	last := matches[len(matches)-1]
	kbits, err := strconv.ParseFloat(last[1], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing bandwidth from iperf3 summary line %q", last[0])
	}

	gbits := kbits / 1_000_000
	formatted := fmt.Sprintf("%.2f", gbits)

	return &v1alpha1.BenchmarkResult{
		Summary: fmt.Sprintf("%s Gbit/s", formatted),
		Values: map[string]string{
			"bandwidth_gbps": formatted,
		},
	}, nil
}

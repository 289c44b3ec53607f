package rdmalatency

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// dataRow matches one row of perftest's ib_write_lat table: "#bytes
// #iterations t_min[usec] t_max[usec] t_typical[usec] t_avg[usec]
// t_stdev[usec] 99%-percentile[usec] 99.9%-percentile[usec]" (spec §4.5
// "t_avg[usec] column across message sizes").
var dataRow = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s*$`)

// Parse implements the RDMALatency parser contract: read the t_avg column
// for every message size, reporting the smallest observed average latency
// and the message size range tested.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	type row struct {
		bytes  int
		tAvgUs float64
	}

	var rows []row
	for _, line := range strings.Split(logOutput, "\n") {
		m := dataRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		bytes, _ := strconv.Atoi(m[1])
		tAvg, _ := strconv.ParseFloat(m[6], 64)
		rows = append(rows, row{bytes: bytes, tAvgUs: tAvg})
	}

	if len(rows) == 0 {
		return nil, errors.New("no ib_write_lat data rows found in log output")
	}

	best := rows[0]
	for _, r := range rows[1:] {
		if r.tAvgUs < best.tAvgUs {
			best = r
		}
	}

	return &v1alpha1.BenchmarkResult{
		Summary: fmt.Sprintf("min average latency %.2f usec at %d bytes (%d sizes tested)", best.tAvgUs, best.bytes, len(rows)),
		Values: map[string]string{
			"min_avg_latency_usec": fmt.Sprintf("%.2f", best.tAvgUs),
			"min_latency_bytes":    strconv.Itoa(best.bytes),
			"sizes_tested":         strconv.Itoa(len(rows)),
		},
	}, nil
}

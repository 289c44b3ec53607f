package rdmabandwidth

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// dataRow matches one row of perftest's ib_write_bw table:
// "#bytes #iterations BW-peak[MB/sec] BW-average[MB/sec] MsgRate[Mpps]"
// (spec §4.5 "BW average[MB/sec] column across message sizes").
var dataRow = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s*$`)

// Parse implements the RDMABandwidth parser contract: read the BW average
// column for every message size, reporting peak average bandwidth and the
// message size range tested.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	type row struct {
		bytes     int
		bwAverage float64
	}

	var rows []row
	for _, line := range strings.Split(logOutput, "\n") {
		m := dataRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		bytes, _ := strconv.Atoi(m[1])
		bwAverage, _ := strconv.ParseFloat(m[4], 64)
		rows = append(rows, row{bytes: bytes, bwAverage: bwAverage})
	}

	if len(rows) == 0 {
		return nil, errors.New("no ib_write_bw data rows found in log output")
	}

	peak := rows[0]
	for _, r := range rows[1:] {
		if r.bwAverage > peak.bwAverage {
			peak = r
		}
	}

	return &v1alpha1.BenchmarkResult{
		Summary: fmt.Sprintf("peak average BW %.2f MB/sec at %d bytes (%d sizes tested)", peak.bwAverage, peak.bytes, len(rows)),
		Values: map[string]string{
			"peak_bw_average_mb_sec": fmt.Sprintf("%.2f", peak.bwAverage),
			"peak_bw_bytes":          strconv.Itoa(peak.bytes),
			"sizes_tested":           strconv.Itoa(len(rows)),
		},
	}, nil
}

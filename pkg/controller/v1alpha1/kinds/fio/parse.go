package fio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// fioReport is the subset of fio's --output-format=json report this parser
// needs (spec §4.5: "aggregate bw_bytes/iops across jobs, mean clat ms").
type fioReport struct {
	Jobs []struct {
		Read struct {
			BWBytes int64   `json:"bw_bytes"`
			IOPS    float64 `json:"iops"`
			Clat    struct {
				Mean float64 `json:"mean"`
			} `json:"clat_ns"`
		} `json:"read"`
		Write struct {
			BWBytes int64   `json:"bw_bytes"`
			IOPS    float64 `json:"iops"`
			Clat    struct {
				Mean float64 `json:"mean"`
			} `json:"clat_ns"`
		} `json:"write"`
	} `json:"jobs"`
}

// Parse implements the Fio parser contract: sum bw_bytes and iops for the
// active direction (read or write, whichever has the larger bandwidth) across
// every job in the report, and average clat.mean converted from nanoseconds
// to milliseconds.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	var report fioReport
	if err := json.Unmarshal([]byte(logOutput), &report); err != nil {
		return nil, errors.Wrap(err, "failed to parse fio json+ output")
	}
	if len(report.Jobs) == 0 {
		return nil, errors.New("fio report contained no jobs")
	}

	var totalBWBytes int64
	var totalIOPS float64
	var totalClatNs float64

	for _, job := range report.Jobs {
		direction := job.Read
		if job.Write.BWBytes > direction.BWBytes {
			direction = job.Write
		}
		totalBWBytes += direction.BWBytes
		totalIOPS += direction.IOPS
		totalClatNs += direction.Clat.Mean
	}
	meanClatMs := totalClatNs / float64(len(report.Jobs)) / 1e6

	return &v1alpha1.BenchmarkResult{
		Summary: fmt.Sprintf("%d B/s aggregate, %.0f IOPS, %.3f ms mean completion latency across %d jobs",
			totalBWBytes, totalIOPS, meanClatMs, len(report.Jobs)),
		Values: map[string]string{
			"bw_bytes":      strconv.FormatInt(totalBWBytes, 10),
			"iops":          fmt.Sprintf("%.0f", totalIOPS),
			"mean_clat_ms":  fmt.Sprintf("%.3f", meanClatMs),
			"jobs_reported": strconv.Itoa(len(report.Jobs)),
		},
	}, nil
}

package mpipingpong

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// dataRow matches one row of IMB's PingPong table:
// "#bytes #repetitions t_avg[usec] Mbytes/sec" (spec §4.5). IMB right-aligns
// these in fixed-width columns; the pattern tolerates any run of spaces.
var dataRow = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+([0-9]+(?:\.[0-9]+)?)\s+([0-9]+(?:\.[0-9]+)?)\s*$`)

// Record is one message-size row of the PingPong table.
type Record struct {
	Bytes        int
	Repetitions  int
	AvgLatencyUs float64
	MBytesPerSec float64
}

// Parse implements the MPIPingPong parser contract (spec §4.5): parse every
// data row of IMB's table, and summarise by the smallest and largest message
// sizes observed.
func Parse(logOutput string) (*v1alpha1.BenchmarkResult, error) {
	records := parseRecords(logOutput)
	if len(records) == 0 {
		return nil, errors.New("no IMB PingPong data rows found in log output")
	}

	minBytes, maxBytes := records[0].Bytes, records[0].Bytes
	for _, r := range records {
		if r.Bytes < minBytes {
			minBytes = r.Bytes
		}
		if r.Bytes > maxBytes {
			maxBytes = r.Bytes
		}
	}

	return &v1alpha1.BenchmarkResult{
		Summary: fmt.Sprintf("PingPong %d-%d bytes, %d sizes", minBytes, maxBytes, len(records)),
		Values: map[string]string{
			"min_bytes":    strconv.Itoa(minBytes),
			"max_bytes":    strconv.Itoa(maxBytes),
			"sizes_tested": strconv.Itoa(len(records)),
		},
	}, nil
}

func parseRecords(logOutput string) []Record {
	var records []Record
	for _, line := range strings.Split(logOutput, "\n") {
		m := dataRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		bytes, _ := strconv.Atoi(m[1])
		reps, _ := strconv.Atoi(m[2])
		latency, _ := strconv.ParseFloat(m[3], 64)
		mbytes, _ := strconv.ParseFloat(m[4], 64)
		records = append(records, Record{
			Bytes:        bytes,
			Repetitions:  reps,
			AvgLatencyUs: latency,
			MBytesPerSec: mbytes,
		})
	}
	return records
}

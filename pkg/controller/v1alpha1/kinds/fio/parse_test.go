package fio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `{
  "jobs": [
    {
      "read": {"bw_bytes": 104857600, "iops": 25600.0, "clat_ns": {"mean": 390000.0}},
      "write": {"bw_bytes": 0, "iops": 0.0, "clat_ns": {"mean": 0.0}}
    },
    {
      "read": {"bw_bytes": 209715200, "iops": 51200.0, "clat_ns": {"mean": 410000.0}},
      "write": {"bw_bytes": 0, "iops": 0.0, "clat_ns": {"mean": 0.0}}
    }
  ]
}`

func TestParse_AggregatesAcrossJobs(t *testing.T) {
	result, err := Parse(sampleReport)
	require.NoError(t, err)
	assert.Equal(t, "314572800", result.Values["bw_bytes"])
	assert.Equal(t, "76800", result.Values["iops"])
	assert.Equal(t, "0.400", result.Values["mean_clat_ms"])
	assert.Equal(t, "2", result.Values["jobs_reported"])
}

func TestParse_PrefersWriteDirectionWhenDominant(t *testing.T) {
	report := `{"jobs": [
		{"read": {"bw_bytes": 0, "iops": 0, "clat_ns": {"mean": 0}},
		 "write": {"bw_bytes": 52428800, "iops": 12800, "clat_ns": {"mean": 200000}}}
	]}`
	result, err := Parse(report)
	require.NoError(t, err)
	assert.Equal(t, "52428800", result.Values["bw_bytes"])
	assert.Equal(t, "12800", result.Values["iops"])
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse("not json")
	assert.Error(t, err)
}

func TestParse_NoJobs(t *testing.T) {
	_, err := Parse(`{"jobs": []}`)
	assert.Error(t, err)
}

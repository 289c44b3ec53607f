package mpipingpong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `
#----------------------------------------------------------------
# Benchmarking PingPong
# #processes = 2
#----------------------------------------------------------------
       #bytes #repetitions      t[usec]   Mbytes/sec
            0         1000         1.23         0.00
            1         1000         1.25         0.76
            2         1000         1.30         1.46
         4096         1000        12.40       317.93
       131072          640        85.21      1464.12
#
# All processes entering MPI_Finalize
`

func TestParse_ExtractsRange(t *testing.T) {
	result, err := Parse(sampleLog)
	require.NoError(t, err)
	assert.Equal(t, "0", result.Values["min_bytes"])
	assert.Equal(t, "131072", result.Values["max_bytes"])
	assert.Equal(t, "5", result.Values["sizes_tested"])
}

func TestParseRecords(t *testing.T) {
	records := parseRecords(sampleLog)
	require.Len(t, records, 5)
	assert.Equal(t, 131072, records[4].Bytes)
	assert.Equal(t, 640, records[4].Repetitions)
	assert.InDelta(t, 1464.12, records[4].MBytesPerSec, 0.001)
}

func TestParse_NoDataRows(t *testing.T) {
	_, err := Parse("no table here\n")
	assert.Error(t, err)
}

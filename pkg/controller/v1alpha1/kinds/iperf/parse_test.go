package iperf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `
Connecting to host iperf-server-0.iperf, port 5201
[  5] local 10.0.0.2 port 54012 connected to 10.0.0.1 port 5201
[ ID] Interval           Transfer     Bitrate
[  5]   0.00-1.00   sec   110 MBytes   920 Mbits/sec
[  5]   1.00-10.00  sec  1012 MBytes   850 Mbits/sec

- - - - - - - - - - - - - - - - - - - - - - - - -
[ ID] Interval           Transfer     Bitrate
[  5]   0.00-10.00  sec  1.09 GBytes   935000 Kbits/sec                  sender
[SUM]   0.00-10.00  sec  1.09 GBytes   935000 Kbits/sec                  sender
[SUM]   0.00-10.04  sec  1.09 GBytes   932150 Kbits/sec                  receiver

iperf Done.
`

func TestParse_TakesLastSummaryLine(t *testing.T) {
	result, err := Parse(sampleLog)
	require.NoError(t, err)
	assert.Equal(t, "0.93 Gbit/s", result.Summary)
	assert.Equal(t, "0.93", result.Values["bandwidth_gbps"])
}

func TestParse_NoSummaryLine(t *testing.T) {
	_, err := Parse("nothing useful here\n")
	assert.Error(t, err)
}

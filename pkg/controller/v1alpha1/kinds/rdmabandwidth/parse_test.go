package rdmabandwidth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `
---------------------------------------------------------------------------------------
                    RDMA_Write BW Test
 Dual-port       : OFF		Device         : mlx5_0
 Number of qps   : 1		Transport type : IB
---------------------------------------------------------------------------------------
 #bytes     #iterations    BW peak[MB/sec]    BW average[MB/sec]   MsgRate[Mpps]
 2          1000           4.12               3.98                2.086305
 65536      1000           11500.23           11200.55             0.179208
 1048576    1000           12100.01           11980.77             0.011426
---------------------------------------------------------------------------------------
`

func TestParse_FindsPeakAverage(t *testing.T) {
	result, err := Parse(sampleLog)
	require.NoError(t, err)
	assert.Equal(t, "11980.77", result.Values["peak_bw_average_mb_sec"])
	assert.Equal(t, "1048576", result.Values["peak_bw_bytes"])
	assert.Equal(t, "3", result.Values["sizes_tested"])
}

func TestParse_NoDataRows(t *testing.T) {
	_, err := Parse("garbage\n")
	assert.Error(t, err)
}

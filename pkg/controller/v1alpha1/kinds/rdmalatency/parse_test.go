package rdmalatency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `
---------------------------------------------------------------------------------------
                    RDMA_Write Latency Test
 Dual-port       : OFF		Device         : mlx5_0
---------------------------------------------------------------------------------------
 #bytes #iterations    t_min[usec]    t_max[usec]  t_typical[usec]    t_avg[usec]    t_stdev[usec]   99% percentile[usec]   99.9% percentile[usec]
 2       1000           1.10           5.20         1.15               1.22            0.08             1.80                    4.90
 8192    1000           3.40           9.10         3.55               3.70            0.12             4.50                    8.80
---------------------------------------------------------------------------------------
`

func TestParse_FindsMinAverageLatency(t *testing.T) {
	result, err := Parse(sampleLog)
	require.NoError(t, err)
	assert.Equal(t, "1.22", result.Values["min_avg_latency_usec"])
	assert.Equal(t, "2", result.Values["min_latency_bytes"])
	assert.Equal(t, "2", result.Values["sizes_tested"])
}

func TestParse_NoDataRows(t *testing.T) {
	_, err := Parse("garbage\n")
	assert.Error(t, err)
}

package render

import "github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/discovery"

// PeerHostname is the stable DNS name (spec §4.3/§4.4) a kind renderer uses
// to point one task's pods at another task's pod, e.g. an IPerf client
// dialing "<bench>-server-0.<bench>". Ordinal addresses a specific replica;
// most kinds only ever need ordinal 0 of a single-replica peer task.
func PeerHostname(benchmarkName, taskName string, ordinal int32) string {
	return discovery.PeerDNSName(benchmarkName, taskName, ordinal)
}

// Package registry assembles the kind registry (spec §4.8): a lookup from
// kind name to the kindapi.Handler that knows how to render that kind's
// tasks and parse its result, grounded on the teacher's runtime framework
// plugin registry (training/runtime/framework/plugins/registry.go).
package registry

import (
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/fio"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/iperf"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/mpipingpong"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/openfoam"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/pytorch"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/rdmabandwidth"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/rdmalatency"
)

// Registry maps a benchmark kind name (spec §3, constants.Kind*) to the
// handler implementing it. The Benchmark reconciler and the BenchmarkSet
// expander both dispatch through this map instead of a type switch.
type Registry map[string]kindapi.Handler

// NewRegistry wires every kind package's handler constructor into the
// registry it's keyed under.
func NewRegistry() Registry {
	return Registry{
		constants.KindIPerf:         iperf.New(),
		constants.KindMPIPingPong:   mpipingpong.New(),
		constants.KindOpenFOAM:      openfoam.New(),
		constants.KindRDMABandwidth: rdmabandwidth.New(),
		constants.KindRDMALatency:   rdmalatency.New(),
		constants.KindFio:           fio.New(),
		constants.KindPyTorch:       pytorch.New(),
	}
}

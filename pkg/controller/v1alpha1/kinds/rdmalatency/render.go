// Package rdmalatency implements the RDMALatency benchmark kind: a perftest
// ib_write_lat server/client pair measuring one-sided RDMA write latency
// across message sizes (spec §4.5).
package rdmalatency

import (
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kinds/rdmacommon"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const (
	DefaultImage = "ghcr.io/stackhpc/kube-perftest-perftest:latest"
	binary       = "ib_write_lat"
)

func New() kindapi.Handler {
	return kindapi.Handler{
		NewObject:        func() v1alpha1.BenchmarkObject { return &v1alpha1.RDMALatency{} },
		NewList:          func() client.ObjectList { return &v1alpha1.RDMALatencyList{} },
		DefaultImage:     DefaultImage,
		RenderTasks:      RenderTasks,
		ResultSourceTask: constants.ComponentClient,
		Parse:            Parse,
	}
}

func RenderTasks(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error) {
	rdma, ok := obj.(*v1alpha1.RDMALatency)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindRDMALatency, obj)
	}
	common := rdma.Spec.CommonSpec
	if common.Image == "" {
		common.Image = DefaultImage
	}
	return rdmacommon.RenderTasks(common, rdma.Spec.RDMASpec, rdma.Name, settings, binary), nil
}

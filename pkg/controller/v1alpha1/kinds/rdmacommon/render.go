// Package rdmacommon holds the task-rendering logic shared by the
// RDMABandwidth and RDMALatency kinds: both run a perftest server/client pair
// over an RDMA device, differing only in which perftest binary and which
// result column they use (spec §4.5).
package rdmacommon

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const rdmaPort int32 = 18515

// RenderTasks builds the server/client perftest pair. binary is the perftest
// tool to run, e.g. "ib_write_bw" or "ib_write_lat".
func RenderTasks(common v1alpha1.CommonSpec, rdma v1alpha1.RDMASpec, benchmarkName string, settings *controllerconfig.Settings, binary string) []render.Task {
	image := common.Image
	pullPolicy := common.ImagePullPolicy
	if pullPolicy == "" {
		pullPolicy = corev1.PullPolicy(settings.DefaultImagePullPolicy)
	}

	resources := corev1.ResourceRequirements{}
	if common.Resources != nil {
		resources = *common.Resources
	}

	qpType := string(rdma.QPType)
	if qpType == "" {
		qpType = "RC"
	}
	iterations := rdma.Iterations
	if iterations <= 0 {
		iterations = 1000
	}
	device := rdma.Device

	baseArgs := func() []string {
		args := []string{"-p", strconv.Itoa(int(rdmaPort)), "-c", qpType, "-n", strconv.Itoa(iterations)}
		if device != "" {
			args = append(args, "-d", device)
		}
		return args
	}

	server := render.Task{
		Name:      constants.ComponentServer,
		Replicas:  1,
		Exclusive: true,
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{binary},
			Args:            baseArgs(),
			Resources:       resources,
		},
	}

	clientArgs := append(baseArgs(), render.PeerHostname(benchmarkName, constants.ComponentServer, 0))
	client := render.Task{
		Name:         constants.ComponentClient,
		Replicas:     1,
		Exclusive:    true,
		CompletesJob: true,
		PeerPort:     ptr.To(rdmaPort),
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{binary},
			Args:            clientArgs,
			Resources:       resources,
		},
	}

	return []render.Task{server, client}
}

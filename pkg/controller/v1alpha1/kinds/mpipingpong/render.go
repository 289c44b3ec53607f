// Package mpipingpong implements the MPIPingPong benchmark kind: Intel MPI
// Benchmarks' PingPong test between a master rank and NumProcesses-1 worker
// ranks (spec §4.5).
package mpipingpong

import (
	"fmt"
	"math/bits"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const DefaultImage = "ghcr.io/stackhpc/kube-perftest-mpi:latest"

func New() kindapi.Handler {
	return kindapi.Handler{
		NewObject:        func() v1alpha1.BenchmarkObject { return &v1alpha1.MPIPingPong{} },
		NewList:          func() client.ObjectList { return &v1alpha1.MPIPingPongList{} },
		DefaultImage:     DefaultImage,
		RenderTasks:      RenderTasks,
		ResultSourceTask: constants.ComponentMaster,
		Parse:            Parse,
	}
}

// RenderTasks builds a master rank (runs mpirun over SSH to every worker,
// including itself as rank 0) plus NumProcesses-1 worker ranks. Both tasks
// are exclusive placement: MPI PingPong measures point-to-point latency and
// bandwidth, so node noise from an unrelated co-located pod would skew it.
func RenderTasks(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error) {
	mpi, ok := obj.(*v1alpha1.MPIPingPong)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindMPIPingPong, obj)
	}
	spec := mpi.Spec

	image := spec.Image
	if image == "" {
		image = DefaultImage
	}
	pullPolicy := spec.ImagePullPolicy
	if pullPolicy == "" {
		pullPolicy = corev1.PullPolicy(settings.DefaultImagePullPolicy)
	}

	workerReplicas := int32(1)
	if spec.NumProcesses > 1 {
		workerReplicas = int32(spec.NumProcesses - 1)
	}

	resources := corev1.ResourceRequirements{}
	if spec.Resources != nil {
		resources = *spec.Resources
	}

	hostfile := render.PeerHostname(mpi.Name, constants.ComponentMaster, 0)
	for i := int32(0); i < workerReplicas; i++ {
		hostfile += "," + render.PeerHostname(mpi.Name, constants.ComponentWorker, i)
	}

	hostfileArgs := []string{
		"-np", strconv.Itoa(int(workerReplicas) + 1),
		"-hosts", hostfile,
		"IMB-MPI1",
		"-msglog", minMaxLog(spec.MsgSizeMin, spec.MsgSizeMax),
		"PingPong",
	}

	master := render.Task{
		Name:         constants.ComponentMaster,
		Replicas:     1,
		Exclusive:    true,
		CompletesJob: true,
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{"mpirun"},
			Args:            hostfileArgs,
			Resources:       resources,
		},
	}

	worker := render.Task{
		Name:      constants.ComponentWorker,
		Replicas:  workerReplicas,
		Exclusive: true,
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{"sh", "-c"},
			Args:            []string{"/usr/sbin/sshd -D"},
			Resources:       resources,
		},
	}

	return []render.Task{master, worker}, nil
}

// minMaxLog derives IMB's "-msglog <min>:<max>" range from byte sizes,
// rounding each size up to a power of two and passing its exponent,
// defaulting to IMB's own 0..4MiB sweep when unset.
func minMaxLog(minBytes, maxBytes int) string {
	minLog, maxLog := 0, 22 // 2^22 == 4MiB
	if minBytes > 1 {
		minLog = bits.Len(uint(minBytes - 1))
	}
	if maxBytes > 0 {
		maxLog = bits.Len(uint(maxBytes - 1))
	}
	return fmt.Sprintf("%d:%d", minLog, maxLog)
}

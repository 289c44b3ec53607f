// Package iperf implements the IPerf benchmark kind: a single iperf3 server
// and client pair measuring TCP/UDP throughput (spec §4.5, §8 "IPerf basic").
package iperf

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const (
	ServerPort   int32 = 5201
	DefaultImage       = "ghcr.io/stackhpc/kube-perftest-iperf:latest"
)

// New builds this kind's registry entry (spec §4.8).
func New() kindapi.Handler {
	return kindapi.Handler{
		NewObject:        func() v1alpha1.BenchmarkObject { return &v1alpha1.IPerf{} },
		NewList:          func() client.ObjectList { return &v1alpha1.IPerfList{} },
		DefaultImage:     DefaultImage,
		RenderTasks:      RenderTasks,
		ResultSourceTask: constants.ComponentClient,
		Parse:            Parse,
	}
}

// RenderTasks builds the server/client task pair (spec §4.3): both are
// "exclusive" placement since IPerf is a pure-network benchmark, and the
// client waits for the server's port before dialing out.
func RenderTasks(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error) {
	iperf, ok := obj.(*v1alpha1.IPerf)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindIPerf, obj)
	}
	spec := iperf.Spec

	image := spec.Image
	if image == "" {
		image = DefaultImage
	}
	pullPolicy := spec.ImagePullPolicy
	if pullPolicy == "" {
		pullPolicy = corev1.PullPolicy(settings.DefaultImagePullPolicy)
	}

	serverArgs := []string{"-s", "-p", strconv.Itoa(int(ServerPort))}
	clientArgs := []string{
		"-c", render.PeerHostname(iperf.Name, constants.ComponentServer, 0),
		"-p", strconv.Itoa(int(ServerPort)),
		"-P", strconv.Itoa(maxInt(spec.Streams, 1)),
		"-t", strconv.Itoa(maxInt(spec.Duration, 10)),
	}
	if spec.Bidirectional {
		clientArgs = append(clientArgs, "--bidir")
	}

	resources := corev1.ResourceRequirements{}
	if spec.Resources != nil {
		resources = *spec.Resources
	}

	server := render.Task{
		Name:     constants.ComponentServer,
		Replicas: 1,
		Exclusive: true,
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{"iperf3"},
			Args:            serverArgs,
			Ports:           []corev1.ContainerPort{{ContainerPort: ServerPort}},
			Resources:       resources,
		},
	}

	clientTask := render.Task{
		Name:         constants.ComponentClient,
		Replicas:     1,
		Exclusive:    true,
		CompletesJob: true,
		PeerPort:     ptr.To(ServerPort),
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{"iperf3"},
			Args:            clientArgs,
			Resources:       resources,
		},
	}

	return []render.Task{server, clientTask}, nil
}

func maxInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

// Package pytorch implements the PyTorch benchmark kind: a single "client"
// task running `python -m <script>` as the first and only replica, with
// NumGPUs surfaced as an nvidia.com/gpu resource request (spec §4.5).
package pytorch

import (
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const DefaultImage = "ghcr.io/stackhpc/kube-perftest-pytorch:latest"

func New() kindapi.Handler {
	return kindapi.Handler{
		NewObject:        func() v1alpha1.BenchmarkObject { return &v1alpha1.PyTorch{} },
		NewList:          func() client.ObjectList { return &v1alpha1.PyTorchList{} },
		DefaultImage:     DefaultImage,
		RenderTasks:      RenderTasks,
		ResultSourceTask: constants.ComponentClient,
		Parse:            Parse,
	}
}

func RenderTasks(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error) {
	job, ok := obj.(*v1alpha1.PyTorch)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindPyTorch, obj)
	}

	common := job.Spec.CommonSpec
	image := common.Image
	if image == "" {
		image = DefaultImage
	}
	pullPolicy := common.ImagePullPolicy
	if pullPolicy == "" {
		pullPolicy = corev1.PullPolicy(settings.DefaultImagePullPolicy)
	}

	resources := corev1.ResourceRequirements{}
	if common.Resources != nil {
		resources = *common.Resources
	}

	args := append([]string{"-m", job.Spec.Script}, job.Spec.Args...)

	container := corev1.Container{
		Name:            constants.BenchmarkContainerName,
		Image:           image,
		ImagePullPolicy: pullPolicy,
		Command:         []string{"python"},
		Args:            args,
		Resources:       resources,
	}
	render.SetRequestedGPUs(&container, int64(job.Spec.NumGPUs))

	clientTask := render.Task{
		Name:         constants.ComponentClient,
		Replicas:     1,
		CompletesJob: true,
		Container:    container,
	}

	return []render.Task{clientTask}, nil
}

// Package openfoam implements the OpenFOAM benchmark kind: a decomposed CFD
// solver run across a master rank (which drives mpirun and reports wall
// time) and worker ranks reachable over SSH, mirroring the MPIPingPong
// kind's master/worker MPI shape (spec §4.5).
package openfoam

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const (
	DefaultImage = "ghcr.io/stackhpc/kube-perftest-openfoam:latest"

	defaultNumProcesses = 2
	defaultCaseName     = "incompressible/simpleFoam/pitzDaily"
	defaultSolver       = "simpleFoam"
)

func New() kindapi.Handler {
	return kindapi.Handler{
		NewObject:        func() v1alpha1.BenchmarkObject { return &v1alpha1.OpenFOAM{} },
		NewList:          func() client.ObjectList { return &v1alpha1.OpenFOAMList{} },
		DefaultImage:     DefaultImage,
		RenderTasks:      RenderTasks,
		ResultSourceTask: constants.ComponentMaster,
		Parse:            Parse,
	}
}

func RenderTasks(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error) {
	foam, ok := obj.(*v1alpha1.OpenFOAM)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindOpenFOAM, obj)
	}

	common := foam.Spec.CommonSpec
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

	numProcesses := foam.Spec.NumProcesses
	if numProcesses <= 0 {
		numProcesses = defaultNumProcesses
	}
	caseName := foam.Spec.CaseName
	if caseName == "" {
		caseName = defaultCaseName
	}
	solver := foam.Spec.Solver
	if solver == "" {
		solver = defaultSolver
	}

	numWorkers := int32(numProcesses - 1)
	if numWorkers < 0 {
		numWorkers = 0
	}

	hostfile := render.PeerHostname(foam.Name, constants.ComponentMaster, 0)
	for i := int32(0); i < numWorkers; i++ {
		hostfile += "," + render.PeerHostname(foam.Name, constants.ComponentWorker, i)
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
			Command: []string{"mpirun",
				"-np", strconv.Itoa(numProcesses),
				"-hosts", hostfile,
				solver,
				"-case", caseName,
				"-parallel",
			},
			Resources: resources,
		},
	}

	tasks := []render.Task{master}
	if numWorkers > 0 {
		worker := render.Task{
			Name:      constants.ComponentWorker,
			Replicas:  numWorkers,
			Exclusive: true,
			Container: corev1.Container{
				Name:            constants.BenchmarkContainerName,
				Image:           image,
				ImagePullPolicy: pullPolicy,
				Command:         []string{"sshd", "-D"},
				Resources:       resources,
			},
		}
		tasks = append(tasks, worker)
	}

	return tasks, nil
}

// Package fio implements the Fio benchmark kind: a "master" task that drives
// fio against a shared volume and reports the aggregate result, plus
// "worker" tasks that mount the same volume so the master can fan reads/
// writes out across them (spec §4.5, spec §8 "Fio RWM" scenario).
package fio

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

const (
	DefaultImage = "ghcr.io/stackhpc/kube-perftest-fio:latest"

	defaultNumWorkers = 1
	defaultBlockSize  = "4k"
	defaultIODepth    = 16
	defaultRW         = "randread"
	defaultSize       = "1G"

	scratchVolumeName = "fio-scratch"
	scratchMountPath  = "/mnt/fio"
)

func New() kindapi.Handler {
	return kindapi.Handler{
		NewObject:        func() v1alpha1.BenchmarkObject { return &v1alpha1.Fio{} },
		NewList:          func() client.ObjectList { return &v1alpha1.FioList{} },
		DefaultImage:     DefaultImage,
		RenderTasks:      RenderTasks,
		ResultSourceTask: constants.ComponentMaster,
		Parse:            Parse,
		ExtraObjects:     ExtraObjects,
	}
}

// pvcName is deterministic per benchmark so RenderTasks (which only
// describes volumes) and ExtraObjects (which creates the backing PVC) agree
// on what to call it without passing state between them.
func pvcName(benchmarkName string) string {
	return benchmarkName + "-scratch"
}

func fioArgs(fio *v1alpha1.Fio) []string {
	blockSize := fio.Spec.BlockSize
	if blockSize == "" {
		blockSize = defaultBlockSize
	}
	ioDepth := fio.Spec.IODepth
	if ioDepth <= 0 {
		ioDepth = defaultIODepth
	}
	rw := fio.Spec.RW
	if rw == "" {
		rw = defaultRW
	}
	size := fio.Spec.Size
	if size == "" {
		size = defaultSize
	}

	return []string{
		"--name=kube-perftest",
		"--directory=" + scratchMountPath,
		"--rw=" + rw,
		"--bs=" + blockSize,
		"--iodepth=" + strconv.Itoa(ioDepth),
		"--size=" + size,
		"--output-format=json",
		"--group_reporting",
	}
}

func RenderTasks(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error) {
	fio, ok := obj.(*v1alpha1.Fio)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindFio, obj)
	}

	common := fio.Spec.CommonSpec
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

	numWorkers := int32(fio.Spec.NumWorkers)
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}

	var scratchVolume corev1.Volume
	if fio.Spec.VolumeClaimTemplate != nil {
		scratchVolume = corev1.Volume{
			Name: scratchVolumeName,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: pvcName(fio.Name),
				},
			},
		}
	} else {
		scratchVolume = corev1.Volume{
			Name:         scratchVolumeName,
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		}
	}
	scratchMount := corev1.VolumeMount{Name: scratchVolumeName, MountPath: scratchMountPath}

	args := fioArgs(fio)

	worker := render.Task{
		Name:     constants.ComponentWorker,
		Replicas: numWorkers,
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{"fio", "--server"},
			Resources:       resources,
			VolumeMounts:    []corev1.VolumeMount{scratchMount},
		},
		ExtraVolumes: []corev1.Volume{scratchVolume},
	}

	clientHosts := make([]string, numWorkers)
	for i := int32(0); i < numWorkers; i++ {
		clientHosts[i] = render.PeerHostname(fio.Name, constants.ComponentWorker, i)
	}
	masterArgs := append([]string{}, args...)
	for _, host := range clientHosts {
		masterArgs = append(masterArgs, "--client="+host)
	}

	master := render.Task{
		Name:         constants.ComponentMaster,
		Replicas:     1,
		CompletesJob: true,
		Container: corev1.Container{
			Name:            constants.BenchmarkContainerName,
			Image:           image,
			ImagePullPolicy: pullPolicy,
			Command:         []string{"fio"},
			Args:            masterArgs,
			Resources:       resources,
			VolumeMounts:    []corev1.VolumeMount{scratchMount},
		},
		ExtraVolumes: []corev1.Volume{scratchVolume},
	}

	return []render.Task{master, worker}, nil
}

// ExtraObjects provisions the single shared PVC every worker and the master
// mount (spec §8: "exactly one PVC created, not one per worker"). Fio
// benchmarks that omit VolumeClaimTemplate use EmptyDir instead and need no
// extra object.
func ExtraObjects(obj v1alpha1.BenchmarkObject, id render.Identity) ([]client.Object, error) {
	fio, ok := obj.(*v1alpha1.Fio)
	if !ok {
		return nil, kindapi.ErrWrongType(constants.KindFio, obj)
	}
	if fio.Spec.VolumeClaimTemplate == nil {
		return nil, nil
	}

	pvc := &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      pvcName(fio.Name),
			Namespace: id.Namespace,
		},
		Spec: *fio.Spec.VolumeClaimTemplate,
	}
	return []client.Object{pvc}, nil
}

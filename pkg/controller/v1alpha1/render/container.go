// Package render builds the Kubernetes child objects (Volcano Job or
// scheduler-plugins PodGroup, headless Service, discovery ConfigMap) for a
// single benchmark (spec §4.3). Per-kind renderers build the task container
// set; this file holds the container-fragment helpers shared by all of them,
// generalized from the teacher's inferenceservice container-composition
// helpers (pkg/controller/v1beta1/inferenceservice/utils/container.go).
package render

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

// AppendVolumeMount appends a volume mount unconditionally.
func AppendVolumeMount(container *corev1.Container, mount corev1.VolumeMount) {
	container.VolumeMounts = append(container.VolumeMounts, mount)
}

// AppendVolumeMountIfNotExist appends a volume mount unless one with the same
// name is already present.
func AppendVolumeMountIfNotExist(container *corev1.Container, mount corev1.VolumeMount) {
	for i := range container.VolumeMounts {
		if container.VolumeMounts[i].Name == mount.Name {
			return
		}
	}
	container.VolumeMounts = append(container.VolumeMounts, mount)
}

// AppendEnvVars appends environment variables unconditionally.
func AppendEnvVars(container *corev1.Container, envVars ...corev1.EnvVar) {
	container.Env = append(container.Env, envVars...)
}

// UpdateEnvVar sets envVar's value, replacing any existing entry with the
// same name rather than appending a duplicate.
func UpdateEnvVar(container *corev1.Container, envVar corev1.EnvVar) {
	for i := range container.Env {
		if container.Env[i].Name == envVar.Name {
			container.Env[i] = envVar
			return
		}
	}
	container.Env = append(container.Env, envVar)
}

// GetContainerIndex returns the index of the named container, or -1.
func GetContainerIndex(containers []corev1.Container, name string) int {
	for i := range containers {
		if containers[i].Name == name {
			return i
		}
	}
	return -1
}

// RequestedGPUs returns the container's requested nvidia.com/gpu count,
// preferring Limits over Requests, as used by the PyTorch renderer to derive
// pod scheduling hints from CommonSpec.Resources (spec §3 NumGPUs).
func RequestedGPUs(container *corev1.Container) int64 {
	resourceName := corev1.ResourceName("nvidia.com/gpu")
	if quantity, ok := container.Resources.Limits[resourceName]; ok {
		return quantity.Value()
	}
	if quantity, ok := container.Resources.Requests[resourceName]; ok {
		return quantity.Value()
	}
	return 0
}

// SetRequestedGPUs stamps numGPUs as both a request and a limit on the
// container's nvidia.com/gpu resource, used by the PyTorch renderer to turn
// spec.numGPUs into a scheduling hint (spec §3 NumGPUs). A numGPUs of zero
// or less leaves the container's resources untouched.
func SetRequestedGPUs(container *corev1.Container, numGPUs int64) {
	if numGPUs <= 0 {
		return
	}
	resourceName := corev1.ResourceName("nvidia.com/gpu")
	quantity := resource.NewQuantity(numGPUs, resource.DecimalSI)

	if container.Resources.Limits == nil {
		container.Resources.Limits = corev1.ResourceList{}
	}
	container.Resources.Limits[resourceName] = *quantity

	if container.Resources.Requests == nil {
		container.Resources.Requests = corev1.ResourceList{}
	}
	container.Resources.Requests[resourceName] = *quantity
}

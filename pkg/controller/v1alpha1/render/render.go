package render

import (
	corev1 "k8s.io/api/core/v1"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"
	volbatchv1alpha1 "volcano.sh/apis/pkg/apis/batch/v1alpha1"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/discovery"
)

// ChildObjects is everything Render produces for one benchmark. Exactly one
// of Job/PodGroup is populated, selected by Settings.SchedulerBackend
// (spec §6).
type ChildObjects struct {
	Job                *volbatchv1alpha1.Job
	PodGroup           *schedulerpluginsv1alpha1.PodGroup
	Service            *corev1.Service
	DiscoveryConfigMap *corev1.ConfigMap

	// PodTemplates holds one rendered pod template per task, keyed by task
	// name. The benchmark reconciler uses these directly to create bare
	// Pods when SchedulerBackend is "scheduler-plugins" (PodGroup has no
	// pod template of its own); under the default Volcano backend the same
	// templates are already embedded in Job.Spec.Tasks, and PodTemplates is
	// only consulted by tests asserting the two backends render equivalent
	// pods (SPEC_FULL §8.9).
	PodTemplates map[string]corev1.PodTemplateSpec
}

// Render turns a kind renderer's task list into the full set of child
// objects for a benchmark (spec §4.3): it fans in networking (HostNetwork/
// NetworkName/MTU, applyNetworking), the discovery protocol's ConfigMap,
// volume and init containers, and the gang-scheduler object for whichever
// backend Settings selects. Kind renderers (pkg/controller/v1alpha1/kinds/*)
// only ever build the benchmark tool container and any kind-specific
// volumes; everything else is uniform across kinds.
func Render(settings *controllerconfig.Settings, id Identity, priorityClassName string, common *v1alpha1.CommonSpec, tasks []Task) *ChildObjects {
	configMapName := discovery.ConfigMapName(id.Name)
	discoveryVolume := discovery.BuildVolume(configMapName)

	image := settings.DiscoveryContainerImage
	pullPolicy := corev1.PullPolicy(settings.DefaultImagePullPolicy)
	if common.ImagePullPolicy != "" {
		pullPolicy = common.ImagePullPolicy
	}

	taskInfos := make([]discovery.TaskInfo, 0, len(tasks))
	for _, task := range tasks {
		taskInfos = append(taskInfos, discovery.TaskInfo{Name: task.Name, Replicas: task.Replicas})
	}
	discoveryConfigMap := discovery.BuildConfigMap(id.Name, id.Namespace, taskInfos)

	rendered := make([]Task, len(tasks))
	for i, task := range tasks {
		task.ExtraVolumes = append(task.ExtraVolumes, discoveryVolume)
		task.Container.VolumeMounts = append(task.Container.VolumeMounts, corev1.VolumeMount{
			Name:      discoveryVolume.Name,
			MountPath: "/etc/kube-perftest",
		})
		task.Container.VolumeMounts = append(task.Container.VolumeMounts, corev1.VolumeMount{
			Name:      discoveryVolume.Name,
			MountPath: discovery.EtcHostsMountPath,
			SubPath:   discovery.HostsKey,
		})

		task.InitContainers = append(task.InitContainers,
			discovery.BuildWaitForPeersInitContainer(image, pullPolicy, task.Name, configMapName))
		if task.PeerPort != nil {
			task.InitContainers = append(task.InitContainers,
				discovery.BuildWaitForPortInitContainer(image, pullPolicy, task.Name, configMapName, *task.PeerPort))
		}

		rendered[i] = task
	}

	service := BuildHeadlessService(id.Name, &settings.Labels, id)

	podTemplates := make(map[string]corev1.PodTemplateSpec, len(rendered))
	for _, task := range rendered {
		podTemplates[task.Name] = BuildPodTemplate(settings, id, common, task)
	}

	children := &ChildObjects{
		Service:            service,
		DiscoveryConfigMap: discoveryConfigMap,
		PodTemplates:       podTemplates,
	}

	switch settings.SchedulerBackend {
	case constants.SchedulerPluginsBackendName:
		children.PodGroup = BuildPodGroup(id.Name, settings, id, rendered)
	default:
		children.Job = BuildVolcanoJob(id.Name, priorityClassName, settings, id, common, rendered)
	}

	return children
}

package render

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	busv1alpha1 "volcano.sh/apis/pkg/apis/bus/v1alpha1"
	volbatchv1alpha1 "volcano.sh/apis/pkg/apis/batch/v1alpha1"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
)

// BuildVolcanoJob renders the gang-scheduled Volcano Job backing a benchmark
// (spec §4.3), grounded on the teacher's reservation job builder
// (dac/reconcilers/volcanojob/reservation_job.go createReservationJob): one
// TaskSpec per Task, MinAvailable covering every replica so Volcano will not
// start the job until the whole gang can be scheduled at once.
func BuildVolcanoJob(name, priorityClassName string, settings *controllerconfig.Settings, id Identity, common *v1alpha1.CommonSpec, tasks []Task) *volbatchv1alpha1.Job {
	var minAvailable int32
	taskSpecs := make([]volbatchv1alpha1.TaskSpec, 0, len(tasks))
	for _, task := range tasks {
		minAvailable += task.Replicas
		taskSpecs = append(taskSpecs, buildTaskSpec(settings, id, common, task))
	}

	return &volbatchv1alpha1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: id.Namespace,
			Labels:    identitySelector(&settings.Labels, id),
		},
		Spec: volbatchv1alpha1.JobSpec{
			SchedulerName:     settings.SchedulerName,
			Queue:             settings.QueueName,
			PriorityClassName: priorityClassName,
			MinAvailable:      minAvailable,
			Tasks:             taskSpecs,
		},
	}
}

// BuildPodTemplate builds one task's pod template, shared by the Volcano Job
// path (buildTaskSpec) and the scheduler-plugins path, where the benchmark
// reconciler creates one bare Pod per replica from this same template
// instead of wrapping it in a Volcano TaskSpec.
func BuildPodTemplate(settings *controllerconfig.Settings, id Identity, common *v1alpha1.CommonSpec, task Task) corev1.PodTemplateSpec {
	meta := metav1.ObjectMeta{
		Labels: buildPodLabels(&settings.Labels, id, task.Name),
	}

	pod := corev1.PodSpec{
		RestartPolicy:  corev1.RestartPolicyNever,
		InitContainers: task.InitContainers,
		Containers:     []corev1.Container{task.Container},
		Volumes:        task.ExtraVolumes,
		Affinity:       buildAffinity(&settings.Labels, id, task),
		Subdomain:      headlessServiceName(id.Name),
		Hostname:       "", // left empty: Volcano/the reconciler assigns "<name>-<task>-<ordinal>" per pod
	}
	pod.TopologySpreadConstraints = buildTopologySpreadConstraints(&settings.Labels, id, task)

	applyNetworking(&pod, &meta, common)

	return corev1.PodTemplateSpec{ObjectMeta: meta, Spec: pod}
}

func buildTaskSpec(settings *controllerconfig.Settings, id Identity, common *v1alpha1.CommonSpec, task Task) volbatchv1alpha1.TaskSpec {
	template := BuildPodTemplate(settings, id, common, task)

	policies := []volbatchv1alpha1.LifecyclePolicy{
		{Event: volbatchv1alpha1.PodEvictedEvent, Action: busv1alpha1.RestartJobAction},
	}
	if task.CompletesJob {
		policies = append(policies, volbatchv1alpha1.LifecyclePolicy{
			Event:  volbatchv1alpha1.TaskCompletedEvent,
			Action: busv1alpha1.CompleteJobAction,
		})
	} else {
		policies = append(policies, volbatchv1alpha1.LifecyclePolicy{
			Event:  volbatchv1alpha1.TaskFailedEvent,
			Action: busv1alpha1.AbortJobAction,
		})
	}

	return volbatchv1alpha1.TaskSpec{
		Name:     task.Name,
		Replicas: task.Replicas,
		Policies: policies,
		Template: template,
	}
}

// headlessServiceName derives the child Service/Subdomain name from the
// benchmark name, shared by the Volcano Job task pods and
// BuildHeadlessService so pod DNS resolves without any extra wiring.
func headlessServiceName(benchmarkName string) string {
	return benchmarkName
}

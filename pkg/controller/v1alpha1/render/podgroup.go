package render

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"

	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
)

// BuildPodGroup renders the scheduler-plugins co-scheduling PodGroup, the
// alternate gang-scheduler backend (spec §6, SPEC_FULL §8.9). Pod templates
// still come from BuildPodTemplate; the benchmark reconciler creates these
// pods as bare Pods, one per replica (no Volcano Job), with the scheduler-plugins scheduler name and a
// "scheduling.x-k8s.io/pod-group" label matching PodGroup.Name.
func BuildPodGroup(name string, settings *controllerconfig.Settings, id Identity, tasks []Task) *schedulerpluginsv1alpha1.PodGroup {
	var minMember int32
	minResources := corev1.ResourceList{}
	for _, task := range tasks {
		minMember += task.Replicas
		addResourceList(minResources, task.Container.Resources.Requests, task.Replicas)
	}

	return &schedulerpluginsv1alpha1.PodGroup{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: id.Namespace,
			Labels:    identitySelector(&settings.Labels, id),
		},
		Spec: schedulerpluginsv1alpha1.PodGroupSpec{
			MinMember:    minMember,
			MinResources: minResources,
		},
	}
}

func addResourceList(total corev1.ResourceList, perPod corev1.ResourceList, replicas int32) {
	for name, quantity := range perPod {
		scaled := quantity.DeepCopy()
		scaled.Mul(int64(replicas))
		if existing, ok := total[name]; ok {
			existing.Add(scaled)
			total[name] = existing
		} else {
			total[name] = scaled
		}
	}
}

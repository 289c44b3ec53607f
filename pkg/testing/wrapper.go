package testing

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/ptr"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"
	volcanobatchv1alpha1 "volcano.sh/apis/pkg/apis/batch/v1alpha1"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// VolcanoJobWrapper is a fluent builder for volcano.sh/apis Job objects in
// tests, mirroring the rendered shape of a gang-scheduled benchmark.
type VolcanoJobWrapper struct {
	volcanobatchv1alpha1.Job
}

func MakeVolcanoJobWrapper(namespace, name string) *VolcanoJobWrapper {
	return &VolcanoJobWrapper{
		Job: volcanobatchv1alpha1.Job{
			TypeMeta: metav1.TypeMeta{
				APIVersion: volcanobatchv1alpha1.SchemeGroupVersion.String(),
				Kind:       "Job",
			},
			ObjectMeta: metav1.ObjectMeta{
				Namespace: namespace,
				Name:      name,
			},
			Spec: volcanobatchv1alpha1.JobSpec{
				SchedulerName: constants.VolcanoSchedulerName,
				Queue:         constants.DefaultQueueName,
			},
		},
	}
}

func (j *VolcanoJobWrapper) MinAvailable(n int32) *VolcanoJobWrapper {
	j.Spec.MinAvailable = n
	return j
}

func (j *VolcanoJobWrapper) Queue(queue string) *VolcanoJobWrapper {
	j.Spec.Queue = queue
	return j
}

func (j *VolcanoJobWrapper) PriorityClassName(name string) *VolcanoJobWrapper {
	j.Spec.PriorityClassName = name
	return j
}

func (j *VolcanoJobWrapper) Task(name string, replicas int32, container corev1.Container) *VolcanoJobWrapper {
	j.Spec.Tasks = append(j.Spec.Tasks, volcanobatchv1alpha1.TaskSpec{
		Name:     name,
		Replicas: replicas,
		Template: corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{
				Labels: map[string]string{
					constants.ComponentLabel: name,
				},
			},
			Spec: corev1.PodSpec{
				Containers:    []corev1.Container{container},
				RestartPolicy: corev1.RestartPolicyNever,
			},
		},
	})
	return j
}

func (j *VolcanoJobWrapper) Label(key, value string) *VolcanoJobWrapper {
	if j.ObjectMeta.Labels == nil {
		j.ObjectMeta.Labels = make(map[string]string, 1)
	}
	j.ObjectMeta.Labels[key] = value
	return j
}

func (j *VolcanoJobWrapper) ControllerReference(gvk schema.GroupVersionKind, name, uid string) *VolcanoJobWrapper {
	j.OwnerReferences = append(j.OwnerReferences, metav1.OwnerReference{
		APIVersion:         gvk.GroupVersion().String(),
		Kind:               gvk.Kind,
		Name:               name,
		UID:                types.UID(uid),
		Controller:         ptr.To(true),
		BlockOwnerDeletion: ptr.To(true),
	})
	return j
}

func (j *VolcanoJobWrapper) Conditions(state volcanobatchv1alpha1.JobPhase) *VolcanoJobWrapper {
	j.Status.State.Phase = state
	return j
}

func (j *VolcanoJobWrapper) Obj() *volcanobatchv1alpha1.Job {
	return &j.Job
}

// SchedulerPluginsPodGroupWrapper builds the alternate gang-scheduler backend
// object (scheduler-plugins' PodGroup) for tests exercising that path.
type SchedulerPluginsPodGroupWrapper struct {
	schedulerpluginsv1alpha1.PodGroup
}

func MakeSchedulerPluginsPodGroup(namespace, name string) *SchedulerPluginsPodGroupWrapper {
	return &SchedulerPluginsPodGroupWrapper{
		PodGroup: schedulerpluginsv1alpha1.PodGroup{
			TypeMeta: metav1.TypeMeta{
				APIVersion: schedulerpluginsv1alpha1.SchemeGroupVersion.String(),
				Kind:       "PodGroup",
			},
			ObjectMeta: metav1.ObjectMeta{
				Namespace: namespace,
				Name:      name,
			},
		},
	}
}

func (p *SchedulerPluginsPodGroupWrapper) MinMember(members int32) *SchedulerPluginsPodGroupWrapper {
	p.PodGroup.Spec.MinMember = members
	return p
}

func (p *SchedulerPluginsPodGroupWrapper) MinResources(resources corev1.ResourceList) *SchedulerPluginsPodGroupWrapper {
	p.PodGroup.Spec.MinResources = resources
	return p
}

func (p *SchedulerPluginsPodGroupWrapper) SchedulingTimeout(timeout int32) *SchedulerPluginsPodGroupWrapper {
	p.PodGroup.Spec.ScheduleTimeoutSeconds = &timeout
	return p
}

func (p *SchedulerPluginsPodGroupWrapper) ControllerReference(gvk schema.GroupVersionKind, name, uid string) *SchedulerPluginsPodGroupWrapper {
	p.OwnerReferences = append(p.OwnerReferences, metav1.OwnerReference{
		APIVersion:         gvk.GroupVersion().String(),
		Kind:               gvk.Kind,
		Name:               name,
		UID:                types.UID(uid),
		Controller:         ptr.To(true),
		BlockOwnerDeletion: ptr.To(true),
	})
	return p
}

func (p *SchedulerPluginsPodGroupWrapper) Obj() *schedulerpluginsv1alpha1.PodGroup {
	return &p.PodGroup
}

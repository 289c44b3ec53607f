package render

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
)

// Task is a kind renderer's description of one Volcano task (spec §4.3): a
// named, replicated group of identical pods. The top-level Render function
// turns a []Task into a Volcano Job or scheduler-plugins PodGroup plus a
// headless Service spanning every task.
type Task struct {
	// Name is the component name, e.g. "server"/"client" or "master"/"worker".
	Name string

	// Replicas is the pod count for this task.
	Replicas int32

	// Container is the benchmark tool container. The discovery init
	// container, MTU init container, volumes and affinity are added by
	// Render itself so every kind renderer gets them uniformly.
	Container corev1.Container

	// ExtraVolumes are kind-specific volumes the Container's VolumeMounts
	// reference (e.g. Fio's scratch PersistentVolumeClaim).
	ExtraVolumes []corev1.Volume

	// InitContainers are prepended to the pod spec ahead of the discovery
	// protocol's own wait-for-peers/wait-for-port init containers, which
	// Render appends after these. Kind renderers populate this only for
	// kind-specific setup (none currently need it); Render always adds the
	// discovery and MTU init containers itself.
	InitContainers []corev1.Container

	// Exclusive marks a task as network-sensitive: its pods must not share a
	// node with any other benchmark pod (spec §4.3 "exclusive" placement),
	// as opposed to the default "spread" placement which merely discourages
	// co-location of the benchmark's own pods.
	Exclusive bool

	// CompletesJob marks a task whose successful completion ends the whole
	// Volcano Job, e.g. a single-replica "master" task running the workload
	// driver while "worker" tasks are long-running daemons.
	CompletesJob bool

	// PeerPort, if set, adds a wait-for-port init container (spec §4.4 phase
	// two) blocking this task's pods until every peer listed under its own
	// ExpectedHostsKey accepts a connection on this port - used by a task
	// that dials out on startup (e.g. an iperf3 client) to avoid racing a
	// peer task's listening socket.
	PeerPort *int32
}

// Identity is the resolved {kind, namespace, name} triple stamped on every
// child object's identity labels (spec §3 "Labels").
type Identity struct {
	Kind      string
	Namespace string
	Name      string

	// SetName, if non-empty, is the owning BenchmarkSet's name, stamped onto
	// the set label for children of set-expanded benchmarks (spec §4.2).
	SetName string
}

// buildPodLabels returns the identity labels common to every pod template,
// plus the per-task component label.
func buildPodLabels(labels *controllerconfig.LabelNames, id Identity, taskName string) map[string]string {
	out := map[string]string{
		labels.KindLabel:      id.Kind,
		labels.NamespaceLabel: id.Namespace,
		labels.NameLabel:      id.Name,
		labels.ComponentLabel: taskName,
	}
	if id.SetName != "" {
		out["perftest.stackhpc.com/benchmark-set"] = id.SetName
	}
	return out
}

// identitySelector returns the label selector matching every pod belonging
// to the given benchmark, regardless of component - used by the headless
// Service and the discovery updater.
func identitySelector(labels *controllerconfig.LabelNames, id Identity) map[string]string {
	return map[string]string{
		labels.KindLabel:      id.Kind,
		labels.NamespaceLabel: id.Namespace,
		labels.NameLabel:      id.Name,
	}
}

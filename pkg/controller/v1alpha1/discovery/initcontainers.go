package discovery

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

const (
	volumeName = "discovery"
	mountPath  = "/etc/kube-perftest"

	// EtcHostsMountPath is where the "hosts" key alone is projected over
	// /etc/hosts, so the benchmark container can resolve peers by plain
	// hostname without any DNS changes (spec §4.4).
	EtcHostsMountPath = "/etc/hosts"
)

// BuildVolume projects the discovery ConfigMap into every task pod.
func BuildVolume(configMapName string) corev1.Volume {
	return corev1.Volume{
		Name: volumeName,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: configMapName},
			},
		},
	}
}

// BuildWaitForPeersInitContainer renders the first phase of the two-phase
// rendezvous dance (spec §4.4): block until HostsKey contains an entry for
// every DNS name listed under the task's own ExpectedHostsKey, then exit
// non-zero on purpose. The non-zero exit is deliberate - it forces kubelet to
// re-run the init container, which on the next attempt remounts the
// ConfigMap volume (and therefore picks up a "hosts" key kubelet had cached
// as stale) before finally exiting 0 once the roster is complete.
//
// The actual polling/remount-detection logic lives in the discovery
// container image (out of scope here, spec Non-goals); this function only
// renders the container that runs it.
func BuildWaitForPeersInitContainer(image string, pullPolicy corev1.PullPolicy, taskName, configMapName string) corev1.Container {
	return corev1.Container{
		Name:            constants.DiscoveryInitContainerName + "-peers",
		Image:           image,
		ImagePullPolicy: pullPolicy,
		Command:         []string{"/discovery-wait"},
		Args:            []string{"peers", "--expected-key", ExpectedHostsKey(taskName), "--hosts-key", HostsKey},
		VolumeMounts: []corev1.VolumeMount{
			{Name: volumeName, MountPath: mountPath},
		},
	}
}

// BuildWaitForPortInitContainer renders the second phase: once the hosts
// table is resolvable, block until every expected peer also has the given
// TCP port accepting connections, so a benchmark tool that dials out on
// startup (e.g. iperf3 client) never races a server that hasn't bound its
// listening socket yet.
func BuildWaitForPortInitContainer(image string, pullPolicy corev1.PullPolicy, taskName, configMapName string, port int32) corev1.Container {
	return corev1.Container{
		Name:            constants.DiscoveryInitContainerName + "-port",
		Image:           image,
		ImagePullPolicy: pullPolicy,
		Command:         []string{"/discovery-wait"},
		Args:            []string{"port", "--expected-key", ExpectedHostsKey(taskName), "--port", strconv.Itoa(int(port))},
		VolumeMounts: []corev1.VolumeMount{
			{Name: volumeName, MountPath: mountPath},
		},
	}
}

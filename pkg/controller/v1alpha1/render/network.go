package render

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
)

const mtuInitContainerName = "set-mtu"

// applyNetworking mutates a pod spec to honour CommonSpec's HostNetwork,
// NetworkName and MTU fields (spec §4.3). HostNetwork and NetworkName are
// mutually exclusive; the webhook rejects both being set (spec §7), so this
// function trusts its caller and applies whichever is set.
func applyNetworking(pod *corev1.PodSpec, meta *metav1.ObjectMeta, common *v1alpha1.CommonSpec) {
	if common.HostNetwork {
		pod.HostNetwork = true
		pod.DNSPolicy = corev1.DNSClusterFirstWithHostNet
	}

	if common.NetworkName != "" {
		if meta.Annotations == nil {
			meta.Annotations = map[string]string{}
		}
		meta.Annotations[constants.MultusNetworksAnnotation] = common.NetworkName
	}

	if common.MTU != nil {
		pod.InitContainers = append(pod.InitContainers, buildMTUInitContainer(*common.MTU))
	}
}

// buildMTUInitContainer renders the unprivileged init container, granted
// NET_ADMIN and NET_RAW, that sets the primary interface's MTU before the
// benchmark container starts. The
// interface name defaults to eth0 (the Multus default network's interface
// when NetworkName is also set).
func buildMTUInitContainer(mtu int) corev1.Container {
	return corev1.Container{
		Name:            mtuInitContainerName,
		Image:           "busybox",
		ImagePullPolicy: corev1.PullIfNotPresent,
		Command:         []string{"sh", "-c"},
		Args:            []string{"ip link set eth0 mtu $MTU_VALUE"},
		Env: []corev1.EnvVar{
			{Name: "MTU_VALUE", Value: strconv.Itoa(mtu)},
		},
		SecurityContext: &corev1.SecurityContext{
			Capabilities: &corev1.Capabilities{
				Add: []corev1.Capability{"NET_ADMIN", "NET_RAW"},
			},
			Privileged: ptr.To(false),
		},
	}
}

package render

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
)

// buildAffinity implements the two placement strategies spec §4.3 requires:
//
//   - spread (default): a preferred anti-affinity against the benchmark's
//     own pods plus a required node-affinity excluding control-plane nodes,
//     so replicas land on distinct worker nodes when the cluster has room
//     but the job still schedules under pressure.
//   - exclusive (Task.Exclusive, used by network-sensitive kinds like
//     IPerf/RDMA*/MPIPingPong): a required anti-affinity against ANY
//     benchmark pod (not just this one's), so a latency/bandwidth
//     measurement is never skewed by a noisy neighbour.
func buildAffinity(labels *controllerconfig.LabelNames, id Identity, task Task) *corev1.Affinity {
	ownSelector := &metav1.LabelSelector{MatchLabels: identitySelector(labels, id)}

	if task.Exclusive {
		anyBenchmarkSelector := &metav1.LabelSelector{
			MatchExpressions: []metav1.LabelSelectorRequirement{
				{Key: labels.KindLabel, Operator: metav1.LabelSelectorOpExists},
			},
		}
		return &corev1.Affinity{
			PodAntiAffinity: &corev1.PodAntiAffinity{
				RequiredDuringSchedulingIgnoredDuringExecution: []corev1.PodAffinityTerm{
					{
						LabelSelector: anyBenchmarkSelector,
						TopologyKey:   corev1.LabelHostname,
					},
				},
			},
		}
	}

	return &corev1.Affinity{
		NodeAffinity: &corev1.NodeAffinity{
			RequiredDuringSchedulingIgnoredDuringExecution: &corev1.NodeSelector{
				NodeSelectorTerms: []corev1.NodeSelectorTerm{
					{
						MatchExpressions: []corev1.NodeSelectorRequirement{
							{
								Key:      constants.ControlPlaneNodeLabelKey,
								Operator: corev1.NodeSelectorOpDoesNotExist,
							},
						},
					},
				},
			},
		},
		PodAntiAffinity: &corev1.PodAntiAffinity{
			PreferredDuringSchedulingIgnoredDuringExecution: []corev1.WeightedPodAffinityTerm{
				{
					Weight: 100,
					PodAffinityTerm: corev1.PodAffinityTerm{
						LabelSelector: ownSelector,
						TopologyKey:   corev1.LabelHostname,
					},
				},
			},
		},
	}
}

// buildTopologySpreadConstraints complements buildAffinity for spread tasks
// with more than one replica: maxSkew=1 across hostnames, keyed on the
// component label so different tasks of the same benchmark (e.g. "server"
// and "client") spread independently of each other.
func buildTopologySpreadConstraints(labels *controllerconfig.LabelNames, id Identity, task Task) []corev1.TopologySpreadConstraint {
	if task.Exclusive || task.Replicas <= 1 {
		return nil
	}
	return []corev1.TopologySpreadConstraint{
		{
			MaxSkew:           1,
			TopologyKey:       corev1.LabelHostname,
			WhenUnsatisfiable: corev1.ScheduleAnyway,
			LabelSelector: &metav1.LabelSelector{
				MatchLabels: buildPodLabels(labels, id, task.Name),
			},
		},
	}
}

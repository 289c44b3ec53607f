package render

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
)

// BuildHeadlessService builds the headless Service spanning every task of a
// benchmark (spec §4.3 "a headless Service so pods can resolve each other by
// task DNS name"). Volcano stamps each pod's hostname/subdomain from the
// Service's name, so pods become addressable as
// "<pod>.<service>.<namespace>.svc.cluster.local".
func BuildHeadlessService(name string, labels *controllerconfig.LabelNames, id Identity) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: id.Namespace,
			Labels:    identitySelector(labels, id),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP:                "None",
			Selector:                 identitySelector(labels, id),
			PublishNotReadyAddresses: true,
		},
	}
}

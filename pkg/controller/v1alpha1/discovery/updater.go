package discovery

import (
	"context"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// SyncHosts recomputes the discovery ConfigMap's "hosts" key from the
// benchmark's current pods (spec §4.4) and patches it if the roster changed.
// selector must match exactly the pods belonging to this benchmark (its
// identity labels, with no component label), since every task shares one
// discovery ConfigMap. Only pods with a PodIP already assigned contribute an
// entry: a pod whose IP isn't known yet simply isn't in the table, so its
// peers' wait-for-peers init containers keep blocking rather than resolving
// to nothing.
func SyncHosts(ctx context.Context, c client.Client, namespace, benchmarkName string, selector client.MatchingLabels) error {
	var pods corev1.PodList
	if err := c.List(ctx, &pods, client.InNamespace(namespace), selector); err != nil {
		return errors.Wrap(err, "listing benchmark pods")
	}

	entries := map[string]string{}
	for i := range pods.Items {
		pod := &pods.Items[i]
		if pod.Status.PodIP == "" || pod.Status.Phase != corev1.PodRunning {
			continue
		}
		hostname := pod.Spec.Hostname
		if hostname == "" {
			hostname = pod.Name
		}
		entries[hostname+"."+benchmarkName] = pod.Status.PodIP
	}

	var cm corev1.ConfigMap
	name := ConfigMapName(benchmarkName)
	if err := c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &cm); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return errors.Wrapf(err, "getting discovery configmap %s/%s", namespace, name)
	}

	previous := cm.Data[HostsKey]
	ApplyReadyHosts(&cm, entries)
	if cm.Data[HostsKey] == previous {
		return nil
	}

	if err := c.Update(ctx, &cm); err != nil {
		return errors.Wrapf(err, "updating discovery configmap %s/%s", namespace, name)
	}
	return nil
}

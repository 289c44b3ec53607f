// Package discovery implements the pod-discovery/rendezvous protocol (spec
// §4.4): a ConfigMap holding the expected peer roster and a live "hosts"
// table, filled in as pods start, plus the init containers that block a
// benchmark container from starting until its peers are resolvable. Grounded
// on the teacher's JSON-in-ConfigMap-key convention
// (pkg/controller/v1beta1/controllerconfig/configmap.go getComponentConfig),
// repurposed here to hold a plain-text hosts table instead of JSON config.
package discovery

import (
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TaskInfo is the minimal task shape the discovery package needs: a name and
// a replica count. It mirrors render.Task without importing package render,
// which itself imports package discovery to attach init containers.
type TaskInfo struct {
	Name     string
	Replicas int32
}

// HostsKey is the ConfigMap key holding the live "IP\tFQDN" roster, updated
// as pods become Running with an assigned PodIP. It starts empty; the
// wait-for-peers init container blocks until it is fully populated.
const HostsKey = "hosts"

// ConfigMapName derives the discovery ConfigMap's name from the benchmark
// name. One ConfigMap is shared by every task of a benchmark.
func ConfigMapName(benchmarkName string) string {
	return benchmarkName + "-hosts"
}

// ExpectedHostsKey is the per-task key holding the newline-separated list of
// DNS names a task's own pods should expect to resolve once "hosts" is
// populated — used by a task's wait-for-peers init container to know how
// many, and which, peers to wait for without seeing the whole cluster's
// roster (spec §4.4 "targeted waits").
func ExpectedHostsKey(taskName string) string {
	return taskName + "-hosts"
}

// PeerDNSName is the stable DNS name a task pod resolves as (spec §4.3/§4.4:
// "<bench>-<task>-<ordinal>.<bench>"), once the headless Service
// (render.BuildHeadlessService, subdomain == benchmark name) makes it
// addressable. It is deliberately not fully-qualified: the pod's own search
// domains include "<namespace>.svc.cluster.local", and /etc/hosts is matched
// against whatever string a benchmark tool is told to connect to, so both
// sides of the rendezvous must agree on exactly this short form.
func PeerDNSName(benchmarkName, taskName string, ordinal int32) string {
	return fmt.Sprintf("%s-%s-%d.%s", benchmarkName, taskName, ordinal, benchmarkName)
}

// BuildConfigMap renders the initial discovery ConfigMap for a benchmark:
// an empty "hosts" key and, for each task, a "<task>-hosts" key listing the
// DNS names that task's pods are expected to resolve.
func BuildConfigMap(benchmarkName, namespace string, tasks []TaskInfo) *corev1.ConfigMap {
	data := map[string]string{
		HostsKey: "",
	}

	for _, task := range tasks {
		names := make([]string, 0, task.Replicas)
		for i := int32(0); i < task.Replicas; i++ {
			names = append(names, PeerDNSName(benchmarkName, task.Name, i))
		}
		data[ExpectedHostsKey(task.Name)] = strings.Join(names, "\n")
	}

	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ConfigMapName(benchmarkName),
			Namespace: namespace,
		},
		Data: data,
	}
}

// ExpectedPeerCount returns the total number of pods across every task,
// i.e. the number of lines HostsKey must have before the roster is complete.
func ExpectedPeerCount(tasks []TaskInfo) int {
	var total int32
	for _, task := range tasks {
		total += task.Replicas
	}
	return int(total)
}

// ApplyReadyHosts rewrites the "hosts" key from the set of pods currently
// Running with an assigned IP (spec §4.4: the controller "fills in the hosts
// ConfigMap key as pods become ready"). The table is sorted for determinism
// so repeated reconciles that observe the same pod set produce byte-identical
// output and never trigger a needless ConfigMap update.
func ApplyReadyHosts(cm *corev1.ConfigMap, entries map[string]string) {
	lines := make([]string, 0, len(entries))
	for fqdn, ip := range entries {
		lines = append(lines, fmt.Sprintf("%s\t%s", ip, fqdn))
	}
	sort.Strings(lines)

	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	cm.Data[HostsKey] = strings.Join(lines, "\n")
}

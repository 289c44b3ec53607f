// Package logscraper implements the Summarising-state log scraper (spec
// §4.1/§4.5): fetch the designated result component's pod logs and hand
// them to the kind's parser. Grounded on the teacher's CoreV1 clientset
// usage for pod-scoped API calls (pkg/modelagent/scout.go).
package logscraper

import (
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Scraper reads logs for a benchmark's result component.
type Scraper struct {
	reader    client.Reader
	podLogsFn func(ctx context.Context, namespace, podName string) (string, error)
}

// NewScraper builds a Scraper. reader lists pods via the controller-runtime
// cache; kubeClient issues the actual log stream requests, which the
// controller-runtime client does not support directly.
func NewScraper(reader client.Reader, kubeClient kubernetes.Interface) *Scraper {
	return &Scraper{
		reader: reader,
		podLogsFn: func(ctx context.Context, namespace, podName string) (string, error) {
			return readPodLogs(ctx, kubeClient, namespace, podName)
		},
	}
}

// Fetch concatenates the logs of every Running or terminated pod matching
// the given identity/component selector, ordered by pod name for
// determinism, and returns the combined text. Pods that never started
// (Pending with no container statuses) are skipped rather than erroring,
// since a gang gone Summarising should already have all of its result
// component's pods scheduled.
func (s *Scraper) Fetch(ctx context.Context, namespace string, selector client.MatchingLabels) (string, error) {
	var pods corev1.PodList
	if err := s.reader.List(ctx, &pods, client.InNamespace(namespace), selector); err != nil {
		return "", errors.Wrap(err, "failed to list result component pods")
	}
	if len(pods.Items) == 0 {
		return "", errors.Errorf("no pods found matching selector %v in namespace %q", selector, namespace)
	}

	sort.Slice(pods.Items, func(i, j int) bool {
		return pods.Items[i].Name < pods.Items[j].Name
	})

	var combined bytes.Buffer
	for _, pod := range pods.Items {
		if pod.Status.Phase == corev1.PodPending && len(pod.Status.ContainerStatuses) == 0 {
			continue
		}
		logs, err := s.podLogsFn(ctx, namespace, pod.Name)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read logs for pod %q", pod.Name)
		}
		combined.WriteString(logs)
		combined.WriteString("\n")
	}

	if combined.Len() == 0 {
		return "", errors.New("result component pods produced no log output")
	}

	return combined.String(), nil
}

func readPodLogs(ctx context.Context, kubeClient kubernetes.Interface, namespace, podName string) (string, error) {
	req := kubeClient.CoreV1().Pods(namespace).GetLogs(podName, &corev1.PodLogOptions{})
	stream, err := req.Stream(ctx)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Selector builds the label selector for a benchmark's result component
// pods, reusing the same identity/component label scheme render.Task stamps
// on every pod (spec §3 "Labels").
func Selector(kindLabel, namespaceLabel, nameLabel, componentLabel, kind, namespace, name, component string) client.MatchingLabels {
	return client.MatchingLabels{
		kindLabel:      kind,
		namespaceLabel: namespace,
		nameLabel:      name,
		componentLabel: component,
	}
}

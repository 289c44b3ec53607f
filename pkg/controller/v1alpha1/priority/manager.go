// Package priority implements the priority manager (spec §4.6): on first
// reconcile of a new benchmark, allocate a numeric priority in a descending
// window from a monotonic counter, and materialize it as a cluster-scoped
// PriorityClass the benchmark's gang job inherits by name.
package priority

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	schedulingv1 "k8s.io/api/scheduling/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Manager allocates and reconciles PriorityClasses for benchmarks. The
// counter is the only shared mutable state in the reconciliation model
// (spec §5); every allocation goes through atomic.AddUint64 so concurrent
// reconciles of distinct benchmarks never hand out the same priority twice.
type Manager struct {
	client  client.Client
	min     int32
	max     int32
	counter uint64
}

// NewManager constructs a Manager whose allocations fall within
// [min, max]. min/max come from process settings (spec §6 "priority-class
// window [min,max]").
func NewManager(c client.Client, min, max int) *Manager {
	return &Manager{client: c, min: int32(min), max: int32(max)}
}

// className derives the cluster-scoped PriorityClass name for a benchmark.
// It is deterministic and namespace-qualified so identically-named
// benchmarks in different namespaces don't collide over the cluster-scoped
// resource.
func className(namespace, name string) string {
	return "kube-perftest-" + namespace + "-" + name
}

// EnsurePriorityClass allocates a new descending-window priority value the
// first time it's called for a given benchmark (idempotent thereafter: if
// the PriorityClass already exists, its value is returned unchanged rather
// than re-allocated, so retried Pending-state reconciles don't burn through
// the counter). It returns the PriorityClass name to stash on
// status.priorityClassName.
func (m *Manager) EnsurePriorityClass(ctx context.Context, namespace, name string) (string, error) {
	pcName := className(namespace, name)

	existing := &schedulingv1.PriorityClass{}
	err := m.client.Get(ctx, client.ObjectKey{Name: pcName}, existing)
	if err == nil {
		return pcName, nil
	}
	if !apierrors.IsNotFound(err) {
		return "", errors.Wrapf(err, "failed to look up priority class %q", pcName)
	}

	value := m.allocate()

	pc := &schedulingv1.PriorityClass{
		ObjectMeta: metav1.ObjectMeta{
			Name: pcName,
			Labels: map[string]string{
				"perftest.stackhpc.com/namespace": namespace,
				"perftest.stackhpc.com/name":      name,
			},
		},
		Value:         value,
		GlobalDefault: false,
		Description:   "Priority class for kube-perftest benchmark " + namespace + "/" + name,
	}

	if err := m.client.Create(ctx, pc); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return pcName, nil
		}
		return "", errors.Wrapf(err, "failed to create priority class %q", pcName)
	}

	return pcName, nil
}

// allocate returns the next descending priority value: max minus a
// monotonically increasing counter, floored at min so a long-running
// operator doesn't eventually allocate priorities below the configured
// window.
func (m *Manager) allocate() int32 {
	n := atomic.AddUint64(&m.counter, 1)
	value := m.max - int32(n)
	if value < m.min {
		value = m.min
	}
	return value
}

// DeletePriorityClass removes the benchmark's priority class, called when
// the benchmark itself is deleted (spec §4.6: "deletion of the benchmark
// triggers deletion of the priority class"). Absence is not an error: the
// priority class may never have been created, or may already be gone.
func (m *Manager) DeletePriorityClass(ctx context.Context, namespace, name string) error {
	pc := &schedulingv1.PriorityClass{
		ObjectMeta: metav1.ObjectMeta{Name: className(namespace, name)},
	}
	if err := m.client.Delete(ctx, pc); err != nil && !apierrors.IsNotFound(err) {
		return errors.Wrapf(err, "failed to delete priority class %q", pc.Name)
	}
	return nil
}

// Package benchmarkset implements the BenchmarkSet reconciler (spec §4.2):
// expand a template into one child benchmark per permutation, create them
// idempotently by name, and aggregate their phases into status.count/
// succeeded/failed. Grounded on the teacher's CheckResultType-driven
// idempotent-apply reconcilers (pkg/controller/v1beta1/dac/reconcilers/
// volcanoqueue/queue_reconciler.go), generalized from a single desired child
// to a fixed-size collection of children that are created once and never
// updated.
package benchmarkset

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
)

// Reconciler drives a BenchmarkSet's permutation expansion and aggregate
// status. Unlike the per-kind Benchmark Reconciler, a single instance
// handles every set regardless of its template's kind: the registry is only
// needed to resolve each child's concrete Go type.
type Reconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Registry registry.Registry
}

// Reconcile implements spec §4.2: expand the template on every call, with
// status.count frozen at the first reconcile (a later edit to permutations
// or repetitions changes the expanded children but never count), create any
// missing children by name, then recompute succeeded/failed from the
// children's current phases every call.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var set v1alpha1.BenchmarkSet
	if err := r.Get(ctx, req.NamespacedName, &set); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "failed to fetch benchmark set")
	}

	if !set.DeletionTimestamp.IsZero() {
		return r.reconcileDeletion(ctx, &set)
	}

	if !controllerutil.ContainsFinalizer(&set, constants.BenchmarkSetFinalizer) {
		controllerutil.AddFinalizer(&set, constants.BenchmarkSetFinalizer)
		if err := r.Update(ctx, &set); err != nil {
			return ctrl.Result{}, errors.Wrap(err, "failed to add finalizer")
		}
		return ctrl.Result{Requeue: true}, nil
	}

	handler, ok := r.Registry[set.Spec.Template.Kind]
	if !ok {
		return r.fail(ctx, &set, errors.Errorf("no registered handler for kind %q", set.Spec.Template.Kind))
	}

	manifests, err := Expand(set.Name, set.Spec)
	if err != nil {
		return r.fail(ctx, &set, errors.Wrap(err, "failed to expand permutations"))
	}

	if set.Status.Count == 0 {
		now := metav1.Now()
		set.Status.Count = len(manifests)
		set.Status.CreatedAt = &now
	}

	for _, manifest := range manifests {
		child, err := buildChild(handler, set.Namespace, manifest)
		if err != nil {
			return r.fail(ctx, &set, errors.Wrapf(err, "failed to build child %q", manifest.Name))
		}
		child.SetLabels(map[string]string{constants.SetLabel: set.Name})

		if err := controllerutil.SetControllerReference(&set, child, r.Scheme); err != nil {
			return ctrl.Result{}, errors.Wrap(err, "failed to set owner reference")
		}
		if err := r.Create(ctx, child); err != nil && !apierrors.IsAlreadyExists(err) {
			return ctrl.Result{}, errors.Wrapf(err, "failed to create child %q", manifest.Name)
		}
	}

	succeeded, failed, err := r.countChildren(ctx, handler, set.Namespace, manifests)
	if err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to list children")
	}
	set.Status.Succeeded = succeeded
	set.Status.Failed = failed

	if set.Status.IsTerminal() && set.Status.FinishedAt == nil {
		now := metav1.Now()
		set.Status.FinishedAt = &now
	}

	if err := r.Status().Update(ctx, &set); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status")
	}

	if set.Status.IsTerminal() {
		return ctrl.Result{}, nil
	}
	return ctrl.Result{Requeue: true}, nil
}

// fail records an expansion or configuration error as a terminal, fully
// failed set: all of status.count (set to 1 when the set was never
// expanded) is counted failed, mirroring the Benchmark reconciler's "a rendering error is a
// Failed outcome, not a retryable one" contract.
func (r *Reconciler) fail(ctx context.Context, set *v1alpha1.BenchmarkSet, cause error) (ctrl.Result, error) {
	now := metav1.Now()
	if set.Status.Count == 0 {
		set.Status.Count = 1
	}
	set.Status.Failed = set.Status.Count
	set.Status.Succeeded = 0
	set.Status.FinishedAt = &now

	if err := r.Status().Update(ctx, set); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status to failed")
	}
	return ctrl.Result{}, nil
}

// countChildren lists every expanded child by name and tallies terminal
// phases. A child that does not exist yet (still propagating from Create,
// or momentarily absent from a stale cache) is simply not counted either
// way, matching "recomputed from the current children's phases" rather than
// assuming an outcome for missing objects.
func (r *Reconciler) countChildren(ctx context.Context, handler kindapi.Handler, namespace string, manifests []ChildManifest) (succeeded, failed int, err error) {
	for _, manifest := range manifests {
		obj := handler.NewObject()
		getErr := r.Get(ctx, types.NamespacedName{Namespace: namespace, Name: manifest.Name}, obj)
		if getErr != nil {
			if apierrors.IsNotFound(getErr) {
				continue
			}
			return 0, 0, getErr
		}
		switch obj.GetStatus().Phase {
		case constants.PhaseSucceeded:
			succeeded++
		case constants.PhaseFailed:
			failed++
		}
	}
	return succeeded, failed, nil
}

// reconcileDeletion removes the set's finalizer; children carry owner
// references and are garbage collected by the API server.
func (r *Reconciler) reconcileDeletion(ctx context.Context, set *v1alpha1.BenchmarkSet) (ctrl.Result, error) {
	if !controllerutil.ContainsFinalizer(set, constants.BenchmarkSetFinalizer) {
		return ctrl.Result{}, nil
	}
	controllerutil.RemoveFinalizer(set, constants.BenchmarkSetFinalizer)
	if err := r.Update(ctx, set); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to remove finalizer")
	}
	return ctrl.Result{}, nil
}

// childEnvelope is the JSON shape a child manifest is re-marshalled into
// before being unmarshalled straight into the concrete kind type the
// registry resolves: BenchmarkObject exposes no generic spec setter, since
// each kind's Spec has its own Go type, so the object's dynamic type is
// populated through its own json.Unmarshal implementation instead of
// per-kind reflection.
type childEnvelope struct {
	Metadata metav1.ObjectMeta `json:"metadata"`
	Spec     json.RawMessage   `json:"spec"`
}

func buildChild(handler kindapi.Handler, namespace string, manifest ChildManifest) (v1alpha1.BenchmarkObject, error) {
	obj := handler.NewObject()

	envelope := childEnvelope{
		Metadata: metav1.ObjectMeta{Name: manifest.Name, Namespace: namespace},
		Spec:     manifest.SpecJSON,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal child envelope")
	}
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal child envelope")
	}
	return obj, nil
}

// SetupWithManager registers this Reconciler against BenchmarkSet objects,
// watching the concrete kind objects it owns through the registry so a
// child's phase change requeues its parent set.
func SetupWithManager(mgr ctrl.Manager, r *Reconciler, handlers registry.Registry) error {
	builder := ctrl.NewControllerManagedBy(mgr).For(&v1alpha1.BenchmarkSet{})
	for _, handler := range handlers {
		builder = builder.Owns(handler.NewObject())
	}
	return builder.Complete(r)
}

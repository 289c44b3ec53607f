// Package benchmark implements the generic Benchmark reconciler (spec
// §4.1): the Pending -> Preparing -> Running -> Summarising ->
// Succeeded/Failed state machine shared by every benchmark kind. One
// Reconciler instance is registered per kind (Kind field), all sharing the
// same kind registry so the reconcile loop never type-switches on the
// concrete object. Grounded on the teacher's BenchmarkJobReconciler
// (pkg/controller/v1beta1/benchmark/controller.go): fetch -> deletion/
// finalizer handling -> status-derived phase transition -> child reconcile,
// and its job.JobReconciler create-if-absent, immutable-after-creation
// child-object shape (reconcilers/job/job.go).
package benchmark

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"
	volbatchv1alpha1 "volcano.sh/apis/pkg/apis/batch/v1alpha1"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/discovery"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/kindapi"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/logscraper"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/priority"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

// Reconciler drives one benchmark kind's objects through the lifecycle
// state machine. Kind selects the registry entry this instance dispatches
// to; SetupWithManager is called once per kind with a distinct concrete
// object type (spec §4.8 "one controller per kind, sharing the registry").
type Reconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Log      logr.Logger

	Settings *controllerconfig.Settings
	Registry registry.Registry
	Priority *priority.Manager
	Scraper  *logscraper.Scraper

	// Kind is the registry key this Reconciler instance handles.
	Kind string
}

// Reconcile implements the state machine of spec §4.1. Each phase is
// handled by its own method; a phase method either advances status.phase
// and requeues, or determines the benchmark is not yet ready to advance and
// requeues without a phase change.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	handler, ok := r.Registry[r.Kind]
	if !ok {
		return ctrl.Result{}, errors.Errorf("no registered handler for kind %q", r.Kind)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Settings.ReconcileTimeout)
	defer cancel()

	obj := handler.NewObject()
	if err := r.Get(ctx, req.NamespacedName, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "failed to fetch benchmark")
	}

	if !obj.GetDeletionTimestamp().IsZero() {
		return r.reconcileDeletion(ctx, obj)
	}

	if !controllerutil.ContainsFinalizer(obj, constants.BenchmarkFinalizer) {
		controllerutil.AddFinalizer(obj, constants.BenchmarkFinalizer)
		if err := r.Update(ctx, obj); err != nil {
			return ctrl.Result{}, errors.Wrap(err, "failed to add finalizer")
		}
		return ctrl.Result{Requeue: true}, nil
	}

	status := obj.GetStatus()
	if status.IsTerminal() {
		return ctrl.Result{}, nil
	}

	switch status.Phase {
	case "", constants.PhasePending:
		return r.reconcilePending(ctx, obj)
	case constants.PhasePreparing:
		return r.reconcilePreparing(ctx, obj, handler)
	case constants.PhaseRunning:
		return r.reconcileRunning(ctx, obj, handler)
	case constants.PhaseSummarising:
		return r.reconcileSummarising(ctx, obj, handler)
	default:
		return ctrl.Result{}, errors.Errorf("benchmark %s/%s in unexpected phase %q", obj.GetNamespace(), obj.GetName(), status.Phase)
	}
}

// reconcilePending allocates the benchmark's priority class (spec §4.6) and
// advances to Preparing.
func (r *Reconciler) reconcilePending(ctx context.Context, obj v1alpha1.BenchmarkObject) (ctrl.Result, error) {
	pcName, err := r.Priority.EnsurePriorityClass(ctx, obj.GetNamespace(), obj.GetName())
	if err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to ensure priority class")
	}

	now := metav1.Now()
	status := obj.GetStatus()
	status.PriorityClassName = pcName
	status.StartedAt = &now
	status.Phase = constants.PhasePreparing

	if err := r.Status().Update(ctx, obj); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status to Preparing")
	}
	return ctrl.Result{Requeue: true}, nil
}

// reconcilePreparing renders and idempotently creates every child object
// (spec §4.3), then advances to Running. Children are only ever created,
// never updated: a benchmark's render inputs are immutable once Preparing
// starts, matching the teacher's job.JobReconciler ("Jobs are immutable
// after creation").
func (r *Reconciler) reconcilePreparing(ctx context.Context, obj v1alpha1.BenchmarkObject, handler kindapi.Handler) (ctrl.Result, error) {
	status := obj.GetStatus()
	id := render.Identity{Kind: r.Kind, Namespace: obj.GetNamespace(), Name: obj.GetName()}

	tasks, err := handler.RenderTasks(obj, r.Settings)
	if err != nil {
		return r.fail(ctx, obj, errors.Wrap(err, "failed to render tasks"))
	}

	children := render.Render(r.Settings, id, status.PriorityClassName, obj.GetCommonSpec(), tasks)

	toCreate := []client.Object{children.Service, children.DiscoveryConfigMap}
	if children.Job != nil {
		toCreate = append(toCreate, children.Job)
	}
	if children.PodGroup != nil {
		toCreate = append(toCreate, children.PodGroup)
		toCreate = append(toCreate, bareReplicaPods(id, tasks, children.PodTemplates)...)
	}

	if handler.ExtraObjects != nil {
		extra, err := handler.ExtraObjects(obj, id)
		if err != nil {
			return r.fail(ctx, obj, errors.Wrap(err, "failed to build extra objects"))
		}
		toCreate = append(toCreate, extra...)
	}

	for _, child := range toCreate {
		if err := r.createIfNotExists(ctx, obj, child); err != nil {
			return ctrl.Result{}, errors.Wrapf(err, "failed to create %T %q", child, child.GetName())
		}
	}

	status.Phase = constants.PhaseRunning
	if err := r.Status().Update(ctx, obj); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status to Running")
	}
	return ctrl.Result{Requeue: true}, nil
}

// reconcileRunning keeps the discovery ConfigMap's live hosts table in sync
// (spec §4.4) and watches the result component's pods for completion. A
// kind's ResultSourceTask is always the task whose successful completion
// also ends the Volcano Job (render.Task.CompletesJob); the benchmark
// reconciler relies on this coupling rather than re-deriving it from the
// rendered task list.
func (r *Reconciler) reconcileRunning(ctx context.Context, obj v1alpha1.BenchmarkObject, handler kindapi.Handler) (ctrl.Result, error) {
	selector := logscraper.Selector(
		r.Settings.Labels.KindLabel, r.Settings.Labels.NamespaceLabel, r.Settings.Labels.NameLabel, r.Settings.Labels.ComponentLabel,
		r.Kind, obj.GetNamespace(), obj.GetName(), handler.ResultSourceTask,
	)

	identitySelector := client.MatchingLabels{
		r.Settings.Labels.KindLabel:      r.Kind,
		r.Settings.Labels.NamespaceLabel: obj.GetNamespace(),
		r.Settings.Labels.NameLabel:      obj.GetName(),
	}
	if err := discovery.SyncHosts(ctx, r.Client, obj.GetNamespace(), obj.GetName(), identitySelector); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to sync discovery hosts")
	}

	var pods corev1.PodList
	if err := r.List(ctx, &pods, client.InNamespace(obj.GetNamespace()), selector); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to list result component pods")
	}
	if len(pods.Items) == 0 {
		return ctrl.Result{Requeue: true}, nil
	}

	for _, pod := range pods.Items {
		if pod.Status.Phase == corev1.PodFailed {
			return r.fail(ctx, obj, errors.Errorf("result component pod %q failed", pod.Name))
		}
	}

	for _, pod := range pods.Items {
		if pod.Status.Phase != corev1.PodSucceeded {
			return ctrl.Result{Requeue: true}, nil
		}
	}

	status := obj.GetStatus()
	status.Phase = constants.PhaseSummarising
	if err := r.Status().Update(ctx, obj); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status to Summarising")
	}
	return ctrl.Result{Requeue: true}, nil
}

// reconcileSummarising scrapes the result component's logs and parses them
// into the benchmark's result (spec §4.5), reaching a terminal phase either
// way: a parse failure is itself a Failed outcome, not a retryable error,
// since the logs that produced it won't change on a re-scrape.
func (r *Reconciler) reconcileSummarising(ctx context.Context, obj v1alpha1.BenchmarkObject, handler kindapi.Handler) (ctrl.Result, error) {
	selector := logscraper.Selector(
		r.Settings.Labels.KindLabel, r.Settings.Labels.NamespaceLabel, r.Settings.Labels.NameLabel, r.Settings.Labels.ComponentLabel,
		r.Kind, obj.GetNamespace(), obj.GetName(), handler.ResultSourceTask,
	)

	scrapeCtx, cancel := context.WithTimeout(ctx, r.Settings.LogScrapeTimeout)
	defer cancel()

	logs, err := r.Scraper.Fetch(scrapeCtx, obj.GetNamespace(), selector)
	if err != nil {
		return r.fail(ctx, obj, errors.Wrap(err, "failed to fetch result component logs"))
	}

	result, err := handler.Parse(logs)
	if err != nil {
		return r.fail(ctx, obj, errors.Wrap(err, "failed to parse benchmark result"))
	}

	now := metav1.Now()
	status := obj.GetStatus()
	status.Phase = constants.PhaseSucceeded
	status.Result = result
	status.FinishedAt = &now

	if err := r.Status().Update(ctx, obj); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status to Succeeded")
	}
	return ctrl.Result{}, nil
}

// fail transitions a benchmark to Failed with the given reason. It always
// returns a nil error alongside ctrl.Result{}: a benchmark that can't
// proceed is a terminal outcome recorded on status, not a reconcile error
// to retry.
func (r *Reconciler) fail(ctx context.Context, obj v1alpha1.BenchmarkObject, cause error) (ctrl.Result, error) {
	now := metav1.Now()
	status := obj.GetStatus()
	status.Phase = constants.PhaseFailed
	status.FailureReason = cause.Error()
	status.FinishedAt = &now

	if err := r.Status().Update(ctx, obj); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to update status to Failed")
	}
	return ctrl.Result{}, nil
}

// reconcileDeletion removes the benchmark's priority class (spec §4.6
// "deletion of the benchmark triggers deletion of the priority class") and
// its finalizer. Child objects carry owner references and are garbage
// collected by the API server, not by this reconciler.
func (r *Reconciler) reconcileDeletion(ctx context.Context, obj v1alpha1.BenchmarkObject) (ctrl.Result, error) {
	if !controllerutil.ContainsFinalizer(obj, constants.BenchmarkFinalizer) {
		return ctrl.Result{}, nil
	}

	if err := r.Priority.DeletePriorityClass(ctx, obj.GetNamespace(), obj.GetName()); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to delete priority class")
	}

	controllerutil.RemoveFinalizer(obj, constants.BenchmarkFinalizer)
	if err := r.Update(ctx, obj); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "failed to remove finalizer")
	}
	return ctrl.Result{}, nil
}

// createIfNotExists creates child with an owner reference back to obj,
// tolerating AlreadyExists: children are immutable once created (spec §4.3),
// so a second reconcile finding them already present is the expected
// steady state, not a conflict to resolve.
func (r *Reconciler) createIfNotExists(ctx context.Context, obj v1alpha1.BenchmarkObject, child client.Object) error {
	if err := controllerutil.SetControllerReference(obj, child, r.Scheme); err != nil {
		return errors.Wrap(err, "failed to set owner reference")
	}

	err := r.Create(ctx, child)
	if err == nil || apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// bareReplicaPods builds one Pod per replica for every task, from the pod
// templates render.Render produced, used only under the scheduler-plugins
// backend (spec §6/§8.9): a PodGroup carries no pod template of its own, so
// the reconciler must create the pods directly rather than delegating to a
// Volcano Job. Pod name and hostname both use podHostname's "<name>-<task>-
// <ordinal>" scheme - the hostname half of discovery.PeerDNSName, whose
// other half (the "."+benchmarkName domain) is already the Subdomain
// render.BuildPodTemplate set.
func bareReplicaPods(id render.Identity, tasks []render.Task, podTemplates map[string]corev1.PodTemplateSpec) []client.Object {
	var pods []client.Object
	for _, task := range tasks {
		template, ok := podTemplates[task.Name]
		if !ok {
			continue
		}
		for ordinal := int32(0); ordinal < task.Replicas; ordinal++ {
			name := podHostname(id.Name, task.Name, ordinal)
			spec := template.Spec
			spec.Hostname = name
			pods = append(pods, &corev1.Pod{
				ObjectMeta: metav1.ObjectMeta{
					Name:      name,
					Namespace: id.Namespace,
					Labels:    template.ObjectMeta.Labels,
				},
				Spec: spec,
			})
		}
	}
	return pods
}

// podHostname reproduces the hostname half of discovery.PeerDNSName without
// its trailing ".<benchmarkName>" domain suffix, which is invalid in a Pod
// object's Name/Hostname fields (the Subdomain field supplies it instead).
func podHostname(benchmarkName, taskName string, ordinal int32) string {
	return fmt.Sprintf("%s-%s-%d", benchmarkName, taskName, ordinal)
}

// SetupWithManager registers this Reconciler against the concrete kind
// object/list the handler describes, watching the child objects it owns.
// Which gang-scheduler object is watched depends on Settings.SchedulerBackend
// (spec §6), fixed for the whole operator process.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager, handler kindapi.Handler) error {
	builder := ctrl.NewControllerManagedBy(mgr).
		For(handler.NewObject()).
		Owns(&corev1.Pod{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{})

	if r.Settings.SchedulerBackend == constants.SchedulerPluginsBackendName {
		builder = builder.Owns(&schedulerpluginsv1alpha1.PodGroup{})
	} else {
		builder = builder.Owns(&volbatchv1alpha1.Job{})
	}

	return builder.Complete(r)
}

package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	schedulingv1 "k8s.io/api/scheduling/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/logscraper"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/priority"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
	testutils "github.com/stackhpc/kube-perftest/pkg/testing"
)

func newTestReconciler(t *testing.T, objs ...client.Object) (*Reconciler, client.Client) {
	t.Helper()
	c := testutils.NewClientBuilder().WithObjects(objs...).WithStatusSubresource(&v1alpha1.IPerf{}).Build()

	settings, err := controllerconfig.NewSettings(viper.New(), "")
	require.NoError(t, err)

	return &Reconciler{
		Client:   c,
		Scheme:   c.Scheme(),
		Recorder: record.NewFakeRecorder(10),
		Settings: settings,
		Registry: registry.NewRegistry(),
		Priority: priority.NewManager(c, settings.PriorityMin, settings.PriorityMax),
		Scraper:  logscraper.NewScraper(c, fake.NewSimpleClientset()),
		Kind:     constants.KindIPerf,
	}, c
}

func newIPerf(name string) *v1alpha1.IPerf {
	return &v1alpha1.IPerf{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       v1alpha1.IPerfSpec{Streams: 4, Duration: 10},
	}
}

func reconcile(t *testing.T, r *Reconciler, name string) ctrl.Result {
	t.Helper()
	result, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "default", Name: name}})
	require.NoError(t, err)
	return result
}

func TestReconcile_NotFoundIsNotAnError(t *testing.T) {
	r, _ := newTestReconciler(t)
	result := reconcile(t, r, "missing")
	assert.Equal(t, ctrl.Result{}, result)
}

func TestReconcile_AddsFinalizerFirst(t *testing.T) {
	obj := newIPerf("bench")
	r, c := newTestReconciler(t, obj)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Contains(t, got.Finalizers, constants.BenchmarkFinalizer)
	assert.Equal(t, constants.BenchmarkPhase(""), got.Status.Phase)
}

func TestReconcile_PendingAllocatesPriorityAndAdvances(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	r, c := newTestReconciler(t, obj)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Equal(t, constants.PhasePreparing, got.Status.Phase)
	require.NotEmpty(t, got.Status.PriorityClassName)
	assert.NotNil(t, got.Status.StartedAt)

	var pc schedulingv1.PriorityClass
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Name: got.Status.PriorityClassName}, &pc))
}

func TestReconcile_PreparingCreatesChildrenAndAdvances(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhasePreparing
	obj.Status.PriorityClassName = "kube-perftest-default-bench"
	r, c := newTestReconciler(t, obj)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Equal(t, constants.PhaseRunning, got.Status.Phase)

	var svc corev1.Service
	assert.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &svc))

	var cm corev1.ConfigMap
	assert.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench-hosts"}, &cm))
}

func TestReconcile_PreparingIsIdempotent(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhasePreparing
	obj.Status.PriorityClassName = "kube-perftest-default-bench"
	r, c := newTestReconciler(t, obj)

	reconcile(t, r, "bench")

	// Put the benchmark back into Preparing so the second pass re-runs child
	// creation against the children the first pass already created.
	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	got.Status.Phase = constants.PhasePreparing
	require.NoError(t, c.Status().Update(context.Background(), &got))

	result := reconcile(t, r, "bench")
	assert.Equal(t, ctrl.Result{Requeue: true}, result)
}

func TestReconcile_RunningWaitsForResultPodsToSucceed(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhaseRunning

	clientPod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "bench-client-0",
			Namespace: "default",
			Labels: map[string]string{
				"perftest.stackhpc.com/kind":      constants.KindIPerf,
				"perftest.stackhpc.com/namespace": "default",
				"perftest.stackhpc.com/name":      "bench",
				"perftest.stackhpc.com/component": "client",
			},
		},
		Status: corev1.PodStatus{Phase: corev1.PodRunning},
	}
	r, c := newTestReconciler(t, obj, clientPod)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Equal(t, constants.PhaseRunning, got.Status.Phase, "should not advance while the result pod is still Running")
}

func TestReconcile_RunningAdvancesToSummarisingOnSuccess(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhaseRunning

	clientPod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "bench-client-0",
			Namespace: "default",
			Labels: map[string]string{
				"perftest.stackhpc.com/kind":      constants.KindIPerf,
				"perftest.stackhpc.com/namespace": "default",
				"perftest.stackhpc.com/name":      "bench",
				"perftest.stackhpc.com/component": "client",
			},
		},
		Status: corev1.PodStatus{Phase: corev1.PodSucceeded},
	}
	r, c := newTestReconciler(t, obj, clientPod)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Equal(t, constants.PhaseSummarising, got.Status.Phase)
}

func TestReconcile_RunningFailsWhenResultPodFails(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhaseRunning

	clientPod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "bench-client-0",
			Namespace: "default",
			Labels: map[string]string{
				"perftest.stackhpc.com/kind":      constants.KindIPerf,
				"perftest.stackhpc.com/namespace": "default",
				"perftest.stackhpc.com/name":      "bench",
				"perftest.stackhpc.com/component": "client",
			},
		},
		Status: corev1.PodStatus{Phase: corev1.PodFailed},
	}
	r, c := newTestReconciler(t, obj, clientPod)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Equal(t, constants.PhaseFailed, got.Status.Phase)
	assert.NotEmpty(t, got.Status.FailureReason)
	assert.NotNil(t, got.Status.FinishedAt)
}

func TestReconcile_SummarisingFailsWhenNoResultPodsExist(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhaseSummarising
	r, c := newTestReconciler(t, obj)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got))
	assert.Equal(t, constants.PhaseFailed, got.Status.Phase)
}

func TestReconcile_TerminalPhaseIsANoop(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.Phase = constants.PhaseSucceeded
	obj.Status.Result = &v1alpha1.BenchmarkResult{Summary: "done"}
	r, _ := newTestReconciler(t, obj)

	result := reconcile(t, r, "bench")
	assert.Equal(t, ctrl.Result{}, result)
}

func TestReconcile_DeletionRemovesFinalizerAndPriorityClass(t *testing.T) {
	obj := newIPerf("bench")
	obj.Finalizers = []string{constants.BenchmarkFinalizer}
	obj.Status.PriorityClassName = "kube-perftest-default-bench"
	now := metav1.NewTime(time.Now())
	obj.DeletionTimestamp = &now

	pc := &schedulingv1.PriorityClass{
		ObjectMeta: metav1.ObjectMeta{Name: "kube-perftest-default-bench"},
		Value:      999,
	}
	r, c := newTestReconciler(t, obj, pc)

	reconcile(t, r, "bench")

	var got v1alpha1.IPerf
	err := c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "bench"}, &got)
	require.NoError(t, err)
	assert.NotContains(t, got.Finalizers, constants.BenchmarkFinalizer)

	var gotPC schedulingv1.PriorityClass
	err = c.Get(context.Background(), types.NamespacedName{Name: "kube-perftest-default-bench"}, &gotPC)
	assert.Error(t, err, "priority class should have been deleted")
}

// Package kindapi declares the contract a benchmark kind implements (spec
// §4.8 kind registry): how to render its tasks, which pod's logs carry its
// result, and how to parse that result. It is a narrow leaf package so both
// the per-kind packages and the registry that assembles them can depend on
// it without an import cycle.
package kindapi

import (
	"github.com/pkg/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/render"
)

// Handler bundles everything the generic Benchmark reconciler (spec §4.1)
// needs from a kind, dispatched through the kind registry (spec §4.8)
// instead of a type switch in the reconcile loop.
type Handler struct {
	// NewObject returns a zero-valued instance of the kind's concrete type,
	// used as the target of client.Get/client.List.
	NewObject func() v1alpha1.BenchmarkObject

	// NewList returns a zero-valued list object of the kind's concrete type.
	NewList func() client.ObjectList

	// DefaultImage is used for spec.image when a benchmark leaves it empty.
	DefaultImage string

	// RenderTasks builds the kind's task list (spec §4.3) from the concrete
	// object; obj's dynamic type always matches what NewObject returns.
	RenderTasks func(obj v1alpha1.BenchmarkObject, settings *controllerconfig.Settings) ([]render.Task, error)

	// ResultSourceTask names the task whose pods' logs hold the
	// benchmark's result (spec §4.5), e.g. "client" for IPerf and PyTorch
	// or "master" for Fio.
	ResultSourceTask string

	// Parse turns the concatenated log output of that task's pods into a
	// BenchmarkResult.
	Parse func(logOutput string) (*v1alpha1.BenchmarkResult, error)

	// ExtraObjects builds any cluster objects a kind needs beyond the
	// uniform Job/PodGroup/Service/ConfigMap that render.Render already
	// produces, e.g. Fio's single shared PersistentVolumeClaim mounted by
	// every worker replica (spec §8 "Fio RWM" scenario). Most kinds leave
	// this nil.
	ExtraObjects func(obj v1alpha1.BenchmarkObject, id render.Identity) ([]client.Object, error)
}

// ErrWrongType reports a registry/object mismatch: a RenderTasks or Parse
// implementation was invoked with an object of a different kind than the one
// it's registered under. This should only ever happen from a programmer
// error wiring the registry (spec §9 dynamic dispatch by kind), never from
// user input, so callers log and re-queue rather than surface it on status.
func ErrWrongType(kind string, obj v1alpha1.BenchmarkObject) error {
	return errors.Errorf("kind registry mismatch: handler for %q invoked with object of type %T", kind, obj)
}

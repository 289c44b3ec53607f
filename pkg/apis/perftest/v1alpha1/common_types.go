package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// CommonSpec holds the fields every benchmark kind shares (spec §3/§6).
type CommonSpec struct {
	// Image is the benchmark tool container image. Defaults to the kind's
	// registered default overlay image when empty.
	// +optional
	Image string `json:"image,omitempty"`

	// ImagePullPolicy for the benchmark and discovery containers.
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy corev1.PullPolicy `json:"imagePullPolicy,omitempty"`

	// HostNetwork runs benchmark pods in the host network namespace. Mutually
	// exclusive with NetworkName (spec §7: contradictory fields are a
	// Configuration error).
	// +optional
	HostNetwork bool `json:"hostNetwork,omitempty"`

	// NetworkName is a Multus NetworkAttachmentDefinition reference in
	// "<namespace>/<name>" form, annotated onto the pod template.
	// +optional
	NetworkName string `json:"networkName,omitempty"`

	// MTU, if set, is applied to eth0 (or the Multus default interface) by
	// an init container with NET_ADMIN/NET_RAW capabilities.
	// +optional
	MTU *int `json:"mtu,omitempty"`

	// Resources requested/limited for every task container.
	// +optional
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
}

// BenchmarkResult is the fixed result schema every per-kind parser produces
// (spec §4.5). Values carries kind-specific scalars already formatted as
// strings (e.g. "bandwidth_gbps": "0.98"); Summary is a short human-readable
// rendering of the same data, used for round-trip parser tests (spec §8.7).
type BenchmarkResult struct {
	// Summary is a one-line human-readable rendering of Values.
	Summary string `json:"summary,omitempty"`

	// Values holds the parsed, formatted result fields, keyed by name.
	// +optional
	Values map[string]string `json:"values,omitempty"`
}

// BenchmarkStatus reflects the lifecycle state of a benchmark (spec §3/§4.1).
type BenchmarkStatus struct {
	// Phase is the coarse lifecycle state.
	// +kubebuilder:validation:Enum=Pending;Preparing;Running;Summarising;Succeeded;Failed;Terminating
	// +optional
	Phase constants.BenchmarkPhase `json:"phase,omitempty"`

	// PriorityClassName is the cluster-scoped PriorityClass created for this
	// benchmark (spec §4.6). Non-empty before any child job is created.
	// +optional
	PriorityClassName string `json:"priorityClassName,omitempty"`

	// StartedAt is set on first reconcile (Pending entry action).
	// +optional
	StartedAt *metav1.Time `json:"startedAt,omitempty"`

	// FinishedAt is set when Phase becomes Succeeded or Failed, never after.
	// +optional
	FinishedAt *metav1.Time `json:"finishedAt,omitempty"`

	// Result is populated only when Phase == Succeeded.
	// +optional
	Result *BenchmarkResult `json:"result,omitempty"`

	// FailureReason is a human-readable reason, set only when Phase == Failed.
	// +optional
	FailureReason string `json:"failureReason,omitempty"`
}

// IsTerminal reports whether phase is one of the two terminal phases, past
// which status is immutable (spec §3 invariants, §8.6).
func (s *BenchmarkStatus) IsTerminal() bool {
	return s.Phase == constants.PhaseSucceeded || s.Phase == constants.PhaseFailed
}

// DeepCopyInto is a hand-written deepcopy, no codegen tooling available in
// this workspace.
func (in *CommonSpec) DeepCopyInto(out *CommonSpec) {
	*out = *in
	if in.MTU != nil {
		out.MTU = new(int)
		*out.MTU = *in.MTU
	}
	if in.Resources != nil {
		out.Resources = in.Resources.DeepCopy()
	}
}

func (in *CommonSpec) DeepCopy() *CommonSpec {
	if in == nil {
		return nil
	}
	out := new(CommonSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkResult) DeepCopyInto(out *BenchmarkResult) {
	*out = *in
	if in.Values != nil {
		out.Values = make(map[string]string, len(in.Values))
		for k, v := range in.Values {
			out.Values[k] = v
		}
	}
}

func (in *BenchmarkResult) DeepCopy() *BenchmarkResult {
	if in == nil {
		return nil
	}
	out := new(BenchmarkResult)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkStatus) DeepCopyInto(out *BenchmarkStatus) {
	*out = *in
	if in.StartedAt != nil {
		out.StartedAt = in.StartedAt.DeepCopy()
	}
	if in.FinishedAt != nil {
		out.FinishedAt = in.FinishedAt.DeepCopy()
	}
	if in.Result != nil {
		out.Result = in.Result.DeepCopy()
	}
}

func (in *BenchmarkStatus) DeepCopy() *BenchmarkStatus {
	if in == nil {
		return nil
	}
	out := new(BenchmarkStatus)
	in.DeepCopyInto(out)
	return out
}

// BenchmarkObject is implemented by every per-kind benchmark type, letting
// a single generic reconciler (spec §4.1) drive all seven kinds without a
// type switch in the reconcile loop itself; kind-specific behaviour is
// dispatched through the kind registry (spec §4.8) instead.
type BenchmarkObject interface {
	client.Object

	// GetCommonSpec returns the fields shared across every kind.
	GetCommonSpec() *CommonSpec

	// GetStatus returns a pointer to the object's status, mutated in place
	// by the reconciler and persisted via a status subresource update.
	GetStatus() *BenchmarkStatus

	// GetKind returns the kind registry key for this object, e.g. "IPerf".
	GetKind() string
}

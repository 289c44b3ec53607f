package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// IPerfSpec is the specification for an IPerf network-throughput benchmark
// (spec §4.5, SPEC_FULL §3).
type IPerfSpec struct {
	CommonSpec `json:",inline"`

	// Streams is the number of parallel iperf3 streams (-P).
	// +optional
	Streams int `json:"streams,omitempty"`

	// Duration is the test duration in seconds (-t).
	// +optional
	Duration int `json:"duration,omitempty"`

	// Bidirectional runs iperf3 in bidirectional mode (--bidir).
	// +optional
	Bidirectional bool `json:"bidirectional,omitempty"`
}

// IPerf is the schema for the IPerf benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type IPerf struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   IPerfSpec       `json:"spec,omitempty"`
	Status BenchmarkStatus `json:"status,omitempty"`
}

// IPerfList contains a list of IPerf benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type IPerfList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []IPerf `json:"items"`
}

func (b *IPerf) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *IPerf) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *IPerf) GetKind() string             { return constants.KindIPerf }

func init() {
	SchemeBuilder.Register(&IPerf{}, &IPerfList{})
}

// DeepCopyInto is a hand-written deepcopy, no codegen tooling available in
// this workspace.
func (in *IPerfSpec) DeepCopyInto(out *IPerfSpec) {
	*out = *in
	in.CommonSpec.DeepCopyInto(&out.CommonSpec)
}

func (in *IPerfSpec) DeepCopy() *IPerfSpec {
	if in == nil {
		return nil
	}
	out := new(IPerfSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *IPerf) DeepCopyInto(out *IPerf) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *IPerf) DeepCopy() *IPerf {
	if in == nil {
		return nil
	}
	out := new(IPerf)
	in.DeepCopyInto(out)
	return out
}

func (in *IPerf) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *IPerfList) DeepCopyInto(out *IPerfList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]IPerf, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *IPerfList) DeepCopy() *IPerfList {
	if in == nil {
		return nil
	}
	out := new(IPerfList)
	in.DeepCopyInto(out)
	return out
}

func (in *IPerfList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

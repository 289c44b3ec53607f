package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// RDMAQPType is the perftest queue-pair transport type.
// +kubebuilder:validation:Enum=RC;UC;UD
type RDMAQPType string

const (
	RDMAQPTypeRC RDMAQPType = "RC"
	RDMAQPTypeUC RDMAQPType = "UC"
	RDMAQPTypeUD RDMAQPType = "UD"
)

// RDMASpec is the specification shared by the RDMABandwidth and RDMALatency
// perftest-based benchmarks.
type RDMASpec struct {
	CommonSpec `json:",inline"`

	// Device is the HCA device name passed to perftest's -d flag.
	// +optional
	Device string `json:"device,omitempty"`

	// QPType selects the perftest queue-pair transport.
	// +optional
	QPType RDMAQPType `json:"qpType,omitempty"`

	// Iterations is the number of iterations perftest should run (-n).
	// +optional
	Iterations int `json:"iterations,omitempty"`
}

func (in *RDMASpec) DeepCopyInto(out *RDMASpec) {
	*out = *in
	in.CommonSpec.DeepCopyInto(&out.CommonSpec)
}

func (in *RDMASpec) DeepCopy() *RDMASpec {
	if in == nil {
		return nil
	}
	out := new(RDMASpec)
	in.DeepCopyInto(out)
	return out
}

// RDMABandwidthSpec is the specification for an RDMABandwidth benchmark
// (perftest's ib_write_bw/ib_read_bw family).
type RDMABandwidthSpec struct {
	RDMASpec `json:",inline"`
}

// RDMABandwidth is the schema for the RDMABandwidth benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type RDMABandwidth struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   RDMABandwidthSpec `json:"spec,omitempty"`
	Status BenchmarkStatus   `json:"status,omitempty"`
}

// RDMABandwidthList contains a list of RDMABandwidth benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type RDMABandwidthList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []RDMABandwidth `json:"items"`
}

func (b *RDMABandwidth) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *RDMABandwidth) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *RDMABandwidth) GetKind() string             { return constants.KindRDMABandwidth }

func init() {
	SchemeBuilder.Register(&RDMABandwidth{}, &RDMABandwidthList{})
}

func (in *RDMABandwidthSpec) DeepCopyInto(out *RDMABandwidthSpec) {
	*out = *in
	in.RDMASpec.DeepCopyInto(&out.RDMASpec)
}

func (in *RDMABandwidthSpec) DeepCopy() *RDMABandwidthSpec {
	if in == nil {
		return nil
	}
	out := new(RDMABandwidthSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *RDMABandwidth) DeepCopyInto(out *RDMABandwidth) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *RDMABandwidth) DeepCopy() *RDMABandwidth {
	if in == nil {
		return nil
	}
	out := new(RDMABandwidth)
	in.DeepCopyInto(out)
	return out
}

func (in *RDMABandwidth) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *RDMABandwidthList) DeepCopyInto(out *RDMABandwidthList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]RDMABandwidth, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *RDMABandwidthList) DeepCopy() *RDMABandwidthList {
	if in == nil {
		return nil
	}
	out := new(RDMABandwidthList)
	in.DeepCopyInto(out)
	return out
}

func (in *RDMABandwidthList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// RDMALatencySpec is the specification for an RDMALatency benchmark
// (perftest's ib_write_lat/ib_read_lat family).
type RDMALatencySpec struct {
	RDMASpec `json:",inline"`
}

// RDMALatency is the schema for the RDMALatency benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type RDMALatency struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   RDMALatencySpec `json:"spec,omitempty"`
	Status BenchmarkStatus `json:"status,omitempty"`
}

// RDMALatencyList contains a list of RDMALatency benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type RDMALatencyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []RDMALatency `json:"items"`
}

func (b *RDMALatency) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *RDMALatency) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *RDMALatency) GetKind() string             { return constants.KindRDMALatency }

func init() {
	SchemeBuilder.Register(&RDMALatency{}, &RDMALatencyList{})
}

func (in *RDMALatencySpec) DeepCopyInto(out *RDMALatencySpec) {
	*out = *in
	in.RDMASpec.DeepCopyInto(&out.RDMASpec)
}

func (in *RDMALatencySpec) DeepCopy() *RDMALatencySpec {
	if in == nil {
		return nil
	}
	out := new(RDMALatencySpec)
	in.DeepCopyInto(out)
	return out
}

func (in *RDMALatency) DeepCopyInto(out *RDMALatency) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *RDMALatency) DeepCopy() *RDMALatency {
	if in == nil {
		return nil
	}
	out := new(RDMALatency)
	in.DeepCopyInto(out)
	return out
}

func (in *RDMALatency) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *RDMALatencyList) DeepCopyInto(out *RDMALatencyList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]RDMALatency, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *RDMALatencyList) DeepCopy() *RDMALatencyList {
	if in == nil {
		return nil
	}
	out := new(RDMALatencyList)
	in.DeepCopyInto(out)
	return out
}

func (in *RDMALatencyList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

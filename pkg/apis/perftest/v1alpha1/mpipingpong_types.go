package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// MPIPingPongSpec is the specification for an IMB MPI1 PingPong benchmark.
type MPIPingPongSpec struct {
	CommonSpec `json:",inline"`

	// NumProcesses is the number of MPI ranks to launch (mpirun -np).
	// +optional
	NumProcesses int `json:"numProcesses,omitempty"`

	// MsgSizeMin is the smallest message size in bytes IMB should test.
	// +optional
	MsgSizeMin int `json:"msgSizeMin,omitempty"`

	// MsgSizeMax is the largest message size in bytes IMB should test.
	// +optional
	MsgSizeMax int `json:"msgSizeMax,omitempty"`
}

// MPIPingPong is the schema for the MPIPingPong benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type MPIPingPong struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MPIPingPongSpec `json:"spec,omitempty"`
	Status BenchmarkStatus `json:"status,omitempty"`
}

// MPIPingPongList contains a list of MPIPingPong benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type MPIPingPongList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MPIPingPong `json:"items"`
}

func (b *MPIPingPong) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *MPIPingPong) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *MPIPingPong) GetKind() string             { return constants.KindMPIPingPong }

func init() {
	SchemeBuilder.Register(&MPIPingPong{}, &MPIPingPongList{})
}

func (in *MPIPingPongSpec) DeepCopyInto(out *MPIPingPongSpec) {
	*out = *in
	in.CommonSpec.DeepCopyInto(&out.CommonSpec)
}

func (in *MPIPingPongSpec) DeepCopy() *MPIPingPongSpec {
	if in == nil {
		return nil
	}
	out := new(MPIPingPongSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *MPIPingPong) DeepCopyInto(out *MPIPingPong) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *MPIPingPong) DeepCopy() *MPIPingPong {
	if in == nil {
		return nil
	}
	out := new(MPIPingPong)
	in.DeepCopyInto(out)
	return out
}

func (in *MPIPingPong) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *MPIPingPongList) DeepCopyInto(out *MPIPingPongList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]MPIPingPong, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *MPIPingPongList) DeepCopy() *MPIPingPongList {
	if in == nil {
		return nil
	}
	out := new(MPIPingPongList)
	in.DeepCopyInto(out)
	return out
}

func (in *MPIPingPongList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// PyTorchSpec is the specification for a PyTorch distributed-training
// micro-benchmark.
type PyTorchSpec struct {
	CommonSpec `json:",inline"`

	// Script is the entrypoint module passed to `python -m`.
	// +optional
	Script string `json:"script,omitempty"`

	// Args are additional positional arguments appended after Script.
	// +optional
	Args []string `json:"args,omitempty"`

	// NumGPUs, if set, is requested as the nvidia.com/gpu resource.
	// +optional
	NumGPUs int `json:"numGPUs,omitempty"`
}

// PyTorch is the schema for the PyTorch benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type PyTorch struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PyTorchSpec     `json:"spec,omitempty"`
	Status BenchmarkStatus `json:"status,omitempty"`
}

// PyTorchList contains a list of PyTorch benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type PyTorchList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PyTorch `json:"items"`
}

func (b *PyTorch) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *PyTorch) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *PyTorch) GetKind() string             { return constants.KindPyTorch }

func init() {
	SchemeBuilder.Register(&PyTorch{}, &PyTorchList{})
}

func (in *PyTorchSpec) DeepCopyInto(out *PyTorchSpec) {
	*out = *in
	in.CommonSpec.DeepCopyInto(&out.CommonSpec)
	if in.Args != nil {
		out.Args = make([]string, len(in.Args))
		copy(out.Args, in.Args)
	}
}

func (in *PyTorchSpec) DeepCopy() *PyTorchSpec {
	if in == nil {
		return nil
	}
	out := new(PyTorchSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *PyTorch) DeepCopyInto(out *PyTorch) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *PyTorch) DeepCopy() *PyTorch {
	if in == nil {
		return nil
	}
	out := new(PyTorch)
	in.DeepCopyInto(out)
	return out
}

func (in *PyTorch) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *PyTorchList) DeepCopyInto(out *PyTorchList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]PyTorch, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *PyTorchList) DeepCopy() *PyTorchList {
	if in == nil {
		return nil
	}
	out := new(PyTorchList)
	in.DeepCopyInto(out)
	return out
}

func (in *PyTorchList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

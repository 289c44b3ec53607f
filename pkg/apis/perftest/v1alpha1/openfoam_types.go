package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// OpenFOAMSpec is the specification for an OpenFOAM CFD solver benchmark.
type OpenFOAMSpec struct {
	CommonSpec `json:",inline"`

	// CaseName is the OpenFOAM tutorial/case directory to run.
	// +optional
	CaseName string `json:"caseName,omitempty"`

	// NumProcesses is the decomposition rank count (mpirun -np).
	// +optional
	NumProcesses int `json:"numProcesses,omitempty"`

	// Solver is the OpenFOAM solver binary to invoke (e.g. "simpleFoam").
	// +optional
	Solver string `json:"solver,omitempty"`
}

// OpenFOAM is the schema for the OpenFOAM benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type OpenFOAM struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OpenFOAMSpec    `json:"spec,omitempty"`
	Status BenchmarkStatus `json:"status,omitempty"`
}

// OpenFOAMList contains a list of OpenFOAM benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type OpenFOAMList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OpenFOAM `json:"items"`
}

func (b *OpenFOAM) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *OpenFOAM) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *OpenFOAM) GetKind() string             { return constants.KindOpenFOAM }

func init() {
	SchemeBuilder.Register(&OpenFOAM{}, &OpenFOAMList{})
}

func (in *OpenFOAMSpec) DeepCopyInto(out *OpenFOAMSpec) {
	*out = *in
	in.CommonSpec.DeepCopyInto(&out.CommonSpec)
}

func (in *OpenFOAMSpec) DeepCopy() *OpenFOAMSpec {
	if in == nil {
		return nil
	}
	out := new(OpenFOAMSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *OpenFOAM) DeepCopyInto(out *OpenFOAM) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *OpenFOAM) DeepCopy() *OpenFOAM {
	if in == nil {
		return nil
	}
	out := new(OpenFOAM)
	in.DeepCopyInto(out)
	return out
}

func (in *OpenFOAM) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *OpenFOAMList) DeepCopyInto(out *OpenFOAMList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]OpenFOAM, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *OpenFOAMList) DeepCopy() *OpenFOAMList {
	if in == nil {
		return nil
	}
	out := new(OpenFOAMList)
	in.DeepCopyInto(out)
	return out
}

func (in *OpenFOAMList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

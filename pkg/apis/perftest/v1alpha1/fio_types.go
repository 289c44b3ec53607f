package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// FioSpec is the specification for an fio storage-I/O benchmark.
type FioSpec struct {
	CommonSpec `json:",inline"`

	// NumWorkers is the number of fio worker pods to run concurrently.
	// +optional
	NumWorkers int `json:"numWorkers,omitempty"`

	// BlockSize is fio's --bs value (e.g. "4k", "1M").
	// +optional
	BlockSize string `json:"blockSize,omitempty"`

	// IODepth is fio's --iodepth value.
	// +optional
	IODepth int `json:"ioDepth,omitempty"`

	// RW is fio's --rw mode (e.g. "randread", "write").
	// +optional
	RW string `json:"rw,omitempty"`

	// Size is fio's --size value (e.g. "10G").
	// +optional
	Size string `json:"size,omitempty"`

	// VolumeClaimTemplate, when set, provisions one shared PVC mounted by
	// every worker pod (spec §8's "Fio RWM" scenario), rather than one PVC
	// per worker.
	// +optional
	VolumeClaimTemplate *corev1.PersistentVolumeClaimSpec `json:"volumeClaimTemplate,omitempty"`
}

// Fio is the schema for the Fio benchmark API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type Fio struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   FioSpec         `json:"spec,omitempty"`
	Status BenchmarkStatus `json:"status,omitempty"`
}

// FioList contains a list of Fio benchmarks.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type FioList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Fio `json:"items"`
}

func (b *Fio) GetCommonSpec() *CommonSpec  { return &b.Spec.CommonSpec }
func (b *Fio) GetStatus() *BenchmarkStatus { return &b.Status }
func (b *Fio) GetKind() string             { return constants.KindFio }

func init() {
	SchemeBuilder.Register(&Fio{}, &FioList{})
}

func (in *FioSpec) DeepCopyInto(out *FioSpec) {
	*out = *in
	in.CommonSpec.DeepCopyInto(&out.CommonSpec)
	if in.VolumeClaimTemplate != nil {
		out.VolumeClaimTemplate = in.VolumeClaimTemplate.DeepCopy()
	}
}

func (in *FioSpec) DeepCopy() *FioSpec {
	if in == nil {
		return nil
	}
	out := new(FioSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *Fio) DeepCopyInto(out *Fio) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *Fio) DeepCopy() *Fio {
	if in == nil {
		return nil
	}
	out := new(Fio)
	in.DeepCopyInto(out)
	return out
}

func (in *Fio) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *FioList) DeepCopyInto(out *FioList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Fio, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *FioList) DeepCopy() *FioList {
	if in == nil {
		return nil
	}
	out := new(FioList)
	in.DeepCopyInto(out)
	return out
}

func (in *FioList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

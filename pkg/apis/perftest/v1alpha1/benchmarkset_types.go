package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// BenchmarkTemplate names the kind to expand and carries its spec as opaque
// JSON, permutation values are deep-merged into before each child is
// rendered (spec §4.2). Modelled on the teacher's `runtime.RawExtension`
// Parameters field (training_job.go), since the concrete spec shape varies
// per kind and is only known once Kind is read.
type BenchmarkTemplate struct {
	// Kind is the benchmark kind registry key, e.g. "IPerf".
	// +kubebuilder:validation:Enum=IPerf;MPIPingPong;OpenFOAM;RDMABandwidth;RDMALatency;Fio;PyTorch
	Kind string `json:"kind"`

	// Spec is the kind's spec, serialized as opaque JSON, merged with each
	// permutation before being unmarshalled into the concrete kind type.
	Spec runtime.RawExtension `json:"spec"`
}

// ProductAxis is one named field and the list of values it ranges over in a
// permutations.product sweep. Modelled as an ordered slice, not a map,
// because the Cartesian product must be formed "in the order keys appear"
// (spec §4.2 step 1) and Go map iteration order is not stable.
type ProductAxis struct {
	// Name is the spec field this axis varies.
	Name string `json:"name"`

	// Values is the list of values Name should take.
	Values []runtime.RawExtension `json:"values"`
}

// PermutationSpec describes the two ways a sweep's point set can be built
// (spec §3/§4.2): a Cartesian product over named value lists, plus an
// explicit list of additional points, concatenated after the product.
type PermutationSpec struct {
	// Product is the ordered list of axes the Cartesian product ranges
	// over; an empty product yields a single empty permutation.
	// +optional
	Product []ProductAxis `json:"product,omitempty"`

	// Explicit lists additional, fully-specified permutations appended
	// verbatim after the product expansion.
	// +optional
	Explicit []map[string]runtime.RawExtension `json:"explicit,omitempty"`
}

// BenchmarkSetSpec is the specification for a benchmark parameter sweep
// (spec §3/§4.2).
type BenchmarkSetSpec struct {
	// Template is the benchmark kind and base spec every permutation is
	// deep-merged into.
	Template BenchmarkTemplate `json:"template"`

	// Repetitions repeats each permutation this many times; the copies of
	// one permutation are consecutive, so streams [1,2] with two
	// repetitions expands to [1,1,2,2].
	// +kubebuilder:validation:Minimum=1
	// +optional
	Repetitions int `json:"repetitions,omitempty"`

	// Permutations describes the sweep's point set.
	// +optional
	Permutations PermutationSpec `json:"permutations,omitempty"`
}

// BenchmarkSetStatus reflects expansion and aggregate progress (spec §4.2).
type BenchmarkSetStatus struct {
	// Count is the total number of children, frozen at first reconcile.
	// +optional
	Count int `json:"count,omitempty"`

	// Succeeded is the number of children currently Succeeded.
	// +optional
	Succeeded int `json:"succeeded,omitempty"`

	// Failed is the number of children currently Failed.
	// +optional
	Failed int `json:"failed,omitempty"`

	// CreatedAt is set when the children are first created.
	// +optional
	CreatedAt *metav1.Time `json:"createdAt,omitempty"`

	// FinishedAt is set once Succeeded+Failed == Count.
	// +optional
	FinishedAt *metav1.Time `json:"finishedAt,omitempty"`
}

// IsTerminal reports whether every child has reached a terminal phase.
func (s *BenchmarkSetStatus) IsTerminal() bool {
	return s.Count > 0 && s.Succeeded+s.Failed == s.Count
}

// BenchmarkSet is the schema for the BenchmarkSet aggregator API.
// +k8s:openapi-gen=true
// +genclient
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Count",type="integer",JSONPath=".status.count"
// +kubebuilder:printcolumn:name="Succeeded",type="integer",JSONPath=".status.succeeded"
// +kubebuilder:printcolumn:name="Failed",type="integer",JSONPath=".status.failed"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:storageversion
type BenchmarkSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   BenchmarkSetSpec   `json:"spec,omitempty"`
	Status BenchmarkSetStatus `json:"status,omitempty"`
}

// BenchmarkSetList contains a list of BenchmarkSet resources.
// +k8s:openapi-gen=true
// +kubebuilder:object:root=true
type BenchmarkSetList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []BenchmarkSet `json:"items"`
}

func init() {
	SchemeBuilder.Register(&BenchmarkSet{}, &BenchmarkSetList{})
}

// deepCopyRawExtension copies a runtime.RawExtension's raw bytes. Written by
// hand rather than relying on a generated DeepCopyInto, since no codegen
// tooling is available in this workspace.
func deepCopyRawExtension(in runtime.RawExtension) runtime.RawExtension {
	out := runtime.RawExtension{Object: in.Object}
	if in.Raw != nil {
		out.Raw = make([]byte, len(in.Raw))
		copy(out.Raw, in.Raw)
	}
	return out
}

func (in *BenchmarkTemplate) DeepCopyInto(out *BenchmarkTemplate) {
	*out = *in
	out.Spec = deepCopyRawExtension(in.Spec)
}

func (in *BenchmarkTemplate) DeepCopy() *BenchmarkTemplate {
	if in == nil {
		return nil
	}
	out := new(BenchmarkTemplate)
	in.DeepCopyInto(out)
	return out
}

func (in *ProductAxis) DeepCopyInto(out *ProductAxis) {
	*out = *in
	if in.Values != nil {
		out.Values = make([]runtime.RawExtension, len(in.Values))
		for i := range in.Values {
			out.Values[i] = deepCopyRawExtension(in.Values[i])
		}
	}
}

func (in *ProductAxis) DeepCopy() *ProductAxis {
	if in == nil {
		return nil
	}
	out := new(ProductAxis)
	in.DeepCopyInto(out)
	return out
}

func (in *PermutationSpec) DeepCopyInto(out *PermutationSpec) {
	*out = *in
	if in.Product != nil {
		out.Product = make([]ProductAxis, len(in.Product))
		for i := range in.Product {
			in.Product[i].DeepCopyInto(&out.Product[i])
		}
	}
	if in.Explicit != nil {
		out.Explicit = make([]map[string]runtime.RawExtension, len(in.Explicit))
		for i, m := range in.Explicit {
			cp := make(map[string]runtime.RawExtension, len(m))
			for k, v := range m {
				cp[k] = deepCopyRawExtension(v)
			}
			out.Explicit[i] = cp
		}
	}
}

func (in *PermutationSpec) DeepCopy() *PermutationSpec {
	if in == nil {
		return nil
	}
	out := new(PermutationSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkSetSpec) DeepCopyInto(out *BenchmarkSetSpec) {
	*out = *in
	in.Template.DeepCopyInto(&out.Template)
	in.Permutations.DeepCopyInto(&out.Permutations)
}

func (in *BenchmarkSetSpec) DeepCopy() *BenchmarkSetSpec {
	if in == nil {
		return nil
	}
	out := new(BenchmarkSetSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkSetStatus) DeepCopyInto(out *BenchmarkSetStatus) {
	*out = *in
	if in.CreatedAt != nil {
		out.CreatedAt = in.CreatedAt.DeepCopy()
	}
	if in.FinishedAt != nil {
		out.FinishedAt = in.FinishedAt.DeepCopy()
	}
}

func (in *BenchmarkSetStatus) DeepCopy() *BenchmarkSetStatus {
	if in == nil {
		return nil
	}
	out := new(BenchmarkSetStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkSet) DeepCopyInto(out *BenchmarkSet) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *BenchmarkSet) DeepCopy() *BenchmarkSet {
	if in == nil {
		return nil
	}
	out := new(BenchmarkSet)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkSet) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *BenchmarkSetList) DeepCopyInto(out *BenchmarkSetList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]BenchmarkSet, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *BenchmarkSetList) DeepCopy() *BenchmarkSetList {
	if in == nil {
		return nil
	}
	out := new(BenchmarkSetList)
	in.DeepCopyInto(out)
	return out
}

func (in *BenchmarkSetList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

package benchmarkset

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	admissionv1 "k8s.io/api/admission/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
	testutils "github.com/stackhpc/kube-perftest/pkg/testing"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	c := testutils.NewClientBuilder().Build()
	return &Validator{
		Decoder:  admission.NewDecoder(c.Scheme()),
		Registry: registry.NewRegistry(),
	}
}

func requestFor(t *testing.T, set *v1alpha1.BenchmarkSet) admission.Request {
	t.Helper()
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	return admission.Request{
		AdmissionRequest: admissionv1.AdmissionRequest{
			Kind:   metav1.GroupVersionKind{Group: "perftest.stackhpc.com", Version: "v1alpha1", Kind: "BenchmarkSet"},
			Object: runtime.RawExtension{Raw: raw},
		},
	}
}

func baseSet() *v1alpha1.BenchmarkSet {
	return &v1alpha1.BenchmarkSet{
		ObjectMeta: metav1.ObjectMeta{Name: "sweep", Namespace: "default"},
		Spec: v1alpha1.BenchmarkSetSpec{
			Template: v1alpha1.BenchmarkTemplate{
				Kind: constants.KindIPerf,
				Spec: runtime.RawExtension{Raw: []byte(`{"duration":30}`)},
			},
			Repetitions: 2,
			Permutations: v1alpha1.PermutationSpec{
				Product: []v1alpha1.ProductAxis{
					{Name: "streams", Values: []runtime.RawExtension{{Raw: []byte("1")}, {Raw: []byte("2")}}},
				},
			},
		},
	}
}

func TestHandle_AllowsValidSet(t *testing.T) {
	v := newValidator(t)
	resp := v.Handle(context.Background(), requestFor(t, baseSet()))
	assert.True(t, resp.Allowed)
}

func TestHandle_DeniesUnknownTemplateKind(t *testing.T) {
	v := newValidator(t)
	set := baseSet()
	set.Spec.Template.Kind = "NotARealKind"

	resp := v.Handle(context.Background(), requestFor(t, set))
	assert.False(t, resp.Allowed)
}

func TestHandle_DeniesNegativeRepetitions(t *testing.T) {
	v := newValidator(t)
	set := baseSet()
	set.Spec.Repetitions = -1

	resp := v.Handle(context.Background(), requestFor(t, set))
	assert.False(t, resp.Allowed)
}

func TestHandle_DeniesProductAxisWithNoValues(t *testing.T) {
	v := newValidator(t)
	set := baseSet()
	set.Spec.Permutations.Product = []v1alpha1.ProductAxis{{Name: "streams"}}

	resp := v.Handle(context.Background(), requestFor(t, set))
	assert.False(t, resp.Allowed)
}

func TestHandle_DeniesProductAxisWithEmptyName(t *testing.T) {
	v := newValidator(t)
	set := baseSet()
	set.Spec.Permutations.Product = []v1alpha1.ProductAxis{{Values: []runtime.RawExtension{{Raw: []byte("1")}}}}

	resp := v.Handle(context.Background(), requestFor(t, set))
	assert.False(t, resp.Allowed)
}

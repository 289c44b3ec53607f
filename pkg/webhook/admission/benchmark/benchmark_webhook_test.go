package benchmark

import (
	"context"
	"encoding/json"
	"net/http"
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

func intPtr(v int) *int { return &v }

func TestValidateCommonSpec(t *testing.T) {
	cases := map[string]struct {
		spec    v1alpha1.CommonSpec
		wantErr bool
	}{
		"empty spec is valid":       {spec: v1alpha1.CommonSpec{}},
		"hostNetwork alone is valid": {spec: v1alpha1.CommonSpec{HostNetwork: true}},
		"networkName alone is valid": {spec: v1alpha1.CommonSpec{NetworkName: "default/my-net"}},
		"hostNetwork and networkName conflict": {
			spec:    v1alpha1.CommonSpec{HostNetwork: true, NetworkName: "default/my-net"},
			wantErr: true,
		},
		"networkName without a namespace is invalid": {
			spec:    v1alpha1.CommonSpec{NetworkName: "my-net"},
			wantErr: true,
		},
		"networkName with an empty name is invalid": {
			spec:    v1alpha1.CommonSpec{NetworkName: "default/"},
			wantErr: true,
		},
		"valid imagePullPolicy":   {spec: v1alpha1.CommonSpec{ImagePullPolicy: "Always"}},
		"invalid imagePullPolicy": {spec: v1alpha1.CommonSpec{ImagePullPolicy: "Sometimes"}, wantErr: true},
		"positive mtu is valid":   {spec: v1alpha1.CommonSpec{MTU: intPtr(1500)}},
		"zero mtu is invalid":     {spec: v1alpha1.CommonSpec{MTU: intPtr(0)}, wantErr: true},
		"negative mtu is invalid": {spec: v1alpha1.CommonSpec{MTU: intPtr(-1)}, wantErr: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateCommonSpec(&tc.spec)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	c := testutils.NewClientBuilder().Build()
	return &Validator{
		Decoder:  admission.NewDecoder(c.Scheme()),
		Registry: registry.NewRegistry(),
	}
}

func requestFor(t *testing.T, kind string, obj interface{}) admission.Request {
	t.Helper()
	raw, err := json.Marshal(obj)
	require.NoError(t, err)
	return admission.Request{
		AdmissionRequest: admissionv1.AdmissionRequest{
			Kind:   metav1.GroupVersionKind{Group: "perftest.stackhpc.com", Version: "v1alpha1", Kind: kind},
			Object: runtime.RawExtension{Raw: raw},
		},
	}
}

func TestHandle_AllowsValidIPerf(t *testing.T) {
	v := newValidator(t)
	obj := &v1alpha1.IPerf{
		ObjectMeta: metav1.ObjectMeta{Name: "bench", Namespace: "default"},
		Spec:       v1alpha1.IPerfSpec{Streams: 4, Duration: 10},
	}

	resp := v.Handle(context.Background(), requestFor(t, constants.KindIPerf, obj))
	assert.True(t, resp.Allowed)
}

func TestHandle_DeniesContradictoryNetworkFields(t *testing.T) {
	v := newValidator(t)
	obj := &v1alpha1.IPerf{
		ObjectMeta: metav1.ObjectMeta{Name: "bench", Namespace: "default"},
		Spec: v1alpha1.IPerfSpec{
			CommonSpec: v1alpha1.CommonSpec{HostNetwork: true, NetworkName: "default/my-net"},
		},
	}

	resp := v.Handle(context.Background(), requestFor(t, constants.KindIPerf, obj))
	assert.False(t, resp.Allowed)
	assert.Equal(t, int32(http.StatusForbidden), resp.Result.Code)
}

func TestHandle_UnknownKindIsAllowed(t *testing.T) {
	v := newValidator(t)
	resp := v.Handle(context.Background(), requestFor(t, "NotARealKind", map[string]string{}))
	assert.True(t, resp.Allowed, "an unrecognised kind is a programmer-error case (spec §7), not denied")
}

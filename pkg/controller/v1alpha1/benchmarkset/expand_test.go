package benchmarkset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

func rawJSON(t *testing.T, v interface{}) runtime.RawExtension {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return runtime.RawExtension{Raw: data}
}

func TestExpand_EmptyProductYieldsSinglePermutation(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template: v1alpha1.BenchmarkTemplate{
			Kind: "IPerf",
			Spec: rawJSON(t, map[string]interface{}{"streams": 1}),
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, "sweep-0", manifests[0].Name)
	assert.Equal(t, "IPerf", manifests[0].Kind)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(manifests[0].SpecJSON, &decoded))
	assert.Equal(t, float64(1), decoded["streams"])
}

func TestExpand_CartesianProductOrderedByKeyAppearance(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template: v1alpha1.BenchmarkTemplate{
			Kind: "IPerf",
			Spec: rawJSON(t, map[string]interface{}{}),
		},
		Permutations: v1alpha1.PermutationSpec{
			Product: []v1alpha1.ProductAxis{
				{Name: "streams", Values: []runtime.RawExtension{rawJSON(t, 1), rawJSON(t, 2)}},
				{Name: "duration", Values: []runtime.RawExtension{rawJSON(t, 10), rawJSON(t, 20)}},
			},
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	require.Len(t, manifests, 4)

	type point struct {
		Streams  float64 `json:"streams"`
		Duration float64 `json:"duration"`
	}
	var got []point
	for _, m := range manifests {
		var p point
		require.NoError(t, json.Unmarshal(m.SpecJSON, &p))
		got = append(got, p)
	}

	assert.Equal(t, []point{
		{Streams: 1, Duration: 10},
		{Streams: 1, Duration: 20},
		{Streams: 2, Duration: 10},
		{Streams: 2, Duration: 20},
	}, got)
}

func TestExpand_ExplicitAppendedAfterProduct(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template: v1alpha1.BenchmarkTemplate{Kind: "IPerf", Spec: rawJSON(t, map[string]interface{}{})},
		Permutations: v1alpha1.PermutationSpec{
			Product: []v1alpha1.ProductAxis{
				{Name: "streams", Values: []runtime.RawExtension{rawJSON(t, 1)}},
			},
			Explicit: []map[string]runtime.RawExtension{
				{"streams": rawJSON(t, 99)},
			},
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	require.Len(t, manifests, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal(manifests[0].SpecJSON, &first))
	require.NoError(t, json.Unmarshal(manifests[1].SpecJSON, &second))
	assert.Equal(t, float64(1), first["streams"])
	assert.Equal(t, float64(99), second["streams"])
}

func TestExpand_RepetitionsMultiplyPointCount(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template:    v1alpha1.BenchmarkTemplate{Kind: "IPerf", Spec: rawJSON(t, map[string]interface{}{})},
		Repetitions: 3,
		Permutations: v1alpha1.PermutationSpec{
			Product: []v1alpha1.ProductAxis{
				{Name: "streams", Values: []runtime.RawExtension{rawJSON(t, 1), rawJSON(t, 2)}},
			},
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	assert.Len(t, manifests, 6)
}

func TestExpand_RepetitionsRepeatEachPointConsecutively(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template:    v1alpha1.BenchmarkTemplate{Kind: "IPerf", Spec: rawJSON(t, map[string]interface{}{})},
		Repetitions: 2,
		Permutations: v1alpha1.PermutationSpec{
			Product: []v1alpha1.ProductAxis{
				{Name: "streams", Values: []runtime.RawExtension{rawJSON(t, 1), rawJSON(t, 2)}},
			},
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	require.Len(t, manifests, 4)

	var streams []float64
	for _, m := range manifests {
		var p struct {
			Streams float64 `json:"streams"`
		}
		require.NoError(t, json.Unmarshal(m.SpecJSON, &p))
		streams = append(streams, p.Streams)
	}
	assert.Equal(t, []float64{1, 1, 2, 2}, streams)
}

func TestExpand_DeepMergeReplacesScalarsAndMergesNestedMaps(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template: v1alpha1.BenchmarkTemplate{
			Kind: "Fio",
			Spec: rawJSON(t, map[string]interface{}{
				"blockSize": "4k",
				"resources": map[string]interface{}{
					"requests": map[string]interface{}{"cpu": "1"},
					"limits":   map[string]interface{}{"cpu": "2"},
				},
			}),
		},
		Permutations: v1alpha1.PermutationSpec{
			Explicit: []map[string]runtime.RawExtension{
				{
					"blockSize": rawJSON(t, "64k"),
					"resources": rawJSON(t, map[string]interface{}{
						"requests": map[string]interface{}{"cpu": "4"},
					}),
				},
			},
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	require.Len(t, manifests, 1)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(manifests[0].SpecJSON, &decoded))
	assert.Equal(t, "64k", decoded["blockSize"])

	resources := decoded["resources"].(map[string]interface{})
	requests := resources["requests"].(map[string]interface{})
	limits := resources["limits"].(map[string]interface{})
	assert.Equal(t, "4", requests["cpu"], "overlay scalar should replace base scalar inside a nested map")
	assert.Equal(t, "2", limits["cpu"], "base nested map keys the overlay doesn't touch must survive the merge")
}

func TestExpand_IndexWidthMatchesCeilLog10(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template: v1alpha1.BenchmarkTemplate{Kind: "IPerf", Spec: rawJSON(t, map[string]interface{}{})},
		Permutations: v1alpha1.PermutationSpec{
			Product: []v1alpha1.ProductAxis{
				{Name: "x", Values: []runtime.RawExtension{
					rawJSON(t, 1), rawJSON(t, 2), rawJSON(t, 3), rawJSON(t, 4),
					rawJSON(t, 5), rawJSON(t, 6), rawJSON(t, 7), rawJSON(t, 8),
					rawJSON(t, 9), rawJSON(t, 10), rawJSON(t, 11),
				}},
			},
		},
	}

	manifests, err := Expand("sweep", spec)
	require.NoError(t, err)
	require.Len(t, manifests, 11)
	assert.Equal(t, "sweep-00", manifests[0].Name)
	assert.Equal(t, "sweep-10", manifests[10].Name)
}

func TestExpand_EmptyProductAxisIsAnError(t *testing.T) {
	spec := v1alpha1.BenchmarkSetSpec{
		Template: v1alpha1.BenchmarkTemplate{Kind: "IPerf", Spec: rawJSON(t, map[string]interface{}{})},
		Permutations: v1alpha1.PermutationSpec{
			Product: []v1alpha1.ProductAxis{{Name: "empty", Values: nil}},
		},
	}

	_, err := Expand("sweep", spec)
	assert.Error(t, err)
}

// Package benchmarkset implements the BenchmarkSet reconciler (spec §4.2):
// deterministic permutation expansion of a template spec into one concrete
// benchmark manifest per point in the sweep, plus the aggregate
// count/succeeded/failed bookkeeping.
package benchmarkset

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// ChildManifest is one expanded permutation, ready to be unmarshalled into
// a concrete kind object (spec §4.2 step 4's "concrete benchmark
// manifest").
type ChildManifest struct {
	// Name is "<set-name>-<zero-padded-index>" (spec §4.2 step 5).
	Name string

	// Kind is the benchmark kind registry key this manifest belongs to.
	Kind string

	// SpecJSON is template.spec deep-merged with this permutation,
	// serialized as JSON ready to unmarshal into the kind's concrete Spec
	// type.
	SpecJSON []byte
}

// Expand implements the full deterministic pipeline of spec §4.2 steps 1-5:
// Cartesian product over permutations.product, append permutations.explicit
// verbatim, repeat `repetitions` times, deep-merge each point into
// template.spec, and name children by zero-padded index.
func Expand(setName string, spec v1alpha1.BenchmarkSetSpec) ([]ChildManifest, error) {
	points, err := buildProduct(spec.Permutations.Product)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build permutation product")
	}
	points = append(points, spec.Permutations.Explicit...)

	repetitions := spec.Repetitions
	if repetitions <= 0 {
		repetitions = 1
	}
	// Each point is repeated `repetitions` times consecutively before moving
	// to the next point (spec §8 example: product {streams:[1,2]} with
	// repetitions:2 yields streams [1,1,2,2], not [1,2,1,2]).
	var repeated []map[string]runtime.RawExtension
	for _, point := range points {
		for i := 0; i < repetitions; i++ {
			repeated = append(repeated, point)
		}
	}

	baseSpec, err := rawExtensionToGeneric(spec.Template.Spec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode template.spec")
	}

	width := indexWidth(len(repeated))
	manifests := make([]ChildManifest, len(repeated))
	for i, point := range repeated {
		overlay, err := permutationToGeneric(point)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode permutation %d", i)
		}

		merged := deepMerge(baseSpec, overlay)
		mergedJSON, err := json.Marshal(merged)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal merged spec %d", i)
		}

		manifests[i] = ChildManifest{
			Name:     fmt.Sprintf("%s-%0*d", setName, width, i),
			Kind:     spec.Template.Kind,
			SpecJSON: mergedJSON,
		}
	}

	return manifests, nil
}

// indexWidth returns ceil(log10(count)), floored at 1 digit, matching spec
// §4.2 step 5's "index width is ⌈log10(count)⌉".
func indexWidth(count int) int {
	if count <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log10(float64(count))))
}

// buildProduct forms the Cartesian product of the given axes in the order
// they appear, per spec §4.2 step 1. An empty axis list yields a single
// empty permutation rather than zero permutations.
func buildProduct(axes []v1alpha1.ProductAxis) ([]map[string]runtime.RawExtension, error) {
	points := []map[string]runtime.RawExtension{{}}

	for _, axis := range axes {
		if len(axis.Values) == 0 {
			return nil, errors.Errorf("product axis %q has no values", axis.Name)
		}
		var next []map[string]runtime.RawExtension
		for _, existing := range points {
			for _, value := range axis.Values {
				point := make(map[string]runtime.RawExtension, len(existing)+1)
				for k, v := range existing {
					point[k] = v
				}
				point[axis.Name] = value
				next = append(next, point)
			}
		}
		points = next
	}

	return points, nil
}

func rawExtensionToGeneric(raw runtime.RawExtension) (map[string]interface{}, error) {
	if len(raw.Raw) == 0 {
		return map[string]interface{}{}, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw.Raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func permutationToGeneric(point map[string]runtime.RawExtension) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(point))
	for key, raw := range point {
		var value interface{}
		if err := json.Unmarshal(raw.Raw, &value); err != nil {
			return nil, errors.Wrapf(err, "failed to decode permutation field %q", key)
		}
		out[key] = value
	}
	return out, nil
}

// deepMerge implements spec §4.2 step 4's merge rule: scalar/array values in
// the overlay replace the base; nested JSON objects merge recursively.
func deepMerge(base, overlay map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, overlayValue := range overlay {
		baseValue, exists := merged[k]
		if !exists {
			merged[k] = overlayValue
			continue
		}
		baseMap, baseIsMap := baseValue.(map[string]interface{})
		overlayMap, overlayIsMap := overlayValue.(map[string]interface{})
		if baseIsMap && overlayIsMap {
			merged[k] = deepMerge(baseMap, overlayMap)
		} else {
			merged[k] = overlayValue
		}
	}
	return merged
}

// FormatIndex is exposed for callers that need to reproduce a child's name
// from its index without re-running the whole expansion (e.g. looking up a
// single child by position).
func FormatIndex(setName string, index, count int) string {
	return fmt.Sprintf("%s-%0*d", setName, indexWidth(count), index)
}

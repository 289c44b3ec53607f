// Generate deepcopy for apis
//go:generate go run ../../vendor/k8s.io/code-generator/cmd/deepcopy-gen/main.go -O zz_generated.deepcopy -i ./... -h ../../hack/boilerplate.go.txt

// Package apis contains Kubernetes API groups.
package apis

import (
	"k8s.io/apimachinery/pkg/runtime"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"
	volcanobatchv1alpha1 "volcano.sh/apis/pkg/apis/batch/v1alpha1"
	volcanoschedulingv1beta1 "volcano.sh/apis/pkg/apis/scheduling/v1beta1"

	perftestv1alpha1 "github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// AddToSchemes may be used to add all resources defined in the project to a Scheme.
var AddToSchemes runtime.SchemeBuilder

// AddToScheme adds all Resources to the Scheme.
func AddToScheme(s *runtime.Scheme) error {
	return AddToSchemes.AddToScheme(s)
}

func init() {
	// Register the types with the Scheme so the components can map objects to
	// GroupVersionKinds and back: our own CRDs, plus the gang-scheduler
	// backends the renderer can target (spec §6, SPEC_FULL §6).
	AddToSchemes = append(AddToSchemes,
		perftestv1alpha1.SchemeBuilder.AddToScheme,
		volcanobatchv1alpha1.AddToScheme,
		volcanoschedulingv1beta1.AddToScheme,
		schedulerpluginsv1alpha1.AddToScheme,
	)
}

// Package benchmarkset implements the validating admission webhook for the
// BenchmarkSet aggregator (spec §4.2): reject a template naming an
// unregistered kind or a negative repetitions count before any expansion is
// attempted, rather than surfacing it as a Failed status later.
package benchmarkset

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
)

var log = logf.Log.WithName("benchmarkset-validator")

// Validator validates BenchmarkSet objects.
type Validator struct {
	Decoder  admission.Decoder
	Registry registry.Registry
}

// +kubebuilder:webhook:path=/validate-perftest-stackhpc-com-v1alpha1-benchmarkset,mutating=false,failurePolicy=fail,groups=perftest.stackhpc.com,resources=benchmarksets,verbs=create;update,versions=v1alpha1,name=benchmarkset.kube-perftest-webhook.validator,sideEffects=None,admissionReviewVersions=v1

// Handle implements admission.Handler.
func (v *Validator) Handle(ctx context.Context, req admission.Request) admission.Response {
	var set v1alpha1.BenchmarkSet
	if err := v.Decoder.Decode(req, &set); err != nil {
		log.Error(err, "failed to decode benchmark set")
		return admission.Errored(http.StatusBadRequest, err)
	}

	if err := v.validate(&set); err != nil {
		log.Info("validation failed", "name", set.Name, "reason", err.Error())
		return admission.Denied(err.Error())
	}

	return admission.Allowed("validation passed")
}

func (v *Validator) validate(set *v1alpha1.BenchmarkSet) error {
	if _, ok := v.Registry[set.Spec.Template.Kind]; !ok {
		return errors.Errorf("template.kind %q is not a registered benchmark kind", set.Spec.Template.Kind)
	}

	if set.Spec.Repetitions < 0 {
		return errors.Errorf("repetitions must not be negative, got %d", set.Spec.Repetitions)
	}

	for _, axis := range set.Spec.Permutations.Product {
		if axis.Name == "" {
			return errors.New("a permutations.product axis must name a field")
		}
		if len(axis.Values) == 0 {
			return errors.Errorf("permutations.product axis %q has no values", axis.Name)
		}
	}

	return nil
}

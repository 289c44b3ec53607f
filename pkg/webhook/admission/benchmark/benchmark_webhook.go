// Package benchmark implements the validating admission webhook for every
// benchmark kind (spec §7 "Configuration"
// errors: contradictory fields like hostNetwork && networkName are rejected
// terminally, not retried). Grounded on the teacher's BenchmarkJobValidator
// (decode -> validate -> admission.Allowed/Denied), generalized from one
// fixed type to every kind in the registry via the request's GVK.
package benchmark

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
)

var log = logf.Log.WithName("benchmark-validator")

// Validator validates every benchmark kind's common spec fields through the
// kind registry, dispatching on the admission request's Kind rather than a
// type switch (spec §4.8 "dynamic dispatch by kind" carried into the
// webhook layer).
type Validator struct {
	Decoder  admission.Decoder
	Registry registry.Registry
}

// +kubebuilder:webhook:path=/validate-perftest-stackhpc-com-v1alpha1-benchmark,mutating=false,failurePolicy=fail,groups=perftest.stackhpc.com,resources=iperfs;mpipingpongs;openfoams;rdmabandwidths;rdmalatencies;fios;pytorches,verbs=create;update,versions=v1alpha1,name=benchmark.kube-perftest-webhook.validator,sideEffects=None,admissionReviewVersions=v1

// Handle implements admission.Handler, decoding the request into the
// concrete kind's Go type the registry resolves.
func (v *Validator) Handle(ctx context.Context, req admission.Request) admission.Response {
	handler, ok := v.Registry[req.Kind.Kind]
	if !ok {
		log.Info("no registered handler for admission request kind, allowing", "kind", req.Kind.Kind)
		return admission.Allowed("no validation registered for this kind")
	}

	obj := handler.NewObject()
	if err := v.Decoder.Decode(req, obj); err != nil {
		log.Error(err, "failed to decode benchmark", "kind", req.Kind.Kind)
		return admission.Errored(http.StatusBadRequest, err)
	}

	if err := ValidateCommonSpec(obj.GetCommonSpec()); err != nil {
		log.Info("validation failed", "kind", req.Kind.Kind, "name", obj.GetName(), "reason", err.Error())
		return admission.Denied(err.Error())
	}

	return admission.Allowed("validation passed")
}

// ValidateCommonSpec enforces the cross-kind invariants every benchmark
// spec shares (spec §6 common fields, §7 "contradictory fields"). Numeric
// fields specific to a kind (streams, duration, numWorkers, ...) are left
// unvalidated here: every kind's RenderTasks already falls back to a sane
// default for a zero or negative value (e.g. iperf.RenderTasks's maxInt),
// so an out-of-range value is not a configuration error worth rejecting at
// admission time.
func ValidateCommonSpec(common *v1alpha1.CommonSpec) error {
	if common.HostNetwork && common.NetworkName != "" {
		return errors.New("hostNetwork and networkName cannot both be set")
	}

	if common.NetworkName != "" {
		parts := strings.Split(common.NetworkName, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("networkName %q must be in \"<namespace>/<name>\" form", common.NetworkName)
		}
	}

	switch common.ImagePullPolicy {
	case "", "Always", "IfNotPresent", "Never":
	default:
		return fmt.Errorf("imagePullPolicy %q is not one of Always, IfNotPresent, Never", common.ImagePullPolicy)
	}

	if common.MTU != nil && *common.MTU <= 0 {
		return fmt.Errorf("mtu must be a positive integer, got %d", *common.MTU)
	}

	return nil
}

package testing

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"
	volcanobatchv1alpha1 "volcano.sh/apis/pkg/apis/batch/v1alpha1"
	volcanoschedulingv1beta1 "volcano.sh/apis/pkg/apis/scheduling/v1beta1"

	perftestv1alpha1 "github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
)

// NewClientBuilder returns a fake controller-runtime client builder with the
// perftest CRD group plus the Volcano and scheduler-plugins gang-scheduling
// CRDs registered, so reconciler tests can create/fetch both the benchmark
// objects under test and the gang-scheduled Job/PodGroup objects they render.
func NewClientBuilder(addToSchemes ...func(s *runtime.Scheme) error) *fake.ClientBuilder {
	scm := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scm))
	utilruntime.Must(perftestv1alpha1.AddToScheme(scm))
	utilruntime.Must(volcanobatchv1alpha1.AddToScheme(scm))
	utilruntime.Must(volcanoschedulingv1beta1.AddToScheme(scm))
	utilruntime.Must(schedulerpluginsv1alpha1.AddToScheme(scm))
	for i := range addToSchemes {
		utilruntime.Must(addToSchemes[i](scm))
	}
	return fake.NewClientBuilder().
		WithScheme(scm)
}

type builderIndexer struct {
	*fake.ClientBuilder
}

var _ client.FieldIndexer = (*builderIndexer)(nil)

func (b *builderIndexer) IndexField(_ context.Context, obj client.Object, field string, extractValue client.IndexerFunc) error {
	if obj == nil || field == "" || extractValue == nil {
		return fmt.Errorf("error from test indexer")
	}
	b.ClientBuilder = b.ClientBuilder.WithIndex(obj, field, extractValue)
	return nil
}

func AsIndex(builder *fake.ClientBuilder) client.FieldIndexer {
	return &builderIndexer{ClientBuilder: builder}
}

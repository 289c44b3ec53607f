package testing

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/onsi/gomega"
	"google.golang.org/protobuf/proto"
	"sigs.k8s.io/controller-runtime/pkg/envtest"
	"sigs.k8s.io/controller-runtime/pkg/manager"
)

// SetupEnvTest configures an envtest.Environment against this repo's CRDs
// plus the vendored Volcano and scheduler-plugins gang-scheduling CRDs, for
// integration tests that exercise a real (if local) API server.
func SetupEnvTest() *envtest.Environment {
	t := &envtest.Environment{
		CRDDirectoryPaths: []string{
			filepath.Join("..", "..", "..", "config", "crd"),
			filepath.Join("..", "..", "..", "test", "crds"),
			filepath.Join("..", "..", "config", "crd"),
			filepath.Join("..", "..", "test", "crds"),
		},
		ErrorIfCRDPathMissing: false,
		UseExistingCluster:    proto.Bool(false),
	}
	return t
}

// StartTestManager starts mgr in a goroutine and returns a WaitGroup the
// caller should Wait() on after cancelling ctx.
func StartTestManager(ctx context.Context, mgr manager.Manager, g *gomega.GomegaWithT) *sync.WaitGroup {
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Expect(mgr.Start(ctx)).NotTo(gomega.HaveOccurred())
	}()
	return wg
}

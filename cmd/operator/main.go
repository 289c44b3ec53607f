// Command operator runs the kube-perftest controller manager: one
// cobra.Command ("operator run") that wires every benchmark kind's
// reconciler, the BenchmarkSet reconciler, and the validating webhooks
// into a single controller-runtime manager (spec §6). Grounded on the
// teacher's cmd/manager/main.go (manager.New, webhook.NewServer, optional
// scheme registration) and its cmd/ome-agent/main.go cobra root command.
package main

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	zaplog "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
	schedulerpluginsv1alpha1 "sigs.k8s.io/scheduler-plugins/apis/scheduling/v1alpha1"
	volcanobatch "volcano.sh/apis/pkg/apis/batch/v1alpha1"
	volcanoscheduling "volcano.sh/apis/pkg/apis/scheduling/v1beta1"

	"github.com/stackhpc/kube-perftest/pkg/apis/perftest/v1alpha1"
	"github.com/stackhpc/kube-perftest/pkg/constants"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/benchmark"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/benchmarkset"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/controllerconfig"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/logscraper"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/priority"
	"github.com/stackhpc/kube-perftest/pkg/controller/v1alpha1/registry"
	"github.com/stackhpc/kube-perftest/pkg/utils"
	benchmarkwebhook "github.com/stackhpc/kube-perftest/pkg/webhook/admission/benchmark"
	benchmarksetwebhook "github.com/stackhpc/kube-perftest/pkg/webhook/admission/benchmarkset"
	"github.com/stackhpc/kube-perftest/pkg/version"
)

const LeaderLockName = "kube-perftest-operator-leader-lock"

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
	tlsOpts  []func(*tls.Config)
)

func init() {
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(volcanobatch.AddToScheme(scheme))
	utilruntime.Must(volcanoscheduling.AddToScheme(scheme))
	utilruntime.Must(schedulerpluginsv1alpha1.AddToScheme(scheme))
}

// runOptions are the program-configurable flags of "operator run".
type runOptions struct {
	configFile              string
	namespace               string
	metricsAddr             string
	secureMetrics           bool
	enableHTTP2             bool
	webhookPort             int
	enableLeaderElection    bool
	enableWebhook           bool
	probeAddr               string
	leaderElectionNamespace string
	zapOpts                 zap.Options
}

func defaultRunOptions() runOptions {
	return runOptions{
		metricsAddr:             ":8080",
		webhookPort:             9443,
		enableLeaderElection:    false,
		enableWebhook:           true,
		enableHTTP2:             false,
		secureMetrics:           false,
		probeAddr:               ":8081",
		leaderElectionNamespace: constants.OperatorNamespace,
		zapOpts: zap.Options{
			TimeEncoder: zapcore.RFC3339TimeEncoder,
			ZapOpts:     []zaplog.Option{zaplog.AddCaller()},
		},
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     constants.OperatorName,
		Short:   "Run the kube-perftest operator",
		Long:    "kube-perftest is a Kubernetes operator that runs gang-scheduled network and I/O benchmarks.",
		Version: fmt.Sprintf("gitVersion=%s, gitCommit=%s", version.GitVersion, version.GitCommit),
	}
	root.AddCommand(newRunCommand())
	return root
}

func newRunCommand() *cobra.Command {
	options := defaultRunOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the controller manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(options)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.configFile, "config", "c", "", "path to a settings file")
	flags.StringVar(&options.namespace, "namespace", "", "namespace to watch for benchmarks (empty = all namespaces)")
	flags.StringVar(&options.metricsAddr, "metrics-bind-address", options.metricsAddr, "the address the metrics endpoint binds to")
	flags.BoolVar(&options.secureMetrics, "metrics-secure", options.secureMetrics, "serve metrics securely via HTTPS")
	flags.BoolVar(&options.enableHTTP2, "enable-http2", options.enableHTTP2, "enable HTTP/2 for the metrics and webhook servers")
	flags.IntVar(&options.webhookPort, "webhook-port", options.webhookPort, "the port the webhook server binds to")
	flags.BoolVar(&options.enableLeaderElection, "leader-elect", options.enableLeaderElection, "enable leader election")
	flags.StringVar(&options.leaderElectionNamespace, "leader-election-namespace", options.leaderElectionNamespace, "namespace for the leader election lock")
	flags.BoolVar(&options.enableWebhook, "webhook", options.enableWebhook, "enable the validating webhook server")
	flags.StringVar(&options.probeAddr, "health-probe-addr", options.probeAddr, "the address the health probe endpoint binds to")
	options.zapOpts.BindFlags(cmd.Flags())

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// checkSchedulerBackendAvailable fails startup early, before any controller
// or webhook is registered, if the cluster doesn't have the CRD the
// configured gang-scheduler backend needs - grounded on the teacher's own
// registerOptionalScheme, which gates optional scheme registration on the
// same utils.IsCrdAvailable discovery check.
func checkSchedulerBackendAvailable(cfg *rest.Config, backend string) error {
	var groupVersion schema.GroupVersion
	var kind string
	if backend == constants.SchedulerPluginsBackendName {
		groupVersion = schedulerpluginsv1alpha1.SchemeGroupVersion
		kind = "PodGroup"
	} else {
		groupVersion = volcanobatch.SchemeGroupVersion
		kind = "Job"
	}

	found, err := utils.IsCrdAvailable(cfg, groupVersion.String(), kind)
	if err != nil {
		return fmt.Errorf("checking %s CRD availability: %w", groupVersion.String(), err)
	}
	if !found {
		return fmt.Errorf("scheduler backend %q requires the %s/%s CRD, which is not installed", backend, groupVersion.String(), kind)
	}
	return nil
}

// run builds and starts the controller manager. A non-nil return is always
// a startup failure (exit code 1, spec §6); once the manager starts,
// mgr.Start blocks until a clean shutdown signal or an unrecoverable API
// error, the latter surfaced via ctrl.SetupSignalHandler's context and
// reported distinctly (exit code 2).
func run(options runOptions) error {
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&options.zapOpts)))
	setupLog.Info("initializing kube-perftest operator", "version", version.GitVersion)

	settings, err := controllerconfig.NewSettings(viper.New(), options.configFile)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cfg := ctrl.GetConfigOrDie()

	clientSet, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating kubernetes client set: %w", err)
	}

	if err := checkSchedulerBackendAvailable(cfg, settings.SchedulerBackend); err != nil {
		return fmt.Errorf("checking gang-scheduler backend: %w", err)
	}

	if !options.enableHTTP2 {
		tlsOpts = append(tlsOpts, func(c *tls.Config) {
			setupLog.Info("disabling http/2")
			c.NextProtos = []string{"http/1.1"}
		})
	}

	cacheOpts := cache.Options{}
	if options.namespace != "" {
		cacheOpts.DefaultNamespaces = map[string]cache.Config{options.namespace: {}}
	}

	mgr, err := manager.New(cfg, manager.Options{
		Scheme: scheme,
		Cache:  cacheOpts,
		Metrics: metricsserver.Options{
			BindAddress:   options.metricsAddr,
			TLSOpts:       tlsOpts,
			SecureServing: options.secureMetrics,
		},
		WebhookServer: webhook.NewServer(webhook.Options{
			Port:    options.webhookPort,
			TLSOpts: tlsOpts,
		}),
		LeaderElection:          options.enableLeaderElection,
		LeaderElectionID:        LeaderLockName,
		LeaderElectionNamespace: options.leaderElectionNamespace,
		HealthProbeBindAddress:  options.probeAddr,
	})
	if err != nil {
		return fmt.Errorf("initializing controller manager: %w", err)
	}

	eventBroadcaster := record.NewBroadcaster()
	eventBroadcaster.StartRecordingToSink(&typedcorev1.EventSinkImpl{Interface: clientSet.CoreV1().Events("")})
	recorder := eventBroadcaster.NewRecorder(mgr.GetScheme(), corev1.EventSource{Component: constants.OperatorName})

	handlers := registry.NewRegistry()
	priorityManager := priority.NewManager(mgr.GetClient(), settings.PriorityMin, settings.PriorityMax)
	scraper := logscraper.NewScraper(mgr.GetClient(), clientSet)

	for kind, handler := range handlers {
		reconciler := &benchmark.Reconciler{
			Client:   mgr.GetClient(),
			Scheme:   mgr.GetScheme(),
			Recorder: recorder,
			Log:      ctrl.Log.WithName(kind),
			Settings: settings,
			Registry: handlers,
			Priority: priorityManager,
			Scraper:  scraper,
			Kind:     kind,
		}
		if err := reconciler.SetupWithManager(mgr, handler); err != nil {
			return fmt.Errorf("setting up %s controller: %w", kind, err)
		}
	}

	setReconciler := &benchmarkset.Reconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Registry: handlers,
	}
	if err := benchmarkset.SetupWithManager(mgr, setReconciler, handlers); err != nil {
		return fmt.Errorf("setting up benchmarkset controller: %w", err)
	}

	if options.enableWebhook {
		decoder := admission.NewDecoder(mgr.GetScheme())
		hookServer := mgr.GetWebhookServer()
		hookServer.Register("/validate-perftest-stackhpc-com-v1alpha1-benchmark", &webhook.Admission{
			Handler: &benchmarkwebhook.Validator{Decoder: decoder, Registry: handlers},
		})
		hookServer.Register("/validate-perftest-stackhpc-com-v1alpha1-benchmarkset", &webhook.Admission{
			Handler: &benchmarksetwebhook.Validator{Decoder: decoder, Registry: handlers},
		})
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("setting up health check: %w", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("setting up ready check: %w", err)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(signals.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "manager exited with an error")
		os.Exit(2)
	}
	return nil
}

package constants

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Operator identity and CRD group.
var (
	OperatorName      = "kube-perftest"
	APIGroupName      = "perftest.stackhpc.com"
	ConfigMapName     = "kube-perftest-operator-config"
	OperatorNamespace = getEnvOrDefault("POD_NAMESPACE", "kube-perftest-system")
)

// Benchmark kind names, as registered in the kind registry and stamped onto
// the kind label of every child pod.
const (
	KindIPerf         = "IPerf"
	KindMPIPingPong   = "MPIPingPong"
	KindOpenFOAM      = "OpenFOAM"
	KindRDMABandwidth = "RDMABandwidth"
	KindRDMALatency   = "RDMALatency"
	KindFio           = "Fio"
	KindPyTorch       = "PyTorch"
)

// Canonical task/component names used across kinds.
const (
	ComponentServer = "server"
	ComponentClient = "client"
	ComponentMaster = "master"
	ComponentWorker = "worker"
)

// Canonical identity labels (spec §3). Settings carries the names actually
// applied at runtime; these are the defaults it falls back to.
var (
	KindLabel      = APIGroupName + "/kind"
	NamespaceLabel = APIGroupName + "/namespace"
	NameLabel      = APIGroupName + "/name"
	ComponentLabel = APIGroupName + "/component"
	HostsFromLabel = APIGroupName + "/hosts-from"
	SetLabel       = APIGroupName + "/benchmark-set"
)

// Default process-wide settings (pkg/controller/v1alpha1/controllerconfig).
const (
	DefaultSchedulerBackend = "volcano"
	DefaultQueueName        = "default"
	DefaultDiscoveryImage   = "ghcr.io/stackhpc/kube-perftest-discovery:latest"
	DefaultImagePullPolicy  = "IfNotPresent"
	DefaultMinPriority      = 0
	DefaultMaxPriority      = 1000000
	DefaultReconcileTimeout = "2m"
	DefaultLogScrapeTimeout = "30s"
)

// SettingsEnvPrefix is the viper env prefix for process-wide settings
// (spec §6: "KUBE_PERFTEST__"). Viper joins envPrefix and key with a single
// "_", so a trailing underscore here yields the required double underscore.
const SettingsEnvPrefix = "KUBE_PERFTEST_"

// Finalizers.
var (
	BenchmarkFinalizer    = APIGroupName + "/benchmark-protection"
	BenchmarkSetFinalizer = APIGroupName + "/benchmarkset-protection"
)

// Multus network attachment annotation, set on pod templates when a
// benchmark requests a dedicated NetworkName (spec §4.3).
const (
	MultusNetworksAnnotation = "k8s.v1.cni.cncf.io/networks"
)

// ControlPlaneNodeLabelKey is the well-known label control-plane nodes carry.
// Spread-placed benchmark pods are required to avoid these nodes (spec §4.3)
// so a benchmark never competes with the control plane for node resources.
const (
	ControlPlaneNodeLabelKey = "node-role.kubernetes.io/control-plane"
)

// Volcano-related constants. Volcano is the default gang-scheduler backend;
// these mirror the teacher's own Volcano integration naming.
const (
	VolcanoSchedulerName = "volcano"
	VolcanoQueueLabelKey = "volcano.sh/queue-name"
	VolcanoJobLabelName  = "volcano.sh/job-name"
)

// scheduler-plugins co-scheduling backend, wired as the alternate gang
// scheduler (SPEC_FULL §6).
const (
	SchedulerPluginsBackendName = "scheduler-plugins"
	PodGroupLabelKey            = "scheduling.x-k8s.io/pod-group"
)

// Container names used by the discovery protocol (SPEC_FULL §4.4/§4.7).
const (
	DiscoveryInitContainerName = "discovery-init"
	BenchmarkContainerName     = "benchmark"
)

// GPU resource constants, surfaced by the PyTorch kind's numGPUs field.
const (
	NvidiaGPUResourceType = "nvidia.com/gpu"
)

// CheckResultType describes the outcome of comparing a desired child object
// against the cluster's current state, driving whether a reconcile creates,
// updates, or leaves an object alone.
type CheckResultType int

const (
	CheckResultCreate  CheckResultType = 0
	CheckResultUpdate  CheckResultType = 1
	CheckResultExisted CheckResultType = 2
	CheckResultUnknown CheckResultType = 3
	CheckResultDelete  CheckResultType = 4
	CheckResultSkipped CheckResultType = 5
)

func (c CheckResultType) String() string {
	switch c {
	case CheckResultCreate:
		return "Create"
	case CheckResultUpdate:
		return "Update"
	case CheckResultExisted:
		return "Existed"
	case CheckResultUnknown:
		return "Unknown"
	case CheckResultDelete:
		return "Delete"
	case CheckResultSkipped:
		return "Skipped"
	default:
		return "Invalid"
	}
}

// BenchmarkPhase is the coarse lifecycle state surfaced on status.phase
// (spec §3/§4.1).
type BenchmarkPhase string

const (
	PhasePending     BenchmarkPhase = "Pending"
	PhasePreparing   BenchmarkPhase = "Preparing"
	PhaseRunning     BenchmarkPhase = "Running"
	PhaseSummarising BenchmarkPhase = "Summarising"
	PhaseSucceeded   BenchmarkPhase = "Succeeded"
	PhaseFailed      BenchmarkPhase = "Failed"
	PhaseTerminating BenchmarkPhase = "Terminating"
)

// Kubernetes naming constraints, reused when deriving child object names
// and label values from arbitrarily long benchmark/set names.
const (
	MaxLabelNameLength    = 63
	MaxConfigMapKeyLength = 253
	HashPrefixLength      = 8
)

// TruncateWithHash truncates a string to maxLength, keeping its suffix and
// prefixing a content hash so distinct long names don't collide.
func TruncateWithHash(original string, maxLength int) string {
	if len(original) <= maxLength {
		return original
	}

	hasher := sha256.New()
	hasher.Write([]byte(original))
	hashBytes := hasher.Sum(nil)
	hashPrefix := hex.EncodeToString(hashBytes)[:HashPrefixLength]

	suffixLength := maxLength - HashPrefixLength - 1
	if suffixLength <= 0 {
		return hashPrefix[:maxLength]
	}

	suffix := original[len(original)-suffixLength:]
	return fmt.Sprintf("%s-%s", hashPrefix, suffix)
}

func getEnvOrDefault(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

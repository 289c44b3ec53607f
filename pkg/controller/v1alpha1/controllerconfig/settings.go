// Package controllerconfig loads the operator's process-wide settings
// (spec §6): the default image/pull policy, the canonical label names, the
// gang-scheduler backend and queue, the discovery container image, and the
// priority-class window. Grounded on the teacher's viper-based config
// loading (cmd/ome-agent/config.go, internal/ome-agent/enigma/config.go)
// generalized from fx-wired per-agent configs to a single settings struct.
package controllerconfig

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/stackhpc/kube-perftest/pkg/configutils"
	"github.com/stackhpc/kube-perftest/pkg/constants"
)

// LabelNames is the configurable set of canonical identity label keys
// (spec §3 "Labels"). Defaults come from pkg/constants; an operator
// deployment may override them to coexist with another label convention.
type LabelNames struct {
	KindLabel      string `mapstructure:"kind_label"`
	NamespaceLabel string `mapstructure:"namespace_label"`
	NameLabel      string `mapstructure:"name_label"`
	ComponentLabel string `mapstructure:"component_label"`
	HostsFromLabel string `mapstructure:"hosts_from_label"`
}

// Settings is the process-wide configuration loaded once at operator
// startup (spec §6).
type Settings struct {
	// DefaultImageTag is loaded with the other settings, but no renderer
	// reads it: a benchmark whose spec.image is empty runs its kind's own
	// DefaultImage.
	DefaultImageTag string `mapstructure:"default_image_tag"`

	// DefaultImagePullPolicy is used when a benchmark's spec omits one.
	DefaultImagePullPolicy string `mapstructure:"default_image_pull_policy"`

	// Labels is the canonical label-name set stamped on every child pod.
	Labels LabelNames `mapstructure:"labels"`

	// SchedulerBackend selects the gang-scheduler the renderer targets:
	// "volcano" (default) or "scheduler-plugins" (SPEC_FULL §6/§8.9).
	SchedulerBackend string `mapstructure:"scheduler_backend"`

	// SchedulerName is the Volcano scheduler name set on rendered Jobs.
	SchedulerName string `mapstructure:"scheduler_name"`

	// QueueName is the Volcano queue rendered Jobs are submitted to.
	QueueName string `mapstructure:"queue_name"`

	// DiscoveryContainerImage is the image used for the wait-for-peers and
	// wait-for-port init containers (spec §4.4).
	DiscoveryContainerImage string `mapstructure:"discovery_container_image"`

	// PriorityMin/PriorityMax bound the descending priority window the
	// priority manager allocates from (spec §4.6).
	PriorityMin int `mapstructure:"priority_min"`
	PriorityMax int `mapstructure:"priority_max"`

	// ReconcileTimeout bounds API calls made during one reconcile (spec §5).
	ReconcileTimeout time.Duration `mapstructure:"reconcile_timeout"`

	// LogScrapeTimeout bounds a single log-scrape-and-parse attempt (spec §5).
	LogScrapeTimeout time.Duration `mapstructure:"log_scrape_timeout"`
}

func defaultSettings() *Settings {
	reconcileTimeout, _ := time.ParseDuration(constants.DefaultReconcileTimeout)
	logScrapeTimeout, _ := time.ParseDuration(constants.DefaultLogScrapeTimeout)

	return &Settings{
		DefaultImagePullPolicy: constants.DefaultImagePullPolicy,
		Labels: LabelNames{
			KindLabel:      constants.KindLabel,
			NamespaceLabel: constants.NamespaceLabel,
			NameLabel:      constants.NameLabel,
			ComponentLabel: constants.ComponentLabel,
			HostsFromLabel: constants.HostsFromLabel,
		},
		SchedulerBackend:        constants.DefaultSchedulerBackend,
		SchedulerName:           constants.VolcanoSchedulerName,
		QueueName:               constants.DefaultQueueName,
		DiscoveryContainerImage: constants.DefaultDiscoveryImage,
		PriorityMin:             constants.DefaultMinPriority,
		PriorityMax:             constants.DefaultMaxPriority,
		ReconcileTimeout:        reconcileTimeout,
		LogScrapeTimeout:        logScrapeTimeout,
	}
}

// NewSettings loads Settings from an optional config file plus
// "KUBE_PERFTEST__"-prefixed environment overrides (spec §6). configFilePath
// may be empty, in which case only defaults and environment overrides apply.
func NewSettings(v *viper.Viper, configFilePath string) (*Settings, error) {
	settings := defaultSettings()

	v.SetEnvPrefix(constants.SettingsEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFilePath != "" {
		if err := configutils.ResolveAndMergeFile(v, configFilePath); err != nil {
			return nil, errors.Wrapf(err, "loading settings from %s", configFilePath)
		}
	}

	if err := configutils.BindEnvsRecursive(v, settings, ""); err != nil {
		return nil, errors.Wrap(err, "binding settings environment overrides")
	}

	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.Wrap(err, "unmarshalling settings")
	}

	if settings.SchedulerBackend != constants.DefaultSchedulerBackend &&
		settings.SchedulerBackend != constants.SchedulerPluginsBackendName {
		return nil, errors.Errorf("invalid scheduler_backend %q, must be %q or %q",
			settings.SchedulerBackend, constants.DefaultSchedulerBackend, constants.SchedulerPluginsBackendName)
	}

	return settings, nil
}

package controllerconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/stackhpc/kube-perftest/pkg/testing"
)

func TestNewSettings_Defaults(t *testing.T) {
	settings, err := NewSettings(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "volcano", settings.SchedulerBackend)
	assert.Equal(t, "default", settings.QueueName)
	assert.Equal(t, "perftest.stackhpc.com/kind", settings.Labels.KindLabel)
	assert.Equal(t, 0, settings.PriorityMin)
	assert.Equal(t, 1000000, settings.PriorityMax)
}

func TestNewSettings_FileOverride(t *testing.T) {
	tempDir, closer, err := testutils.TempDir()
	require.NoError(t, err)
	defer closer()

	configPath := filepath.Join(tempDir, "settings.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("queue_name: gpu-queue\nscheduler_backend: scheduler-plugins\n"), 0o600))

	settings, err := NewSettings(viper.New(), configPath)
	require.NoError(t, err)

	assert.Equal(t, "gpu-queue", settings.QueueName)
	assert.Equal(t, "scheduler-plugins", settings.SchedulerBackend)
}

func TestNewSettings_EnvOverride(t *testing.T) {
	t.Setenv("KUBE_PERFTEST__QUEUE_NAME", "env-queue")

	settings, err := NewSettings(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "env-queue", settings.QueueName)
}

func TestNewSettings_RejectsUnknownSchedulerBackend(t *testing.T) {
	_, err := NewSettings(viper.New(), "")
	require.NoError(t, err)

	t.Setenv("KUBE_PERFTEST__SCHEDULER_BACKEND", "not-a-real-backend")

	_, err = NewSettings(viper.New(), "")
	assert.Error(t, err)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailops/trail-ingest-app/internal/config"
)

func TestSetDefaults(t *testing.T) {
	require.NoError(t, config.SetDefaults())

	assert.Equal(t, config.ModePoller, config.Global.Mode)
	assert.True(t, config.Global.Metrics.Enabled)
	assert.Equal(t, ":9102", config.Global.Metrics.Addr)
	assert.Equal(t, 4, config.Queue.Workers)
	assert.Equal(t, int32(10), config.Queue.BatchSize)
	assert.Equal(t, 20*time.Second, config.Queue.WaitTime)
	assert.True(t, config.Sink.Log.Enabled)
	assert.False(t, config.Sink.CloudEvents.Enabled)
	assert.Equal(t, "sqs", config.Lambda.PayloadType)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
global:
  mode: lambda
  logging:
    verbosity: 2
queue:
  url: https://sqs.eu-west-1.amazonaws.com/111111111111/trail-notifications
  workers: 8
sink:
  cloudEvents:
    enabled: true
    target: http://collector:8080/
`), 0o600))

	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, config.ModeLambda, config.Global.Mode)
	assert.Equal(t, 2, config.Global.Logging.Verbosity)
	assert.Equal(t, "https://sqs.eu-west-1.amazonaws.com/111111111111/trail-notifications", config.Queue.URL)
	assert.Equal(t, 8, config.Queue.Workers)
	assert.True(t, config.Sink.CloudEvents.Enabled)
	assert.Equal(t, "http://collector:8080/", config.Sink.CloudEvents.Target)
}

func TestLoadFromFileMissingIsIgnored(t *testing.T) {
	assert.NoError(t, config.LoadFromFile(""))
	assert.NoError(t, config.LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml")))
}

func TestLoadFromFileRejectsDirectory(t *testing.T) {
	assert.Error(t, config.LoadFromFile(t.TempDir()))
}

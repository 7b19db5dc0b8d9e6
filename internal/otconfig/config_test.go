package otconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bus:
  driver: fake
mqtt:
  broker_url: tcp://broker.example:1883
  node_id: boiler1
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fake", cfg.Bus.Driver)
	assert.Equal(t, "tcp://broker.example:1883", cfg.MQTT.BrokerURL)
	assert.Equal(t, "boiler1", cfg.MQTT.NodeID)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Cadence, cfg.Cadence)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/gateway.yaml")
	assert.Error(t, err)
}

func TestFlagsApplyOverridesOnlySetValues(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--bus", "gpio", "--log-level", "warn"}))

	cfg := Default()
	cfg.MQTT.BrokerURL = "tcp://unchanged:1883"
	flags.Apply(&cfg)

	assert.Equal(t, "gpio", cfg.Bus.Driver)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "tcp://unchanged:1883", cfg.MQTT.BrokerURL)
}

// Package otconfig loads the gateway's YAML configuration file and
// lets a small set of fields be overridden from the command line,
// following the pattern samoyed's kissutil.go and deviceid.go use
// (gopkg.in/yaml.v3 for the file, spf13/pflag for overrides).
package otconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the gateway's full runtime configuration.
type Config struct {
	Bus      BusConfig      `yaml:"bus"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Cadence  CadenceConfig  `yaml:"cadence"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	LogLevel string         `yaml:"log_level"`
	Syslog   SyslogConfig   `yaml:"syslog"`
}

// BusConfig selects and configures the line-driver backend.
type BusConfig struct {
	// Driver is "gpio" or "fake"; picothermd has no "pio" driver.
	Driver string `yaml:"driver"`
	TXPin  int    `yaml:"tx_pin"`
	RXPin  int    `yaml:"rx_pin"`
	Chip   string `yaml:"chip"` // Linux gpiochip device, e.g. "gpiochip0"

	// PowerCycleCounterID is the vendor-assigned Data-ID the boiler
	// uses for its power-cycle counter (spec §3, §4.D "vendor-assigned,
	// called out in E"). Zero means "not configured"; restart
	// detection (spec §4.E detail cycle) is skipped in that case.
	PowerCycleCounterID uint8 `yaml:"power_cycle_counter_id"`
}

// MQTTConfig configures the Home Assistant MQTT bridge.
type MQTTConfig struct {
	BrokerURL string `yaml:"broker_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	NodeID    string `yaml:"node_id"`
	ClientID  string `yaml:"client_id"`
}

// CadenceConfig tunes the three control-loop cadences (spec §4.E). The
// mandatory cycle is deliberately not configurable below 1s (spec
// invariant I5).
type CadenceConfig struct {
	Detail time.Duration `yaml:"detail"`
	Write  time.Duration `yaml:"write"`
	Backoff time.Duration `yaml:"backoff"`
}

// MetricsConfig configures the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// SyslogConfig configures the syslog forwarding sink.
type SyslogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Network string `yaml:"network"` // "udp", "tcp", or "" for local
	Addr    string `yaml:"addr"`
}

// Default returns a Config with the gateway's documented defaults.
func Default() Config {
	return Config{
		Bus: BusConfig{
			Driver: "gpio",
			TXPin:  17,
			RXPin:  27,
			Chip:   "gpiochip0",
		},
		MQTT: MQTTConfig{
			BrokerURL: "tcp://localhost:1883",
			NodeID:    "picotherm",
			ClientID:  "picothermd",
		},
		Cadence: CadenceConfig{
			Detail:  30 * time.Second,
			Write:   30 * time.Second,
			Backoff: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9110",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file, falling back to Default() for any
// field the file doesn't set.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("otconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("otconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags registers CLI overrides for the most commonly tweaked fields
// onto fs, to be applied to cfg after fs.Parse().
type Flags struct {
	ConfigPath *string
	BrokerURL  *string
	BusDriver  *string
	LogLevel   *string
}

// RegisterFlags adds the gateway's standard flag set to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	return &Flags{
		ConfigPath: fs.StringP("config", "c", "", "Path to gateway YAML config file."),
		BrokerURL:  fs.String("mqtt-broker", "", "Override the MQTT broker URL."),
		BusDriver:  fs.String("bus", "", "Override the bus driver (gpio, fake)."),
		LogLevel:   fs.StringP("log-level", "l", "", "Override the log level."),
	}
}

// Apply overlays any flags the user actually set onto cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.BrokerURL != nil && *f.BrokerURL != "" {
		cfg.MQTT.BrokerURL = *f.BrokerURL
	}
	if f.BusDriver != nil && *f.BusDriver != "" {
		cfg.Bus.Driver = *f.BusDriver
	}
	if f.LogLevel != nil && *f.LogLevel != "" {
		cfg.LogLevel = *f.LogLevel
	}
}

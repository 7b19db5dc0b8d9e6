// Command picothermd is the gateway daemon: it loads a config, opens
// the configured bus backend, and runs the control loop and MQTT
// bridge side by side until killed (spec §5's "process termination is
// the only exit").
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/adq/picotherm/internal/control"
	"github.com/adq/picotherm/internal/mqttbridge"
	"github.com/adq/picotherm/internal/otbus"
	"github.com/adq/picotherm/internal/otbus/fakebus"
	"github.com/adq/picotherm/internal/otbus/gpiodriver"
	"github.com/adq/picotherm/internal/otconfig"
	"github.com/adq/picotherm/internal/otengine"
	"github.com/adq/picotherm/internal/otid"
	"github.com/adq/picotherm/internal/otmetrics"
	"github.com/adq/picotherm/internal/shadow"
)

func main() {
	if err := run(); err != nil {
		log.Default().Error("picothermd: exiting", "err", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("picothermd", pflag.ExitOnError)
	flags := otconfig.RegisterFlags(fs)
	fs.Parse(os.Args[1:])

	cfg, err := otconfig.Load(*flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.Apply(&cfg)

	logger := log.Default()
	logger.SetLevel(parseLevel(cfg.LogLevel))
	if cfg.Syslog.Enabled {
		sink, err := newSyslogWriter(cfg.Syslog)
		if err != nil {
			logger.Warn("picothermd: syslog sink disabled", "err", err)
		} else {
			logger.SetOutput(sink)
		}
	}

	bus, closeBus, err := openBus(cfg.Bus)
	if err != nil {
		return fmt.Errorf("picothermd: open bus: %w", err)
	}
	defer closeBus()

	recorder := otmetrics.New()

	catalog := &otid.Client{
		Bus:        bus,
		Timeout:    otengine.DefaultTimeout,
		MaxRetries: 2,
		Recorder:   recorder,
	}

	sh := shadow.New()
	commands := make(chan control.Command, 16)

	loop := control.New()
	loop.Catalog = catalog
	loop.Shadow = sh
	loop.Commands = commands
	loop.Observer = recorder
	loop.Logger = logger
	loop.DetailCadence = cfg.Cadence.Detail
	loop.WriteCadence = cfg.Cadence.Write
	loop.BackoffCooldown = cfg.Cadence.Backoff
	loop.PowerCycleCounterID = cfg.Bus.PowerCycleCounterID

	bridge := mqttbridge.New(mqttbridge.Config{
		BrokerURL: cfg.MQTT.BrokerURL,
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
		NodeID:    cfg.MQTT.NodeID,
		ClientID:  cfg.MQTT.ClientID,
	}, sh, commands, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	err = bridge.Connect(connectCtx)
	connectCancel()
	if err != nil {
		return fmt.Errorf("picothermd: connect to mqtt broker: %w", err)
	}
	defer bridge.Close()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr, logger)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- loop.Run(ctx) }()
	go func() { errCh <- bridge.Run(ctx) }()

	err = <-errCh
	cancel()
	<-errCh
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func openBus(cfg otconfig.BusConfig) (otbus.Bus, func(), error) {
	switch cfg.Driver {
	case "gpio":
		d, err := gpiodriver.Open(cfg.Chip, cfg.TXPin, cfg.RXPin)
		if err != nil {
			return nil, nil, err
		}
		return d, func() { d.Close() }, nil
	case "fake":
		return fakebus.New(fakebus.CannedBoiler), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("picothermd: unknown bus driver %q (want gpio or fake; pio is built via --tags rp2040/rp2350)", cfg.Driver)
	}
}

func serveMetrics(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("picothermd: metrics server stopped", "err", err)
	}
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

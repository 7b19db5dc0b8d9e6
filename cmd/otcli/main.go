// Command otcli is the gateway's debug harness (spec §6): issue a
// single READ-DATA/WRITE-DATA by numeric ID, or scan the whole 0-255
// ID space and report which IDs ACK, DATA-INVALID, UNKNOWN-DATAID, or
// time out. Exits non-zero on any transport-level failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/adq/picotherm/internal/otbus"
	"github.com/adq/picotherm/internal/otbus/fakebus"
	"github.com/adq/picotherm/internal/otengine"
	"github.com/adq/picotherm/internal/otid"
	"github.com/adq/picotherm/internal/ttyserial"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("otcli", pflag.ContinueOnError)
	fake := fs.Bool("fake", false, "Run against an in-memory fake bus instead of hardware.")
	serialDev := fs.String("serial", "", "Run against a USB-serial OpenTherm bridge at this device path.")
	baud := fs.Uint("baud", 9600, "Serial baud rate, used only with --serial.")
	scan := fs.Bool("scan", false, "Scan Data-IDs 0-255 instead of a single read/write.")
	write := fs.Bool("write", false, "Issue a WRITE-DATA instead of READ-DATA.")
	timeout := fs.Duration("timeout", time.Second, "Per-exchange timeout.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	bauds := map[uint]ttyserial.BaudRate{
		9600: ttyserial.Baud9600, 19200: ttyserial.Baud19200, 38400: ttyserial.Baud38400,
		57600: ttyserial.Baud57600, 115200: ttyserial.Baud115200,
	}
	baudRate, ok := bauds[*baud]
	if !ok && *serialDev != "" {
		fmt.Fprintln(os.Stderr, "otcli: unsupported baud rate:", *baud)
		return 2
	}

	bus, closeBus, err := openDebugBus(*fake, *serialDev, baudRate)
	if err != nil {
		fmt.Fprintln(os.Stderr, "otcli:", err)
		return 1
	}
	defer closeBus()

	client := &otid.Client{Bus: bus, Timeout: *timeout, MaxRetries: 1}
	ctx := context.Background()

	if *scan {
		return runScan(ctx, client)
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "otcli: usage: otcli [flags] <data-id> [value]")
		return 2
	}
	dataID, err := strconv.ParseUint(rest[0], 0, 8)
	if err != nil {
		fmt.Fprintln(os.Stderr, "otcli: invalid data-id:", err)
		return 2
	}

	if *write {
		if len(rest) < 2 {
			fmt.Fprintln(os.Stderr, "otcli: --write requires a value argument")
			return 2
		}
		value, err := strconv.ParseUint(rest[1], 0, 16)
		if err != nil {
			fmt.Fprintln(os.Stderr, "otcli: invalid value:", err)
			return 2
		}
		echoed, err := client.WriteRaw(ctx, uint8(dataID), uint16(value))
		if err != nil {
			fmt.Fprintln(os.Stderr, "otcli: write failed:", err)
			return 1
		}
		fmt.Printf("WRITE-ACK data-id=%#x value=%d\n", dataID, echoed)
		return 0
	}

	value, err := client.ReadRaw(ctx, uint8(dataID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "otcli: read failed:", err)
		return 1
	}
	fmt.Printf("READ-ACK data-id=%#x value=%d\n", dataID, value)
	return 0
}

// runScan reads every Data-ID 0-255 and reports how each one
// classified (spec §6 "reports which IDs ACK, return
// DATA-INVALID/UNKNOWN-DATAID, or time out").
func runScan(ctx context.Context, client *otid.Client) int {
	failures := 0
	for id := 0; id < 256; id++ {
		value, err := client.ReadRaw(ctx, uint8(id))
		switch {
		case err == nil:
			fmt.Printf("%#04x ACK-OK value=%d\n", id, value)
		default:
			var engineErr *otengine.Error
			if errors.As(err, &engineErr) {
				fmt.Printf("%#04x %s\n", id, engineErr.Outcome)
				if engineErr.Outcome != otengine.OutcomeDataInvalid && engineErr.Outcome != otengine.OutcomeUnknownDataID {
					failures++
				}
				continue
			}
			fmt.Printf("%#04x ERROR %v\n", id, err)
			failures++
		}
	}
	if failures > 0 {
		return 1
	}
	return 0
}

func openDebugBus(fake bool, serialDev string, baud ttyserial.BaudRate) (otbus.Bus, func(), error) {
	switch {
	case fake:
		return fakebus.New(fakebus.CannedBoiler), func() {}, nil
	case serialDev != "":
		port, err := ttyserial.Open(serialDev, baud)
		if err != nil {
			return nil, nil, err
		}
		return ttyserial.NewBus(port), func() { port.Close() }, nil
	default:
		return nil, nil, errors.New("otcli: specify --fake or --serial <device>")
	}
}

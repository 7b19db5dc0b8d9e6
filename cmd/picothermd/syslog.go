//go:build !windows

package main

import (
	"io"
	"log/syslog"

	"github.com/adq/picotherm/internal/otconfig"
)

// newSyslogWriter dials the syslog daemon and wraps it as an
// io.Writer, the stdlib "syslog transport" glue spec §1 calls out
// (no third-party syslog client appears anywhere in the retrieval
// pack, so this one ambient concern stays on the standard library).
func newSyslogWriter(cfg otconfig.SyslogConfig) (io.Writer, error) {
	return syslog.Dial(cfg.Network, cfg.Addr, syslog.LOG_WARNING|syslog.LOG_DAEMON, "picothermd")
}

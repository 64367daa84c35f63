package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/webhookmonitor/internal/config"
	"github.com/hamed0406/webhookmonitor/internal/logging"
	"github.com/hamed0406/webhookmonitor/internal/notify"
	"github.com/hamed0406/webhookmonitor/internal/probe"
	"github.com/hamed0406/webhookmonitor/internal/scheduler"
)

var errPreflight = errors.New("preflight failed")

func newPreflightCmd(opts *options) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Validate configuration without starting the monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreflight(cmd.Context(), cmd.OutOrStdout(), loadConfig(opts), resolve, probe.CheckDNS)
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "also resolve every health check host")
	return cmd
}

type dnsFunc func(ctx context.Context, host string) probe.DNSStatus

// runPreflight prints one ✔/⚠/✖ line per check and fails if any ✖ was printed.
func runPreflight(ctx context.Context, w io.Writer, cfg config.Config, resolve bool, dns dnsFunc) error {
	failed := false
	fail := func(msg string) {
		failed = true
		fmt.Fprintln(w, "✖", msg)
	}
	warn := func(msg string) { fmt.Fprintln(w, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(w, "✔", msg) }

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		fail("LOG_LEVEL: " + err.Error())
	} else {
		ok("LOG_LEVEL=" + cfg.LogLevel)
	}

	if s, err := scheduler.New(zap.NewNop(), cfg.CheckSchedule, func(context.Context) {}); err != nil {
		fail("CHECK_SCHEDULE: " + err.Error())
	} else {
		ok(fmt.Sprintf("CHECK_SCHEDULE=%q, next run %s", s.Spec, s.Next(time.Now()).Format(time.RFC3339)))
	}

	if cfg.Addr == "" {
		warn("API_ADDR is empty; status API disabled.")
	} else {
		ok("API_ADDR=" + cfg.Addr)
		if len(cfg.StatusAPIKeys) == 0 {
			warn("STATUS_API_KEYS is empty; status API is open to anyone who can reach it.")
		}
	}

	endpoints, err := config.LoadEndpoints(cfg.ServersFile)
	if err != nil {
		fail(err.Error())
	} else {
		ok(fmt.Sprintf("%d endpoint(s) in %s", len(endpoints), cfg.ServersFile))
	}

	for _, ep := range endpoints {
		ok(fmt.Sprintf("%s: %s -> %s webhook %s", ep.Name, ep.URL, notify.Format(ep.Destination), notify.Redact(ep.Destination)))
		if !resolve || dns == nil {
			continue
		}
		st := dns(ctx, probe.HostOf(ep.URL))
		switch st.Class {
		case probe.DNSResolves, probe.DNSIPLiteral:
		default:
			warn(fmt.Sprintf("%s: host %s does not resolve (%s)", ep.Name, st.Domain, st.Class))
		}
	}

	if failed {
		return errPreflight
	}
	ok("preflight passed")
	return nil
}

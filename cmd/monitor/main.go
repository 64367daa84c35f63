package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hamed0406/webhookmonitor/internal/config"
)

type options struct {
	serversFile string
	envFile     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "webhookmonitor",
		Short: "Probe HTTP health endpoints and post up/down alerts to webhooks",
		Long: `webhookmonitor checks every endpoint in the servers file on a cron
schedule (every minute by default) and posts one alert to the endpoint's
Discord or Slack webhook when it goes down and one when it comes back.

Running without a subcommand is the same as "webhookmonitor run".`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(opts.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd.Context(), loadConfig(opts))
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment (missing is fine)")
	root.PersistentFlags().StringVar(&opts.serversFile, "servers", "", "servers YAML file (overrides SERVERS_FILE)")

	root.AddCommand(newRunCmd(opts), newPreflightCmd(opts), newStatusCmd())
	return root
}

func loadConfig(opts *options) config.Config {
	cfg := config.FromEnv()
	if opts.serversFile != "" {
		cfg.ServersFile = opts.serversFile
	}
	return cfg
}

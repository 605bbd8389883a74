package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/freezer-monitor/internal/config"
	"github.com/oshokin/freezer-monitor/internal/service/monitor"
	"github.com/oshokin/freezer-monitor/internal/service/status"
	"github.com/oshokin/freezer-monitor/internal/version"
)

var (
	// rootCmd represents the base command: the blocking monitor itself.
	rootCmd = &cobra.Command{
		Use:   "freezer-monitor",
		Short: "Watch a freezer contact and email the right people when it changes.",
		Long: `Monitors the freezer alarm contact wired to GPIO17 (header pin 11).

The contact is sampled every 100ms. When it opens an alert email is sent to the
recipients listed for this host in the contact directory; when it closes again
an all-clear follows. If delivery fails the backup recipients are told, and if
that fails too the original message is retried every 5 minutes until it goes
through. If the directory itself cannot be read, the operational fallback
contact is alerted and the event is retried every 15 minutes.

Settings are read from freezer-monitor-settings.yaml in the working directory
or /etc/freezer-monitor; without one, compiled defaults are used.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &monitor.Options{
				ConfigPath: config.Locate(),
			}

			return monitor.Run(ctx, options)
		},
	}

	// statusCmd queries the status endpoint of a running monitor.
	statusCmd = &cobra.Command{
		Use:   "status [address]",
		Short: "Show the state reported by a running monitor.",
		Long: `Queries the gRPC health endpoint of a running monitor and prints whether
the process is up and whether the freezer contact is currently open.

The address defaults to status_addr from the settings file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var address string
			if len(args) > 0 {
				address = args[0]
			}

			options := &status.Options{
				ConfigPath: config.Locate(),
				Address:    address,
				Out:        cmd.OutOrStdout(),
			}

			return status.Run(cmd.Context(), options)
		},
	}
)

// Execute runs the freezer-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersion(rootCmd)
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/index"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild whenever a post changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite(args, buildOptions(cmd)...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "watching %s, press Ctrl+C to stop\n", s.Root)
		return s.Service.Watch(ctx, s.Sink(), func(ix *index.Index, err error) {
			if ix == nil {
				slog.Error("build failed", "error", err)
				return
			}
			if err != nil {
				_ = report(out, err)
			}
			fmt.Fprintf(out, "%d posts written to %s\n", ix.Len(), s.Output())
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addBuildFlags(watchCmd)
}

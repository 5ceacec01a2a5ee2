package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Index a Markdown blog for its renderer",
	Long: `folio reads dated Markdown posts with YAML or TOML front matter,
resolves the links between them and writes the post records and the global
index a static-site renderer consumes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// openSite resolves the site root from the optional directory argument and
// wires the pipeline.
func openSite(args []string, opts ...folio.Option) (*folio.Site, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := folio.FindRoot(dir)
	if err != nil {
		// a plain directory of posts is a site too
		root = dir
	}
	opts = append([]folio.Option{folio.WithLogger(slog.Default())}, opts...)
	return folio.Open(root, opts...)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
)

var (
	buildOut         string
	buildUnpublished bool
	buildRevisions   bool
	buildPermalink   string
	buildSchema      string
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Build the post records and the global index",
	Long: `Build parses every post, resolves the links between them and writes
index.json and posts/<id>.json to the output directory. Posts with errors are
reported and left out; the command then exits with status 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite(args, buildOptions(cmd)...)
		if err != nil {
			return err
		}

		ix, err := s.Service.Generate(cmd.Context(), s.Sink())
		if ix != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%d posts written to %s\n", ix.Len(), s.Output())
		}
		return report(cmd.ErrOrStderr(), err)
	},
}

func buildOptions(cmd *cobra.Command) []folio.Option {
	var opts []folio.Option
	if cmd.Flags().Changed("out") {
		opts = append(opts, folio.WithOutput(buildOut))
	}
	if cmd.Flags().Changed("unpublished") {
		opts = append(opts, folio.WithUnpublished(buildUnpublished))
	}
	if cmd.Flags().Changed("revisions") {
		opts = append(opts, folio.WithRevisions(buildRevisions))
	}
	if cmd.Flags().Changed("permalink") {
		opts = append(opts, folio.WithPermalink(buildPermalink))
	}
	if cmd.Flags().Changed("schema") {
		opts = append(opts, folio.WithSchema(buildSchema))
	}
	return opts
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output directory (default from folio.toml, else _folio)")
	cmd.Flags().BoolVar(&buildUnpublished, "unpublished", false, "Include posts marked published: false")
	cmd.Flags().BoolVar(&buildRevisions, "revisions", false, "Stamp posts with their last git revision")
	cmd.Flags().StringVar(&buildPermalink, "permalink", "", "Permalink style or pattern")
	cmd.Flags().StringVar(&buildSchema, "schema", "", "JSON Schema file the front matter must satisfy")
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

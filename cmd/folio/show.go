package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/site"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <id> [dir]",
	Short: "Show one post",
	Long:  `Show a post by its identifier (<YYYY-MM-DD>-<slug>). Prints the body by default, or the full record with --json.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite(args[1:])
		if err != nil {
			return err
		}

		post, err := s.Service.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showJSON {
			data, err := site.Encode(post)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		fmt.Fprintf(out, "%s\n", post.Title)
		if post.Subtitle != "" {
			fmt.Fprintf(out, "%s\n", post.Subtitle)
		}
		fmt.Fprintf(out, "%s  %s  %s\n", post.Date.Format("2006-01-02"), strings.Join(post.Categories, ","), post.Permalink)
		if len(post.References) > 0 {
			fmt.Fprintf(out, "links to: %s\n", strings.Join(post.References, ", "))
		}
		fmt.Fprintf(out, "\n%s", post.Body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}

package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	listJSON     bool
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List posts in chronological order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite(args)
		if err != nil {
			return err
		}

		summaries, err := s.Service.List(cmd.Context())
		if err != nil {
			return err
		}

		filtered := make([]core.Summary, 0, len(summaries))
		for _, sum := range summaries {
			if listCategory != "" && !slices.Contains(sum.Categories, listCategory) {
				continue
			}
			filtered = append(filtered, sum)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(filtered)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, sum := range filtered {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", sum.ID, sum.Title, strings.Join(sum.Categories, ","))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list posts in this category")
}

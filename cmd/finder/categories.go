package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the resource categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatCategories(cmd.OutOrStdout(), catalog.All())
		return nil
	},
}

func formatCategories(w io.Writer, cats []catalog.Category) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tFILE")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Label, c.File)
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

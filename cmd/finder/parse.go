package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/records"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a category file and print its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return runParse(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], asJSON)
	},
}

func runParse(out, errOut io.Writer, path string, asJSON bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	text := string(b)
	schema, err := records.ResolveSchema(text)
	if err != nil {
		fmt.Fprintf(errOut, "header not recognised, using default column order: %v\n", err)
	}
	recs := records.Collect(records.Parse(text, schema))

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	formatRecords(out, recs)
	return nil
}

func formatRecords(w io.Writer, recs []model.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tNAME\tADDRESS\tPHONE\tWEBSITE\tLAT,LON")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Category, r.Name, r.Address, r.Phone, r.Website, r.Coordinate())
	}
	_ = tw.Flush()
}

func init() {
	parseCmd.Flags().Bool("json", false, "print records as JSON")
	rootCmd.AddCommand(parseCmd)
}

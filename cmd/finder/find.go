package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
	"github.com/mohammed-shakir/resource-radius/internal/finder"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "List resources reachable from an address",
	Long: "Loads the selected categories, requests the isochrone for the address, " +
		"mode and minutes from the proxy and prints the resources inside it.",
	Example: `  finder find --address "233 S Wacker Dr, Chicago, IL" --mode walking --minutes 15 -c food -c legal`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		address, _ := cmd.Flags().GetString("address")
		mode, _ := cmd.Flags().GetString("mode")
		minutes, _ := cmd.Flags().GetString("minutes")
		cats, _ := cmd.Flags().GetStringSlice("category")
		output, _ := cmd.Flags().GetString("output")

		form, err := finder.ParseForm(address, mode, minutes)
		if err != nil {
			return err
		}
		if form.Address == "" {
			return errors.New("--address is required")
		}
		if len(cats) == 0 {
			for _, c := range catalog.All() {
				cats = append(cats, c.ID)
			}
		}

		ctx := cmd.Context()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		f, err := newFinder()
		if err != nil {
			return err
		}
		if err := f.Select(ctx, cats...); err != nil {
			return err
		}
		view, err := f.Submit(ctx, form)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		return writeView(cmd.OutOrStdout(), view, output)
	},
}

func newFinder() (*finder.Finder, error) {
	client := &http.Client{}
	var src finder.Source
	if cfg.DataDir != "" {
		src = finder.DirSource{FS: os.DirFS(cfg.DataDir)}
	} else {
		hs, err := finder.NewHTTPSource(cfg.dataURL(), client)
		if err != nil {
			return nil, err
		}
		src = hs
	}
	pc, err := finder.NewProxyClient(cfg.ProxyURL, client)
	if err != nil {
		return nil, err
	}
	return finder.New(appLog, src, pc), nil
}

func writeView(w io.Writer, v finder.View, output string) error {
	switch strings.ToLower(output) {
	case "geojson":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(finder.Render(v))
	case "", "table":
		formatRecords(w, v.Records)
		fmt.Fprintf(w, "\n%d resources within %d minutes (%s) of %s\n",
			len(v.Records), v.Form.Minutes, v.Form.Mode, v.Form.Address)
		return nil
	default:
		return fmt.Errorf("unknown output %q (want table or geojson)", output)
	}
}

func init() {
	findCmd.Flags().String("address", "", "street address to search from")
	findCmd.Flags().String("mode", "driving", "transport mode: driving, walking, cycling")
	findCmd.Flags().String("minutes", "15", "travel time budget, clamped to 1-60")
	findCmd.Flags().StringSliceP("category", "c", nil, "category id to include (repeatable, default all)")
	findCmd.Flags().StringP("output", "o", "table", "output format: table or geojson")
	rootCmd.AddCommand(findCmd)
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/resource-radius/internal/logger"
)

var (
	cfg    *finderConfig
	appLog *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Find assistance resources within travel time of an address",
	Long: "Loads resource category files, asks the resource proxy for a travel-time " +
		"isochrone around an address and lists the resources inside it.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		zl := logger.Build(logger.Config{
			Level:     cfg.Log.Level,
			Console:   cfg.Log.Console,
			Service:   "resource-radius",
			Component: "finder",
		}, os.Stderr)
		appLog = logger.NewSlog(&zl)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("proxy-url", "", "resource proxy base URL (default http://localhost:4000)")
	pf.String("data-url", "", "base URL of the category files (default <proxy-url>/locations)")
	pf.String("data-dir", "", "read category files from this directory instead of over HTTP")
	pf.Duration("timeout", 0, "overall request timeout (default 60s)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	rootCmd = &cobra.Command{
		Use:          "shop-dashboard",
		Short:        "Revenue dashboard for a Shopify store",
		RunE:         serve,
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the shop-dashboard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Fetch orders for a date range and print the metrics as JSON",
		RunE:  report,
	}

	cfgFile    string
	reportFrom string
	reportTo   string
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first day of the report, YYYY-MM-DD (defaults to --to)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last day of the report, YYYY-MM-DD (defaults to today)")
	rootCmd.AddCommand(versionCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("shop-dashboard failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"mincerdash/internal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "mincer",
		Short:         "Education return (Mincer equation) analysis from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				internal.DefaultLogger.SetLevel(internal.ParseLogLevel(logLevel))
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE (default from LOG_LEVEL)")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newReportCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the simulated wage dataset to a file",
		Long: `Simulate the wage dataset for a seed and write every row to csv or xlsx.

Example: mincer generate --seed 123 --size 1000 --format xlsx --out wages.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", 123, "Random seed for the simulated sample")
	cmd.Flags().IntVar(&opts.Size, "size", 1000, "Number of individuals to simulate")
	cmd.Flags().StringVar(&opts.Format, "format", "xlsx", "Output format: xlsx or csv")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output path (default wage_data_<seed>.<format>)")

	return cmd
}

func newReportCmd() *cobra.Command {
	var opts analysisOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the text report for a filter selection",
		Long: `Filter the dataset, fit the Mincer regression and print the text report.

Example: mincer report --gender female --edu-min 10 --edu-max 18 --robust=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	opts.bind(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var opts analysisOptions
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report and the data workbook into a directory",
		Long: `Produce both dashboard downloads for a filter selection. When DATABASE_URL
is set, the exports are recorded in the export ledger.

Example: mincer export --dir ./out --gender male --edu-min 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, dir)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory the files are written to")
	return cmd
}

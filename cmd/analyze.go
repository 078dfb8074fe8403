package cmd

import (
	"fmt"

	"github.com/KaramelBytes/castgraph/internal/analysis"
	"github.com/KaramelBytes/castgraph/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	anaFlags      analyzeFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a character appearance table and report co-occurrence statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		fs := cmd.Flags()
		opt, err := anaFlags.options(fs)
		if err != nil {
			return err
		}
		format, err := anaFlags.resolveFormat(fs)
		if err != nil {
			return err
		}

		rep, err := analysis.AnalyzeFile(path, opt, logger)
		if err != nil {
			return err
		}
		rep.RunID = runID
		for _, w := range rep.Warnings {
			logger.Warn(w, zap.String("table", rep.Name))
		}

		out := cmd.OutOrStdout()
		if dir := anaFlags.chartDir(fs); dir != "" {
			if err := writeCharts(cmd.ErrOrStderr(), rep, dir, stem(path), chartOptions()); err != nil {
				return err
			}
		}

		body, err := renderReport(rep, format)
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(out, string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	anaFlags.bind(analyzeCmd.Flags())
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/castgraph/internal/analysis"
	"github.com/KaramelBytes/castgraph/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	abFlags     analyzeFlags
	abOutputDir string
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX appearance tables with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		fs := cmd.Flags()
		opt, err := abFlags.options(fs)
		if err != nil {
			return err
		}
		format, err := abFlags.resolveFormat(fs)
		if err != nil {
			return err
		}
		chartDir := abFlags.chartDir(fs)
		if abOutputDir != "" {
			if err := utils.EnsureDir(abOutputDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := analysis.AnalyzeFile(path, opt, logger.With(zap.String("file", path)))
			if err != nil {
				return err
			}
			rep.RunID = runID
			for _, w := range rep.Warnings {
				logger.Warn(w, zap.String("table", rep.Name))
			}
			body, err := renderReport(rep, format)
			if err != nil {
				return err
			}

			name := stem(path)
			if abOutputDir != "" {
				ext := formatExt(format)
				name = uniqueStem(abOutputDir, name, ".report."+ext)
				if name != stem(path) && !abQuiet {
					fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", name+".report."+ext)
				}
				outFile := filepath.Join(abOutputDir, name+".report."+ext)
				if err := utils.SafeWriteFile(outFile, body); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !abQuiet {
					fmt.Fprintf(out, "✓ Wrote analysis to %s\n", outFile)
				}
			} else if !abQuiet {
				fmt.Fprintln(out, string(body))
			}

			if chartDir != "" {
				w := cmd.ErrOrStderr()
				if abQuiet {
					w = io.Discard
				}
				if err := writeCharts(w, rep, chartDir, name, chartOptions()); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates, sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniqueStem returns name, or name__N with the smallest N >= 2, such that
// dir/<result><suffix> does not exist yet.
func uniqueStem(dir, name, suffix string) string {
	if _, err := os.Stat(filepath.Join(dir, name+suffix)); os.IsNotExist(err) {
		return name
	}
	for idx := 2; ; idx++ {
		cand := fmt.Sprintf("%s__%d", name, idx)
		if _, err := os.Stat(filepath.Join(dir, cand+suffix)); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "directory to write one report per input (<name>.report.<ext>)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abFlags.bind(analyzeBatchCmd.Flags())
}

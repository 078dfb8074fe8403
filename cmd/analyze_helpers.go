package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/castgraph/internal/analysis"
	cfgpkg "github.com/KaramelBytes/castgraph/internal/config"
	"github.com/KaramelBytes/castgraph/internal/render"
	"github.com/KaramelBytes/castgraph/internal/utils"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// analyzeFlags are shared by analyze and analyze-batch. Unset flags fall back to config.
type analyzeFlags struct {
	format         string
	topN           int
	topAppearances int
	topPairs       int
	plotTop        int
	plotLabel      string
	character      string
	charts         string
	delimiter      string
	sheetName      string
	sheetIndex     int
}

func (f *analyzeFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.format, "format", "markdown", "report format: markdown | text | pretty | html | json")
	fs.IntVar(&f.topN, "top-n", 15, "number of best-connected characters in the heatmap")
	fs.IntVar(&f.topAppearances, "top-appearances", 10, "number of characters listed by total appearances")
	fs.IntVar(&f.topPairs, "top-pairs", 10, "number of character pairs listed")
	fs.IntVar(&f.plotTop, "plot-top", 3, "number of leading characters listed per plot group")
	fs.StringVar(&f.plotLabel, "plot-label", "plot", "first-column label of the plot-group row")
	fs.StringVar(&f.character, "character", "Rose", "character whose appearance arc is reported and charted")
	fs.StringVar(&f.charts, "charts", "", "directory to write the arc chart and heatmap PNGs")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// options merges defaults, the loaded config and any flags the user set.
func (f *analyzeFlags) options(fs *pflag.FlagSet) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		opt.TopN = cfg.TopN
		opt.TopAppearances = cfg.TopAppearances
		opt.TopPairs = cfg.TopPairs
		opt.PlotTopK = cfg.PlotTopK
		if cfg.PlotLabel != "" {
			opt.PlotLabel = cfg.PlotLabel
		}
		opt.FocusCharacter = cfg.FocusCharacter
	}
	if fs.Changed("top-n") {
		opt.TopN = f.topN
	}
	if fs.Changed("top-appearances") {
		opt.TopAppearances = f.topAppearances
	}
	if fs.Changed("top-pairs") {
		opt.TopPairs = f.topPairs
	}
	if fs.Changed("plot-top") {
		opt.PlotTopK = f.plotTop
	}
	if fs.Changed("plot-label") {
		if f.plotLabel == "" {
			return opt, fmt.Errorf("--plot-label cannot be empty")
		}
		opt.PlotLabel = f.plotLabel
	}
	if fs.Changed("character") {
		opt.FocusCharacter = f.character
	}
	for name, v := range map[string]int{"top-n": opt.TopN, "top-appearances": opt.TopAppearances, "top-pairs": opt.TopPairs, "plot-top": opt.PlotTopK} {
		if v < 0 {
			return opt, fmt.Errorf("--%s must be >= 0, got %d", name, v)
		}
	}

	switch f.delimiter {
	case "":
	case ",":
		opt.Load.Delimiter = ','
	case "\t", "tab":
		opt.Load.Delimiter = '\t'
	case ";":
		opt.Load.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	opt.Load.SheetName = f.sheetName
	opt.Load.SheetIndex = f.sheetIndex
	return opt, nil
}

func (f *analyzeFlags) resolveFormat(fs *pflag.FlagSet) (string, error) {
	format := "markdown"
	if cfg != nil && cfg.Format != "" {
		format = cfg.Format
	}
	if fs.Changed("format") {
		format = f.format
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !cfgpkg.ValidFormat(format) {
		return "", fmt.Errorf("unsupported --format: %s (use %s)", format, strings.Join(cfgpkg.Formats, ", "))
	}
	return format, nil
}

func (f *analyzeFlags) chartDir(fs *pflag.FlagSet) string {
	if fs.Changed("charts") {
		return f.charts
	}
	if cfg != nil {
		return cfg.ChartDir
	}
	return ""
}

func chartOptions() render.ChartOptions {
	opt := render.DefaultChartOptions()
	if cfg != nil {
		opt.Width = cfg.ChartWidth
		opt.Height = cfg.ChartHeight
		opt.Cell = cfg.HeatmapCell
	}
	return opt
}

func prettyStyle() string {
	if cfg != nil && cfg.PrettyStyle != "" {
		return cfg.PrettyStyle
	}
	return "auto"
}

// renderReport encodes the report in the requested format.
func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	switch format {
	case "text":
		return []byte(render.Text(rep)), nil
	case "pretty":
		s, err := render.Pretty(rep.Markdown(), prettyStyle(), 100)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case "html":
		return render.HTML(rep.Markdown())
	case "json":
		return utils.PrettyJSON(rep)
	default:
		return []byte(rep.Markdown()), nil
	}
}

func formatExt(format string) string {
	switch format {
	case "html":
		return "html"
	case "json":
		return "json"
	case "text", "pretty":
		return "txt"
	default:
		return "md"
	}
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeCharts writes <stem>.arc.png and <stem>.heatmap.png into dir. Charts with
// nothing to plot are skipped with a warning. Status lines go to out, which
// callers point at stderr so stdout stays a clean report.
func writeCharts(out io.Writer, rep *analysis.Report, dir, name string, opt render.ChartOptions) error {
	opt.TopN = rep.TopN
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	if rep.Focus == nil {
		logger.Warn("skipping arc chart: focus character not found", zap.String("table", rep.Name))
	} else {
		var buf bytes.Buffer
		renderErr := render.ArcChart(&buf, rep.Focus.Name, rep.Focus.Episodes, rep.Focus.Counts, opt)
		if err := saveChart(out, renderErr, buf.Bytes(), filepath.Join(dir, name+".arc.png"), "arc chart"); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	err := render.Heatmap(&buf, rep.Matrix, opt)
	return saveChart(out, err, buf.Bytes(), filepath.Join(dir, name+".heatmap.png"), "heatmap")
}

func saveChart(out io.Writer, renderErr error, data []byte, path, what string) error {
	switch {
	case errors.Is(renderErr, render.ErrEmptyChart):
		logger.Warn("skipping "+what, zap.String("path", path), zap.Error(renderErr))
		return nil
	case renderErr != nil:
		return renderErr
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	fmt.Fprintf(out, "✓ Wrote %s to %s\n", what, path)
	return nil
}

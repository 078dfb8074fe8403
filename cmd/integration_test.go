package cmd

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const castCSV = `episode,1,2,3,4
Rose,1,1,0,2
Doctor,1,N/A,1,1
Mickey,,0,1,-3
Jackie,1,1,0,0
plot,1,1,2,
`

// resetFlags restores every flag to its default so state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args in an isolated HOME and returns stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := execCmdStreams(t, &buf, &buf, args...)
	return buf.String(), err
}

// execCmdStreams runs the root command with stdout and stderr wired separately.
func execCmdStreams(t *testing.T, stdout, stderr *bytes.Buffer, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func isolatedHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCLI_AnalyzeMarkdown(t *testing.T) {
	home := isolatedHome(t)
	in := filepath.Join(home, "cast.csv")
	writeFile(t, in, castCSV)

	out := runCmd(t, "analyze", in)
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Characters: 4",
		"[CHARACTER ARC: Rose]",
		"Episodes appeared: 3/4",
		"[TOP 4 CHARACTERS BY TOTAL APPEARANCES]",
		"[CO-OCCURRENCE MATRIX]",
		"coerced 2 malformed cell(s) to 0",
		"2 appearance(s) have no plot group",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_AnalyzeJSONToFile(t *testing.T) {
	home := isolatedHome(t)
	in := filepath.Join(home, "cast.csv")
	writeFile(t, in, castCSV)
	outPath := filepath.Join(home, "report.json")

	out := runCmd(t, "analyze", in, "--format", "json", "-o", outPath, "--top-n", "2", "--character", "Doctor")
	if !strings.Contains(out, "Wrote analysis to") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep struct {
		RunID     string `json:"run_id"`
		TopN      int    `json:"top_n"`
		Connected []struct {
			Name string `json:"name"`
		} `json:"connected"`
		Focus struct {
			Name string `json:"name"`
		} `json:"focus"`
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.RunID == "" {
		t.Fatalf("run_id should be set")
	}
	if rep.TopN != 2 || len(rep.Connected) != 2 {
		t.Fatalf("top_n = %d, connected = %d", rep.TopN, len(rep.Connected))
	}
	if rep.Focus.Name != "Doctor" {
		t.Fatalf("focus = %q", rep.Focus.Name)
	}
}

func TestCLI_AnalyzeCharts(t *testing.T) {
	home := isolatedHome(t)
	in := filepath.Join(home, "cast.csv")
	writeFile(t, in, castCSV)
	charts := filepath.Join(home, "charts")

	runCmd(t, "analyze", in, "--charts", charts, "--format", "text")
	for _, name := range []string{"cast.arc.png", "cast.heatmap.png"} {
		f, err := os.Open(filepath.Join(charts, name))
		if err != nil {
			t.Fatalf("missing chart %s: %v", name, err)
		}
		_, err = png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
	}
}

func TestCLI_AnalyzeJSONStdoutWithCharts(t *testing.T) {
	home := isolatedHome(t)
	in := filepath.Join(home, "cast.csv")
	writeFile(t, in, castCSV)
	charts := filepath.Join(home, "charts")

	var stdout, stderr bytes.Buffer
	if err := execCmdStreams(t, &stdout, &stderr, "analyze", in, "--format", "json", "--charts", charts); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	var rep struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout.String())
	}
	if rep.Name == "" {
		t.Fatalf("report name should be set:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Wrote heatmap to") {
		t.Fatalf("chart status should go to stderr, got:\n%s", stderr.String())
	}
}

func TestCLI_AnalyzeSkipsArcChartWhenCharacterMissing(t *testing.T) {
	home := isolatedHome(t)
	in := filepath.Join(home, "cast.csv")
	writeFile(t, in, castCSV)
	charts := filepath.Join(home, "charts")

	out := runCmd(t, "analyze", in, "--charts", charts, "--character", "Nobody")
	if !strings.Contains(out, "'Nobody' character not found in the dataset.") {
		t.Fatalf("missing not-found note:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(charts, "cast.arc.png")); !os.IsNotExist(err) {
		t.Fatalf("arc chart should be skipped, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(charts, "cast.heatmap.png")); err != nil {
		t.Fatalf("heatmap should still be written: %v", err)
	}
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolatedHome(t)
	noPlot := filepath.Join(home, "noplot.csv")
	writeFile(t, noPlot, "episode,1\nRose,1\n")

	cases := [][]string{
		{"analyze", filepath.Join(home, "missing.csv")},
		{"analyze", noPlot},
		{"analyze", noPlot, "--format", "pdf"},
		{"analyze", noPlot, "--delimiter", "|"},
		{"analyze", noPlot, "--top-n", "-1"},
	}
	for _, args := range cases {
		if _, err := execCmd(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolatedHome(t)
	runCmd(t, "config", "set", "focus_character", "Doctor")
	runCmd(t, "config", "set", "top_n", "3")
	if _, err := os.Stat(filepath.Join(home, ".castgraph", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "focus_character: Doctor") || !strings.Contains(out, "top_n: 3") {
		t.Fatalf("unexpected config:\n%s", out)
	}
	if _, err := execCmd(t, "config", "set", "top_n", "lots"); err == nil {
		t.Fatalf("expected invalid int error")
	}

	// Saved config drives analyze defaults.
	in := filepath.Join(home, "cast.csv")
	writeFile(t, in, castCSV)
	out = runCmd(t, "analyze", in)
	if !strings.Contains(out, "[CHARACTER ARC: Doctor]") || !strings.Contains(out, "[TOP 3 CHARACTERS BY TOTAL CO-OCCURRENCE]") {
		t.Fatalf("config not applied:\n%s", out)
	}
}

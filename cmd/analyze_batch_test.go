package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_OutputDirWithCollisionSuffix(t *testing.T) {
	home := isolatedHome(t)

	// Two inputs with the same basename in different directories
	p1 := filepath.Join(home, "d1", "cast.csv")
	p2 := filepath.Join(home, "d2", "cast.csv")
	writeFile(t, p1, castCSV)
	writeFile(t, p2, castCSV)
	outDir := filepath.Join(home, "reports")

	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "cast.csv"), "--output-dir", outDir)
	if !strings.Contains(out, "[1/2] Processing cast.csv...") || !strings.Contains(out, "[2/2] Processing cast.csv...") {
		t.Fatalf("missing progress lines:\n%s", out)
	}

	b1 := filepath.Join(outDir, "cast.report.md")
	b2 := filepath.Join(outDir, "cast__2.report.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing report %s: %v", p, err)
		}
		if !strings.Contains(string(body), "[DATASET SUMMARY]") {
			t.Fatalf("unexpected report body in %s", p)
		}
	}
}

func TestAnalyzeBatch_QuietJSONAndCharts(t *testing.T) {
	home := isolatedHome(t)
	writeFile(t, filepath.Join(home, "a.csv"), castCSV)
	writeFile(t, filepath.Join(home, "b.tsv"), strings.ReplaceAll(castCSV, ",", "\t"))
	outDir := filepath.Join(home, "out")
	charts := filepath.Join(home, "charts")

	out := runCmd(t, "analyze-batch", filepath.Join(home, "a.csv"), filepath.Join(home, "*.tsv"),
		"--output-dir", outDir, "--format", "json", "--charts", charts, "--quiet")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("quiet run printed:\n%s", out)
	}
	for _, p := range []string{
		filepath.Join(outDir, "a.report.json"),
		filepath.Join(outDir, "b.report.json"),
		filepath.Join(charts, "a.arc.png"),
		filepath.Join(charts, "b.heatmap.png"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
}

func TestAnalyzeBatch_NoMatches(t *testing.T) {
	home := isolatedHome(t)
	if _, err := execCmd(t, "analyze-batch", filepath.Join(home, "*.csv")); err == nil {
		t.Fatalf("expected error when no files match")
	}
}

func TestUniqueStem(t *testing.T) {
	dir := t.TempDir()
	if got := uniqueStem(dir, "cast", ".report.md"); got != "cast" {
		t.Fatalf("got %q", got)
	}
	writeFile(t, filepath.Join(dir, "cast.report.md"), "x")
	writeFile(t, filepath.Join(dir, "cast__2.report.md"), "x")
	if got := uniqueStem(dir, "cast", ".report.md"); got != "cast__3" {
		t.Fatalf("got %q", got)
	}
}

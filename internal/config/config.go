package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	TopN           int    `mapstructure:"top_n" yaml:"top_n"`
	TopAppearances int    `mapstructure:"top_appearances" yaml:"top_appearances"`
	TopPairs       int    `mapstructure:"top_pairs" yaml:"top_pairs"`
	PlotTopK       int    `mapstructure:"plot_top_k" yaml:"plot_top_k"`
	PlotLabel      string `mapstructure:"plot_label" yaml:"plot_label"`
	FocusCharacter string `mapstructure:"focus_character" yaml:"focus_character"`

	// Charts
	ChartDir    string `mapstructure:"chart_dir" yaml:"chart_dir"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	HeatmapCell int    `mapstructure:"heatmap_cell" yaml:"heatmap_cell"`

	// Output
	Format      string `mapstructure:"format" yaml:"format"`
	PrettyStyle string `mapstructure:"pretty_style" yaml:"pretty_style"`
}

// Formats lists the accepted report formats.
var Formats = []string{"markdown", "text", "pretty", "html", "json"}

// Dir returns ~/.castgraph.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".castgraph"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.castgraph/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CASTGRAPH")
	v.AutomaticEnv()

	v.SetDefault("top_n", 15)
	v.SetDefault("top_appearances", 10)
	v.SetDefault("top_pairs", 10)
	v.SetDefault("plot_top_k", 3)
	v.SetDefault("plot_label", "plot")
	v.SetDefault("focus_character", "Rose")
	v.SetDefault("chart_dir", "")
	v.SetDefault("chart_width", 1500)
	v.SetDefault("chart_height", 600)
	v.SetDefault("heatmap_cell", 48)
	v.SetDefault("format", "markdown")
	v.SetDefault("pretty_style", "auto")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns one key from its string form, validating numbers and enums.
func (c *Global) Set(key, val string) error {
	setInt := func(dst *int) error {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*dst = i
		return nil
	}
	switch key {
	case "top_n":
		return setInt(&c.TopN)
	case "top_appearances":
		return setInt(&c.TopAppearances)
	case "top_pairs":
		return setInt(&c.TopPairs)
	case "plot_top_k":
		return setInt(&c.PlotTopK)
	case "chart_width":
		return setInt(&c.ChartWidth)
	case "chart_height":
		return setInt(&c.ChartHeight)
	case "heatmap_cell":
		return setInt(&c.HeatmapCell)
	case "plot_label":
		if val == "" {
			return fmt.Errorf("plot_label cannot be empty")
		}
		c.PlotLabel = val
	case "focus_character":
		c.FocusCharacter = val
	case "chart_dir":
		c.ChartDir = val
	case "format":
		f := strings.ToLower(val)
		if !ValidFormat(f) {
			return fmt.Errorf("invalid format: %s (use %s)", val, strings.Join(Formats, ", "))
		}
		c.Format = f
	case "pretty_style":
		c.PrettyStyle = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// ValidFormat reports whether f names a supported report format.
func ValidFormat(f string) bool {
	for _, k := range Formats {
		if f == k {
			return true
		}
	}
	return false
}

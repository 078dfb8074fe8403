package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/castgraph/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set castgraph configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(out, "top_appearances: %d\n", cfg.TopAppearances)
		fmt.Fprintf(out, "top_pairs: %d\n", cfg.TopPairs)
		fmt.Fprintf(out, "plot_top_k: %d\n", cfg.PlotTopK)
		fmt.Fprintf(out, "plot_label: %s\n", cfg.PlotLabel)
		fmt.Fprintf(out, "focus_character: %s\n", cfg.FocusCharacter)
		if cfg.ChartDir != "" {
			fmt.Fprintf(out, "chart_dir: %s\n", cfg.ChartDir)
		}
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "heatmap_cell: %d\n", cfg.HeatmapCell)
		fmt.Fprintf(out, "format: %s\n", cfg.Format)
		fmt.Fprintf(out, "pretty_style: %s\n", cfg.PrettyStyle)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

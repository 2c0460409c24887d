package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/framewall/internal/config"
)

const version = "0.1.0"

var (
	configPath string
	overrides  config.Config
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "framewall",
		Short:         "Layered frame-sequence animated wallpaper",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to a YAML or TOML config file")
	pf.StringVarP(&overrides.StorePath, "store", "s", "", "Frame store: directory, .zip archive or .pdf document (default $HOME/"+config.DefaultFolder+")")
	pf.StringVar(&overrides.StoreKind, "store-kind", "", "Store kind: auto, dir, zip, pdf")
	pf.StringVarP(&overrides.Naming, "naming", "n", "", "File naming convention: single, multi, split")
	pf.StringVar(&overrides.Fit, "fit", "", "Fit policy: center, parallax")
	pf.StringVar(&overrides.Background, "background", "", "Background colour, e.g. #000000")
	pf.IntVar(&overrides.FPS, "fps", 0, "Target frames per second")
	pf.IntVar(&overrides.MinDelayMs, "min-delay", 0, "Minimum delay between frames in milliseconds")
	pf.IntVar(&overrides.SampleSize, "sample-size", 0, "Archive subsampling factor")
	pf.IntVar(&overrides.DPI, "dpi", 0, "PDF render DPI")
	pf.IntVarP(&overrides.Workers, "workers", "w", 0, "Concurrent probes while scanning")
	pf.StringVar(&overrides.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newPlayCmd(), newScanCmd(), newGenCmd(), newConfigCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[-] Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads --config, or the defaults, and applies every flag the
// user set explicitly on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("store", func() { cfg.StorePath = overrides.StorePath })
	set("store-kind", func() { cfg.StoreKind = overrides.StoreKind })
	set("naming", func() { cfg.Naming = overrides.Naming })
	set("fit", func() { cfg.Fit = overrides.Fit })
	set("background", func() { cfg.Background = overrides.Background })
	set("fps", func() { cfg.FPS = overrides.FPS })
	set("min-delay", func() { cfg.MinDelayMs = overrides.MinDelayMs })
	set("sample-size", func() { cfg.SampleSize = overrides.SampleSize })
	set("dpi", func() { cfg.DPI = overrides.DPI })
	set("workers", func() { cfg.Workers = overrides.Workers })
	set("log-level", func() { cfg.LogLevel = overrides.LogLevel })
	set("stats", func() { cfg.ShowStats = overrides.ShowStats })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

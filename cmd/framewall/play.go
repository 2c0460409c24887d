package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/framewall/internal/engine"
	"github.com/ivlev/framewall/internal/host/window"
	"github.com/ivlev/framewall/internal/layer"
	"github.com/ivlev/framewall/internal/logging"
	"github.com/ivlev/framewall/internal/source"
	"github.com/ivlev/framewall/internal/system"
)

func newPlayCmd() *cobra.Command {
	var (
		width, height int
		manifestPath  string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the wallpaper in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger("framewall", logging.GetLogLevel(cfg.LogLevel), nil)

			var manifest *layer.Manifest
			if manifestPath != "" {
				if manifest, err = layer.ReadManifest(manifestPath); err != nil {
					return fmt.Errorf("read manifest: %w", err)
				}
				if !cmd.Flags().Changed("store") && manifest.Store != "" {
					cfg.StorePath = manifest.Store
				}
			}

			opts, err := engine.OptionsFromConfig(cfg, log.Named("engine"))
			if err != nil {
				return err
			}
			if manifest != nil {
				frames := manifest.Frames()
				log.Info("playing frames from manifest", "manifest", manifestPath, "frames", len(frames))
				opts.Source = source.Filter(opts.Source, func(e source.Entry) bool { return frames[e.Path] })
			}
			win := window.New(window.Options{
				Title:  "framewall - " + cfg.StorePath,
				Width:  width,
				Height: height,
				Logger: log.Named("window"),
			})
			eng, err := engine.New(opts, win.Surface(), engine.NewTimerScheduler())
			if err != nil {
				return err
			}
			win.Attach(eng)

			log.Info("starting", "store", cfg.StorePath, "kind", cfg.ResolvedStoreKind(), "naming", cfg.Naming, "fit", cfg.Fit)
			if err := win.Run(); err != nil {
				return fmt.Errorf("window: %w", err)
			}

			if cfg.ShowStats {
				printStats(cmd, eng)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 540, "Window width")
	cmd.Flags().IntVar(&height, "height", 960, "Window height")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Play only the frames listed in a manifest written by scan")
	cmd.Flags().BoolVar(&overrides.ShowStats, "stats", false, "Print a performance report on exit")
	return cmd
}

func printStats(cmd *cobra.Command, eng *engine.Engine) {
	out := cmd.OutOrStdout()
	st := eng.Stats()

	fmt.Fprintln(out, "\n=== Performance Report ===")
	fmt.Fprintf(out, "State:             %s\n", eng.State())
	if set := eng.Layers(); set != nil {
		fmt.Fprintf(out, "Layers:            %d (%d frames, %dx%d)\n", len(set.Layers), set.FrameCount(), set.Size.X, set.Size.Y)
	}
	fmt.Fprintf(out, "Frames composited: %d\n", st.Frames)
	fmt.Fprintf(out, "Surface failures:  %d\n", st.SurfaceFailures)
	fmt.Fprintf(out, "Render time:       last %v, average %v\n", st.LastRender, st.AverageRender())
	fmt.Fprintf(out, "Last delay:        %v\n", st.LastDelay)
	if snap, err := system.TakeSnapshot(); err == nil {
		fmt.Fprintf(out, "Memory:            %s\n", snap)
	}
}

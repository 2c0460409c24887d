package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/framewall/internal/config"
	"github.com/ivlev/framewall/internal/framegen"
	"github.com/ivlev/framewall/internal/logging"
)

func newGenCmd() *cobra.Command {
	opts := framegen.Options{}

	cmd := &cobra.Command{
		Use:   "gen <dir>",
		Short: "Write a synthetic frame set for trying the wallpaper out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = args[0]
			opts.Naming = config.NamingSingle
			if cmd.Flags().Changed("naming") {
				opts.Naming = overrides.Naming
			}
			log := logging.NewLogger("framewall", logging.GetLogLevel(overrides.LogLevel), nil)

			paths, err := framegen.Generate(opts, log.Named("gen"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Wrote %d frames to %s\n", len(paths), opts.Dir)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Layers, "layers", 2, "Number of layers (multi naming)")
	f.IntVar(&opts.Frames, "frames", 24, "Frames per layer")
	f.IntVar(&opts.Width, "width", 540, "Frame width")
	f.IntVar(&opts.Height, "height", 960, "Frame height")
	return cmd
}

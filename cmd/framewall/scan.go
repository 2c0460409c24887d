package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ivlev/framewall/internal/layer"
	"github.com/ivlev/framewall/internal/logging"
	"github.com/ivlev/framewall/internal/source"
)

func newScanCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the frame store and report layers and rejected files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger("framewall", logging.GetLogLevel(cfg.LogLevel), nil)

			src, err := source.Open(cfg)
			if err != nil {
				return err
			}
			defer src.Close()
			naming, err := source.NewNaming(cfg.Naming)
			if err != nil {
				return err
			}

			set, res, err := layer.Scan(cmd.Context(), src, naming, cfg.Workers, log.Named("scan"))
			if err != nil && !(errors.Is(err, layer.ErrNoLayers) && res != nil) {
				return err
			}

			var rejected []source.Rejection
			if res != nil {
				rejected = res.Rejected
			}
			printScan(cmd, cfg.StorePath, set, rejected)

			if manifestPath != "" {
				if err := layer.WriteManifest(layer.NewManifest(cfg.StorePath, set, rejected), manifestPath); err != nil {
					return fmt.Errorf("write manifest: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[+] Manifest saved to: %s\n", manifestPath)
			}
			if set == nil {
				return layer.ErrNoLayers
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Write the scan result as YAML")
	return cmd
}

func printScan(cmd *cobra.Command, store string, set *layer.Set, rejected []source.Rejection) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Store: %s\n", store)
	if set != nil {
		fmt.Fprintf(out, "Frame size: %dx%d\n", set.Size.X, set.Size.Y)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LAYER\tFRAMES\tFIRST\tLAST")
		for _, l := range set.Layers {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Key, len(l.Frames), l.Frames[0].Name, l.Frames[len(l.Frames)-1].Name)
		}
		tw.Flush()
	} else {
		fmt.Fprintln(out, "No layers loaded")
	}

	if len(rejected) == 0 {
		return
	}
	fmt.Fprintf(out, "\nRejected %d file(s):\n", len(rejected))
	for _, r := range rejected {
		if r.Detail != "" {
			fmt.Fprintf(out, "  %s: %s (%s)\n", r.Name, r.Reason, r.Detail)
		} else {
			fmt.Fprintf(out, "  %s: %s\n", r.Name, r.Reason)
		}
	}
}

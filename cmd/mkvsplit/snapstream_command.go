package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvsplit/internal/config"
	"mkvsplit/internal/snapstream"
)

func newSnapstreamCommand(ctx *commandContext) *cobra.Command {
	var src, dst string
	var dryRun bool
	var exts []string

	cmd := &cobra.Command{
		Use:   "snapstream --src DIR [--dst DIR]",
		Short: "Extract show metadata from SnapStream Beyond TV recordings",
		Long: "Read the metadata block Beyond TV stored near the end of its recordings.\n\n" +
			"Without --dst the metadata is printed as JSON. With --dst, src/dir/video.avi\n" +
			"writes dst/dir/<clean name>.json next to an existing dst/dir/<clean name>.mkv,\n" +
			"carrying the recording's timestamps. Existing JSON files are left alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, closeLog, err := ctx.logger(cmd, cfg, !dryRun)
			if err != nil {
				return err
			}
			defer closeLog.Close()
			srcDir, err := config.ExpandPath(strings.TrimSpace(src))
			if err != nil {
				return fmt.Errorf("resolve --src: %w", err)
			}
			dstDir, err := config.ExpandPath(strings.TrimSpace(dst))
			if err != nil {
				return fmt.Errorf("resolve --dst: %w", err)
			}

			_, err = snapstream.Run(cmd.Context(), snapstream.Options{
				Src:        srcDir,
				Dst:        dstDir,
				Extensions: exts,
				DryRun:     dryRun,
				Out:        cmd.OutOrStdout(),
				Logger:     logger,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&src, "src", "s", "", "Directory containing the recordings")
	cmd.Flags().StringVarP(&dst, "dst", "d", "", "Directory tree holding the converted .mkv files")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report the JSON files that would be written")
	cmd.Flags().StringSliceVar(&exts, "ext", snapstream.DefaultExtensions, "Recording extensions to scan")
	_ = cmd.MarkFlagRequired("src")
	return cmd
}

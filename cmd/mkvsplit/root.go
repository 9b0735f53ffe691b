package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var flags extractFlags

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "mkvsplit [flags] FILE|DIR...",
		Short: "Extract tracks and chapters from Matroska and MPEG-4 files",
		Long: "Extract all video, audio or subtitle tracks and chapters from mkv/mp4 files\n" +
			"into separate files named <name>.<id>[.<title>].<lang>.<ext>.\n\n" +
			"Requires mkvtoolnix (mkvmerge, mkvextract); MPEG-4 inputs also need MP4Box.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&flags.dst, "dst", "d", "", "Save the tracks in another directory (default same as video)")
	rootCmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Print the extraction commands, do not write any files")
	rootCmd.Flags().BoolVar(&flags.video, "video", false, "Extract video tracks")
	rootCmd.Flags().BoolVar(&flags.audio, "audio", false, "Extract audio tracks")
	rootCmd.Flags().BoolVar(&flags.subtitles, "subtitles", false, "Extract subtitle tracks")
	rootCmd.Flags().BoolVar(&flags.chapters, "chapters", false, "Extract chapters")
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "Extract again even if history says the file is done")

	rootCmd.AddCommand(newTracksCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newSnapstreamCommand(ctx))

	return rootCmd
}

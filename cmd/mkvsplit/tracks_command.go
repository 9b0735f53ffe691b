package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mkvsplit/internal/config"
	"mkvsplit/internal/extract"
	"mkvsplit/internal/language"
	"mkvsplit/internal/mkvtoolnix"
	"mkvsplit/internal/scan"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var dst string

	cmd := &cobra.Command{
		Use:   "tracks FILE|DIR...",
		Short: "List tracks and the file names extraction would use",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outDir, err := config.ExpandPath(strings.TrimSpace(dst))
			if err != nil {
				return fmt.Errorf("resolve --dst: %w", err)
			}
			logger, closeLog, err := ctx.logger(cmd, cfg, true)
			if err != nil {
				return err
			}
			defer closeLog.Close()
			mkv, mp4, err := toolchain(cfg, logger)
			if err != nil {
				return err
			}
			planner, err := extract.NewPlanner(nil, mkv, mp4, extract.PlannerOptions{
				Selection:       extract.Selection{Video: true, Audio: true, Subtitles: true, Chapters: true},
				Dst:             outDir,
				DefaultLanguage: cfg.Extract.DefaultLanguage,
				Logger:          logger,
			})
			if err != nil {
				return err
			}

			inputs, err := scan.Inputs(args, cfg.Extract.Extensions)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failed int
			for i, in := range inputs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				plan, err := planner.Plan(cmd.Context(), in)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", in.Path, err)
					continue
				}
				fmt.Fprintln(out, planHeadline(plan))
				fmt.Fprintf(out, "Output directory: %s\n", plan.Dir())
				if len(plan.Tracks) == 0 {
					fmt.Fprintln(out, "No tracks found.")
					continue
				}
				fmt.Fprintln(out, renderTable(trackColumns, trackRows(plan)))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) could not be identified", failed, len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dst, "dst", "d", "", "Show names as if extracting into this directory")
	return cmd
}

var trackColumns = []column{
	{header: "ID", align: alignRight},
	{header: "Type"},
	{header: "Codec"},
	{header: "Language"},
	{header: "Name", maxWidth: 30},
	{header: "Default"},
	{header: "Forced"},
	{header: "Output", maxWidth: 60},
}

func trackRows(plan extract.Plan) [][]string {
	rows := make([][]string, 0, len(plan.Tracks)+1)
	for _, pt := range plan.Tracks {
		props := pt.Track.Properties
		rows = append(rows, []string{
			strconv.Itoa(pt.Track.ID),
			pt.Track.Type,
			pt.Track.Codec,
			fmt.Sprintf("%s (%s)", pt.Language, language.DisplayName(strings.TrimSuffix(pt.Language, language.ForcedSuffix))),
			props.TrackName,
			yesNo(props.DefaultTrack),
			yesNo(props.ForcedTrack),
			filepath.Base(pt.Path),
		})
	}
	if plan.ChaptersPath != "" {
		rows = append(rows, []string{"", "chapters", "", "", "", "", "", filepath.Base(plan.ChaptersPath)})
	}
	return rows
}

func planHeadline(plan extract.Plan) string {
	parts := []string{plan.Info.ContainerName()}
	if info, err := os.Stat(plan.Input.Path); err == nil {
		parts = append(parts, humanize.Bytes(uint64(info.Size())))
	}
	if d := plan.Info.Container.Properties.Duration; d > 0 {
		parts = append(parts, time.Duration(d).Round(time.Second).String())
	}
	if n := plan.Info.ChapterCount(); n > 0 {
		parts = append(parts, humanize.Comma(int64(n))+" chapters")
	}
	if plan.Kind == mkvtoolnix.KindMP4 {
		parts = append(parts, "extracted with MP4Box")
	}
	headline := fmt.Sprintf("%s (%s)", plan.Input.Path, strings.Join(parts, ", "))
	if title := strings.TrimSpace(plan.Info.Container.Properties.Title); title != "" {
		headline += "\nTitle: " + title
	}
	return headline
}

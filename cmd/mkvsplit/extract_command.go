package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvsplit/internal/config"
	"mkvsplit/internal/extract"
	"mkvsplit/internal/history"
	"mkvsplit/internal/logging"
	"mkvsplit/internal/preflight"
	"mkvsplit/internal/scan"
)

type extractFlags struct {
	dst       string
	dryRun    bool
	video     bool
	audio     bool
	subtitles bool
	chapters  bool
	force     bool
}

// selection resolves the category flags, falling back to
// extract.default_categories when none is given.
func (f extractFlags) selection(cfg *config.Config) (extract.Selection, error) {
	sel := extract.Selection{
		Video:     f.video,
		Audio:     f.audio,
		Subtitles: f.subtitles,
		Chapters:  f.chapters,
	}
	if sel.Empty() && cfg != nil {
		var err error
		sel, err = extract.ParseSelection(cfg.Extract.DefaultCategories)
		if err != nil {
			return extract.Selection{}, fmt.Errorf("extract.default_categories: %w", err)
		}
	}
	return sel, sel.Validate()
}

func runExtract(cmd *cobra.Command, ctx *commandContext, flags extractFlags, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	sel, err := flags.selection(cfg)
	if err != nil {
		return err
	}

	dst := strings.TrimSpace(flags.dst)
	if dst != "" {
		if dst, err = config.ExpandPath(dst); err != nil {
			return fmt.Errorf("resolve --dst: %w", err)
		}
	}

	checkDst := dst
	if flags.dryRun {
		checkDst = ""
	}
	if err := preflight.Summarize(preflight.RunAll(cmd.Context(), cfg, checkDst)); err != nil {
		return err
	}
	if !flags.dryRun {
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}
	}

	logger, closeLog, err := ctx.logger(cmd, cfg, !flags.dryRun)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	inputs, err := scan.Inputs(args, cfg.Extract.Extensions)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		logging.WarnWithContext(logger, "no input files found", "no_inputs",
			logging.Strings("paths", args),
			logging.Strings("extensions", cfg.Extract.Extensions),
			logging.String(logging.FieldErrorHint, "check extract.extensions in the config"),
		)
		return nil
	}

	mkv, mp4, err := toolchain(cfg, logger)
	if err != nil {
		return err
	}

	var store *history.Store
	if !flags.dryRun {
		store, err = history.OpenFromConfig(cfg)
		switch {
		case errors.Is(err, history.ErrDisabled):
			store = nil
		case err != nil:
			return fmt.Errorf("open history: %w", err)
		default:
			defer store.Close()
		}
	}

	planner, err := extract.NewPlanner(nil, mkv, mp4, extract.PlannerOptions{
		Selection:       sel,
		Dst:             dst,
		DefaultLanguage: cfg.Extract.DefaultLanguage,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	extractor, err := extract.NewExtractor(planner, mkv, mp4, store, extract.Options{
		DryRun:  flags.dryRun,
		Force:   flags.force,
		Color:   shouldColorize(out),
		LockDir: cfg.LockDir(),
		Out:     out,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	_, err = extractor.Run(cmd.Context(), inputs)
	return err
}

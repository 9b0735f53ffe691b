package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mkvsplit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent extractions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				var (
					entries []history.Entry
					err     error
				)
				if id := strings.TrimSpace(runID); id != "" {
					entries, err = store.ByRun(cmd.Context(), id)
				} else {
					entries, err = store.Recent(cmd.Context(), limit)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No extractions recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(historyColumns, historyRows(entries, time.Now())))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&runID, "run", "", "Show only the entries of one run")

	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove failed and skipped entries (--all removes everything)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context(), all)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s\n", removed, pluralize(removed, "entry", "entries"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Also forget successful extractions")
	return cmd
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.OpenFromConfig(cfg)
	if errors.Is(err, history.ErrDisabled) {
		return errors.New("history is disabled (history.enabled = false)")
	}
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

var historyColumns = []column{
	{header: "Finished"},
	{header: "Status"},
	{header: "Source", maxWidth: 60},
	{header: "Size", align: alignRight},
	{header: "Categories"},
	{header: "Outputs", align: alignRight},
	{header: "Took", align: alignRight},
	{header: "Run"},
}

func historyRows(entries []history.Entry, now time.Time) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := string(e.Status)
		switch {
		case e.Status == history.StatusFailed && e.ExitCode > 0:
			status = fmt.Sprintf("%s (exit %d)", status, e.ExitCode)
		case e.Warnings:
			status += " (warnings)"
		}
		rows = append(rows, []string{
			humanize.RelTime(e.FinishedAt, now, "ago", "from now"),
			status,
			e.Source.Path,
			humanize.Bytes(uint64(max(e.Source.Size, 0))),
			strings.Join(e.Categories, "/"),
			strconv.Itoa(len(e.Outputs)),
			e.Duration().Round(time.Millisecond).String(),
			shortRunID(e.RunID),
		})
	}
	return rows
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pluralize(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

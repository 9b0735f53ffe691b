package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvsplit/internal/config"
	"mkvsplit/internal/deps"
	"mkvsplit/internal/fileutil"
	"mkvsplit/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show toolchain and directory status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := newStatusReport(shouldColorize(out))

			report.section("Toolchain")
			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			addDependencies(cmd.Context(), report, statuses)

			report.section("Paths")
			addPaths(report, ctx, cfg)

			fmt.Fprintln(out, report)
			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			if report.worst == statusError {
				return errors.New("status: one or more checks failed")
			}
			return nil
		},
	}
}

func addDependencies(ctx context.Context, report *statusReport, statuses []deps.Status) {
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			bin := dep.Path
			if bin == "" {
				bin = dep.Command
			}
			message := fmt.Sprintf("Ready (%s)", bin)
			if version, err := preflight.ProbeVersion(ctx, bin); err == nil && version != "" {
				message = fmt.Sprintf("%s (%s)", version, bin)
			}
			report.add(dep.Name, statusOK, message)
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		if dep.Optional {
			report.add(dep.Name, statusWarn, detail+" (only needed for MPEG-4 inputs)")
			continue
		}
		missing = append(missing, dep.Name)
		report.add(dep.Name, statusError, detail)
	}
	if len(missing) > 0 {
		report.add("Missing", statusError, strings.Join(missing, ", ")+" (install mkvtoolnix)")
	}
}

func addPaths(report *statusReport, ctx *commandContext, cfg *config.Config) {
	if ctx.configExists {
		report.add("Config", statusOK, ctx.configPath)
	} else {
		report.add("Config", statusInfo, ctx.configPath+" (not found, using defaults)")
	}
	addDirectory(report, "State directory", cfg.Paths.StateDir)

	if strings.TrimSpace(cfg.Paths.LogDir) == "" {
		report.add("Log directory", statusInfo, "Not configured (stderr only)")
	} else {
		addDirectory(report, "Log directory", cfg.Paths.LogDir)
	}

	switch {
	case !cfg.History.Enabled:
		report.add("History", statusInfo, "Disabled")
	case fileutil.Exists(cfg.History.Path):
		report.add("History", statusOK, cfg.History.Path)
	default:
		report.add("History", statusInfo, cfg.History.Path+" (created on first extraction)")
	}
}

func addDirectory(report *statusReport, label, path string) {
	result := preflight.CheckCreatableDirectory(label, path)
	switch {
	case result.Passed && fileutil.Exists(path):
		report.add(label, statusOK, result.Detail)
		return
	case result.Passed:
		report.add(label, statusInfo, result.Detail)
		return
	}
	report.add(label, statusError, result.Detail)
}

package snapstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"mkvsplit/internal/fileutil"
	"mkvsplit/internal/logging"
	"mkvsplit/internal/scan"
)

// DefaultExtensions are the recording types Beyond TV produced.
var DefaultExtensions = []string{".avi", ".tp", ".mpg", ".mp4"}

// Options controls a sidecar run.
type Options struct {
	Src        string
	Dst        string
	Extensions []string
	DryRun     bool
	Out        io.Writer
	Logger     *slog.Logger
}

// Summary counts what a run did.
type Summary struct {
	Scanned    int
	Printed    int
	Written    int
	Existing   int
	MissingMKV int
	NoMetadata int
}

// Run extracts metadata from every recording under Src. Without Dst the
// JSON is printed. With Dst, src/dir/video.avi produces
// dst/dir/<clean name>.json carrying the recording's timestamps, but only
// when dst/dir/<clean name>.mkv exists and the JSON does not.
func Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.NewComponentLogger(opts.Logger, "snapstream")
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if strings.TrimSpace(opts.Src) == "" {
		return summary, errors.New("snapstream: source directory required")
	}

	inputs, err := scan.Inputs([]string{opts.Src}, exts)
	if err != nil {
		return summary, err
	}

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++

		meta, err := Extract(in.Path)
		if err != nil {
			summary.NoMetadata++
			fmt.Fprintf(out, "ERROR: No metadata for %s\n", in.Path)
			if !errors.Is(err, ErrNoMetadata) {
				logger.Warn("metadata unreadable",
					logging.String(logging.FieldSource, in.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "snapstream_parse_failed"),
				)
			}
			continue
		}
		payload, err := meta.JSON()
		if err != nil {
			return summary, fmt.Errorf("encode metadata for %s: %w", in.Path, err)
		}

		if strings.TrimSpace(opts.Dst) == "" {
			fmt.Fprintln(out, string(payload))
			summary.Printed++
			continue
		}

		clean := CleanupName(filepath.Base(in.Path))
		clean = strings.TrimSuffix(clean, filepath.Ext(clean))
		target := filepath.Join(opts.Dst, in.RelDir(), clean)
		mkvPath := target + ".mkv"
		jsonPath := target + ".json"

		switch {
		case !fileutil.Exists(mkvPath):
			summary.MissingMKV++
			fmt.Fprintf(out, "MISSING FILE %s for %s\n", mkvPath, filepath.Base(in.Path))
		case fileutil.Exists(jsonPath):
			summary.Existing++
			logger.Debug("sidecar exists", logging.String("path", jsonPath))
		default:
			fmt.Fprintln(out, jsonPath)
			summary.Written++
			if opts.DryRun {
				continue
			}
			if err := fileutil.WriteFileAtomic(jsonPath, payload, 0o644); err != nil {
				return summary, fmt.Errorf("write %s: %w", jsonPath, err)
			}
			if err := fileutil.CopyTimes(in.Path, jsonPath); err != nil {
				return summary, err
			}
		}
	}

	logger.Info("snapstream scan complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("written", summary.Written),
		logging.Int("missing_mkv", summary.MissingMKV),
		logging.Int("no_metadata", summary.NoMetadata),
	)
	return summary, nil
}

package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-multierror"

	"mkvsplit/internal/history"
	"mkvsplit/internal/logging"
	"mkvsplit/internal/mkvtoolnix"
	"mkvsplit/internal/mp4box"
	"mkvsplit/internal/scan"
)

// ErrLocked is returned when another process is extracting the same source.
var ErrLocked = errors.New("source is locked by another extraction")

const (
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

// FileError attributes a failure to one input.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Report summarizes a batch.
type Report struct {
	RunID     string
	Processed int
	Extracted int
	Warnings  int
	Skipped   int
	Empty     int
	Failed    int
	Planned   int
}

// Options configures an Extractor.
type Options struct {
	DryRun  bool
	Force   bool
	Color   bool
	LockDir string
	RunID   string
	Out     io.Writer
	Logger  *slog.Logger
}

// Extractor runs plans for a batch of inputs.
type Extractor struct {
	planner *Planner
	mkv     *mkvtoolnix.Client
	mp4     *mp4box.Client
	history *history.Store
	opts    Options
	out     io.Writer
	logger  *slog.Logger
}

// NewExtractor wires an extractor. store may be nil to disable the ledger.
func NewExtractor(planner *Planner, mkv *mkvtoolnix.Client, mp4 *mp4box.Client, store *history.Store, opts Options) (*Extractor, error) {
	if planner == nil || mkv == nil {
		return nil, errors.New("extractor: planner and mkvtoolnix client required")
	}
	if opts.RunID == "" {
		opts.RunID = history.NewRunID()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.NewComponentLogger(opts.Logger, "extract").With(logging.String(logging.FieldRunID, opts.RunID))
	return &Extractor{
		planner: planner,
		mkv:     mkv,
		mp4:     mp4,
		history: store,
		opts:    opts,
		out:     out,
		logger:  logger,
	}, nil
}

// Run processes inputs in order. Per-file failures are collected and
// returned together; the batch always runs to the end unless ctx is done.
func (e *Extractor) Run(ctx context.Context, inputs []scan.Input) (Report, error) {
	report := Report{RunID: e.opts.RunID}
	var result *multierror.Error

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		report.Processed++
		if err := e.process(ctx, in, &report); err != nil {
			report.Failed++
			result = multierror.Append(result, &FileError{Path: in.Path, Err: err})
		}
	}

	e.logger.Info("extraction finished",
		logging.Int("processed", report.Processed),
		logging.Int("extracted", report.Extracted),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed),
		logging.Bool("dry_run", e.opts.DryRun),
	)
	return report, result.ErrorOrNil()
}

func (e *Extractor) process(ctx context.Context, in scan.Input, report *Report) error {
	e.printf(ansiBold, "Parsing %s\n", in.Path)
	logger := e.logger.With(logging.String(logging.FieldSource, in.Path))
	started := time.Now().UTC()

	plan, err := e.planner.Plan(ctx, in)
	if err != nil {
		if errors.Is(err, mkvtoolnix.ErrUnsupportedContainer) {
			e.printf(ansiRed, "%s not supported (%s)\n", in.Path, plan.Info.ContainerName())
		}
		e.record(ctx, in, plan, history.StatusFailed, started, false, err)
		return err
	}

	if plan.Empty() {
		report.Empty++
		fmt.Fprintf(e.out, "%s: no %s tracks found.\n", in.Path, e.planner.Selection())
		return nil
	}

	if e.opts.DryRun {
		report.Planned++
		for _, cmd := range plan.Commands {
			fmt.Fprintln(e.out, FormatCommand(cmd))
		}
		return nil
	}

	if e.history != nil && !e.opts.Force {
		if skip, runID := e.alreadyExtracted(ctx, in, plan); skip {
			report.Skipped++
			fmt.Fprintf(e.out, "%s: already extracted (run %s), use --force to extract again\n", in.Path, runID)
			e.record(ctx, in, plan, history.StatusSkipped, started, false, nil)
			return nil
		}
	}

	if err := os.MkdirAll(plan.Dir(), 0o755); err != nil {
		err = fmt.Errorf("create output directory: %w", err)
		e.record(ctx, in, plan, history.StatusFailed, started, false, err)
		return err
	}

	unlock, err := e.lock(in.Path)
	if err != nil {
		e.record(ctx, in, plan, history.StatusFailed, started, false, err)
		return err
	}
	defer unlock()

	warnings, err := e.execute(ctx, plan)
	if err != nil {
		logging.ErrorWithContext(logger, "extraction failed", "extract_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rerun with --dry-run to inspect the command"),
		)
		e.record(ctx, in, plan, history.StatusFailed, started, warnings, err)
		return err
	}

	report.Extracted++
	if warnings {
		report.Warnings++
	}
	logger.Info("tracks extracted",
		logging.Int("outputs", len(plan.Outputs())),
		logging.String("container", plan.Kind),
		logging.Bool("warnings", warnings),
	)
	e.record(ctx, in, plan, history.StatusExtracted, started, warnings, nil)
	return nil
}

func (e *Extractor) execute(ctx context.Context, plan Plan) (bool, error) {
	switch plan.Kind {
	case mkvtoolnix.KindMatroska:
		result, err := e.mkv.Extract(ctx, plan.Input.Path, plan.request, e.out)
		return result.Warnings, err
	case mkvtoolnix.KindMP4:
		if e.mp4 == nil {
			return false, errors.New("MPEG-4 extraction needs MP4Box")
		}
		return false, e.mp4.Extract(ctx, plan.Input.Path, plan.jobs, e.out)
	default:
		return false, fmt.Errorf("%w (%s)", mkvtoolnix.ErrUnsupportedContainer, plan.Info.ContainerName())
	}
}

func (e *Extractor) alreadyExtracted(ctx context.Context, in scan.Input, plan Plan) (bool, string) {
	source, err := history.StatSource(absPath(in.Path))
	if err != nil {
		return false, ""
	}
	entry, ok, err := e.history.Lookup(ctx, source, e.planner.Selection().Names(), absPaths(plan.Outputs()))
	if err != nil {
		logging.WarnWithContext(e.logger, "history lookup failed", "history_lookup_failed",
			logging.String(logging.FieldSource, in.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file will be extracted again"),
		)
		return false, ""
	}
	if !ok || entry == nil {
		return false, ""
	}
	return true, entry.RunID
}

func (e *Extractor) record(ctx context.Context, in scan.Input, plan Plan, status history.Status, started time.Time, warnings bool, runErr error) {
	if e.history == nil || e.opts.DryRun {
		return
	}
	source, err := history.StatSource(absPath(in.Path))
	if err != nil {
		source = history.Source{Path: absPath(in.Path)}
	}
	entry := history.Entry{
		RunID:      e.opts.RunID,
		Source:     source,
		Categories: e.planner.Selection().Names(),
		Container:  plan.Info.Container.Type,
		Status:     status,
		Warnings:   warnings,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if status == history.StatusExtracted {
		entry.Outputs = absPaths(plan.Outputs())
	}
	if runErr != nil {
		entry.ErrorMessage = runErr.Error()
		if code, ok := mkvtoolnix.ExitCodeOf(runErr); ok {
			entry.ExitCode = code
		}
	}
	if _, err := e.history.Record(ctx, entry); err != nil {
		logging.WarnWithContext(e.logger, "history record failed", "history_record_failed",
			logging.String(logging.FieldSource, in.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file will not be skipped on the next run"),
		)
	}
}

// lock takes a per-source advisory lock so two runs never write the same
// outputs concurrently.
func (e *Extractor) lock(path string) (func(), error) {
	if e.opts.LockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(e.opts.LockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	sum := sha256.Sum256([]byte(absPath(path)))
	lockPath := filepath.Join(e.opts.LockDir, hex.EncodeToString(sum[:8])+".lock")
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return func() { _ = fl.Unlock() }, nil
}

func (e *Extractor) printf(color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if e.opts.Color {
		msg = color + msg[:len(msg)-1] + ansiReset + "\n"
	}
	io.WriteString(e.out, msg) //nolint:errcheck
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absPath(p)
	}
	return out
}

// ExitCode maps a Run error to a process exit status: the highest exit
// status reported by an external tool, or 1 when no tool status is known.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var errs []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	} else {
		errs = []error{err}
	}
	code := 0
	for _, e := range errs {
		if c, ok := mkvtoolnix.ExitCodeOf(e); ok && c > code {
			code = c
		}
	}
	if code == 0 {
		return 1
	}
	return code
}

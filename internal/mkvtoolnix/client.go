package mkvtoolnix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mkvsplit/internal/logging"
)

// outputTailLines bounds how much tool output an ExitError carries.
const outputTailLines = 20

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeout bounds each tool invocation. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithExtraArgs inserts arguments after the source file in every
// mkvextract invocation.
func WithExtraArgs(args []string) Option {
	return func(c *Client) {
		c.extraArgs = append([]string(nil), args...)
	}
}

// WithLogger attaches a logger for warnings and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "mkvtoolnix")
	}
}

// Client wraps mkvmerge identification and mkvextract extraction.
type Client struct {
	mkvmerge   string
	mkvextract string
	timeout    time.Duration
	extraArgs  []string
	exec       Executor
	logger     *slog.Logger
}

// New constructs a client for the given binaries.
func New(mkvmerge, mkvextract string, opts ...Option) (*Client, error) {
	mkvmerge = strings.TrimSpace(mkvmerge)
	mkvextract = strings.TrimSpace(mkvextract)
	if mkvmerge == "" {
		return nil, errors.New("mkvmerge binary required")
	}
	if mkvextract == "" {
		return nil, errors.New("mkvextract binary required")
	}
	client := &Client{
		mkvmerge:   mkvmerge,
		mkvextract: mkvextract,
		exec:       CommandExecutor{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// Identify runs `mkvmerge -J` on path. Errors reported in the JSON, an
// unrecognized container, or a failing exit status are returned as errors
// carrying mkvmerge's message.
func (c *Client) Identify(ctx context.Context, path string) (Info, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, runErr := c.exec.Output(ctx, c.mkvmerge, []string{"-J", path})
	if runErr != nil && len(strings.TrimSpace(string(out))) == 0 {
		return Info{}, c.identifyExitError(runErr, "")
	}

	info, err := ParseInfo(out)
	if err != nil {
		if runErr != nil {
			return Info{}, c.identifyExitError(runErr, "")
		}
		return Info{}, fmt.Errorf("parse mkvmerge output for %s: %w", path, err)
	}

	for _, warning := range info.Warnings {
		c.logger.Debug("mkvmerge warning", logging.String(logging.FieldSource, path), logging.String("warning", warning))
	}
	if len(info.Errors) > 0 {
		msg := strings.Join(info.Errors, "; ")
		if runErr != nil {
			return info, c.identifyExitError(runErr, msg)
		}
		return info, fmt.Errorf("identify %s: %s", path, msg)
	}
	if runErr != nil {
		if code, ok := ExitCodeOf(runErr); !ok || code >= ExitStatusError {
			return info, c.identifyExitError(runErr, "")
		}
	}
	if !info.Container.Recognized {
		return info, fmt.Errorf("identify %s: %w (%s)", path, ErrUnsupportedContainer, info.ContainerName())
	}
	return info, nil
}

func (c *Client) identifyExitError(err error, output string) error {
	code, ok := ExitCodeOf(err)
	if !ok {
		return fmt.Errorf("run mkvmerge: %w", err)
	}
	return &ExitError{Tool: "mkvmerge", Code: code, Output: output, Err: err}
}

// TrackOutput pairs a track ID with the file it is extracted to.
type TrackOutput struct {
	ID   int
	Path string
}

// ExtractRequest lists what one mkvextract invocation writes.
type ExtractRequest struct {
	ChaptersPath string
	Tracks       []TrackOutput
}

// Empty reports whether the request would extract nothing.
func (r ExtractRequest) Empty() bool {
	return r.ChaptersPath == "" && len(r.Tracks) == 0
}

// Outputs returns every file the request writes, chapters first.
func (r ExtractRequest) Outputs() []string {
	outputs := make([]string, 0, len(r.Tracks)+1)
	if r.ChaptersPath != "" {
		outputs = append(outputs, r.ChaptersPath)
	}
	for _, track := range r.Tracks {
		outputs = append(outputs, track.Path)
	}
	return outputs
}

// ExtractArgs builds the mkvextract argument vector, excluding the binary.
// Chapters come before tracks.
func (c *Client) ExtractArgs(source string, req ExtractRequest) []string {
	args := []string{source}
	args = append(args, c.extraArgs...)
	if req.ChaptersPath != "" {
		args = append(args, "chapters", req.ChaptersPath)
	}
	if len(req.Tracks) > 0 {
		args = append(args, "tracks")
		for _, track := range req.Tracks {
			args = append(args, strconv.Itoa(track.ID)+":"+track.Path)
		}
	}
	return args
}

// Command returns the full mkvextract command line for display.
func (c *Client) Command(source string, req ExtractRequest) []string {
	return append([]string{c.mkvextract}, c.ExtractArgs(source, req)...)
}

// ExtractResult reports how an extraction finished.
type ExtractResult struct {
	// Warnings is set when mkvextract exited with its warnings status.
	Warnings bool
}

// Extract runs mkvextract, copying its merged output to out line by line.
// Exit status 1 is reported through ExtractResult.Warnings; higher statuses
// come back as *ExitError.
func (c *Client) Extract(ctx context.Context, source string, req ExtractRequest, out io.Writer) (ExtractResult, error) {
	if req.Empty() {
		return ExtractResult{}, errors.New("extract: nothing requested")
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tail := newLineTail(outputTailLines)
	err := c.exec.Run(ctx, c.mkvextract, c.ExtractArgs(source, req), func(line string) {
		tail.add(line)
		if out != nil {
			fmt.Fprintln(out, line)
		}
	})
	if err == nil {
		return ExtractResult{}, nil
	}

	code, ok := ExitCodeOf(err)
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ExtractResult{}, fmt.Errorf("run mkvextract: %w", ctxErr)
		}
		return ExtractResult{}, fmt.Errorf("run mkvextract: %w", err)
	}
	if code == ExitStatusWarnings {
		logging.WarnWithContext(c.logger, "mkvextract finished with warnings", "mkvextract_warnings",
			logging.String(logging.FieldSource, source),
			logging.String(logging.FieldImpact, "extracted files may be incomplete"),
			logging.String(logging.FieldErrorHint, "review the mkvextract output above"),
		)
		return ExtractResult{Warnings: true}, nil
	}
	return ExtractResult{}, &ExitError{Tool: "mkvextract", Code: code, Output: tail.String(), Err: err}
}

type lineTail struct {
	limit int
	lines []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "\n")
}

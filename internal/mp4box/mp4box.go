package mp4box

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"mkvsplit/internal/fileutil"
	"mkvsplit/internal/logging"
	"mkvsplit/internal/mkvtoolnix"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec mkvtoolnix.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeout bounds each MP4Box invocation. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "mp4box")
	}
}

// Client runs MP4Box track extraction.
type Client struct {
	binary  string
	timeout time.Duration
	exec    mkvtoolnix.Executor
	logger  *slog.Logger
}

// New constructs a client for the MP4Box binary.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("MP4Box binary required")
	}
	client := &Client{
		binary: binary,
		exec:   mkvtoolnix.CommandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Job is one track to extract.
type Job struct {
	// Number is the 1-based MP4 track number.
	Number int
	Path   string
	// Text selects SRT conversion instead of a raw dump.
	Text bool
}

// NewJob derives a job from an identified track and its output path.
func NewJob(track mkvtoolnix.Track, path string) Job {
	return Job{
		Number: track.MP4Number(),
		Path:   path,
		Text:   strings.EqualFold(track.Extension(), "srt"),
	}
}

// Args builds the MP4Box argument vector for a job, excluding the binary.
func (c *Client) Args(source string, job Job) []string {
	n := strconv.Itoa(job.Number)
	if job.Text {
		return []string{"-srt", n, "-std", source}
	}
	return []string{"-raw", n + ":output=" + job.Path, source}
}

// Command returns the full command line for display. Text jobs show the
// redirection mkvsplit performs.
func (c *Client) Command(source string, job Job) []string {
	cmd := append([]string{c.binary}, c.Args(source, job)...)
	if job.Text {
		cmd = append(cmd, ">", job.Path)
	}
	return cmd
}

// Extract runs MP4Box for each job in order, stopping at the first failure.
func (c *Client) Extract(ctx context.Context, source string, jobs []Job, out io.Writer) error {
	for _, job := range jobs {
		if out != nil {
			fmt.Fprintf(out, "Track %d %s\n", job.Number, job.Path)
		}
		if err := c.extractOne(ctx, source, job, out); err != nil {
			return fmt.Errorf("mp4box track %d: %w", job.Number, err)
		}
	}
	return nil
}

func (c *Client) extractOne(ctx context.Context, source string, job Job, out io.Writer) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if job.Text {
		data, err := c.exec.Output(ctx, c.binary, c.Args(source, job))
		if err != nil {
			return c.wrap(err, "")
		}
		return fileutil.WriteFileAtomic(job.Path, data, 0o644)
	}

	var tail []string
	err := c.exec.Run(ctx, c.binary, c.Args(source, job), func(line string) {
		tail = append(tail, line)
		if len(tail) > 20 {
			tail = tail[1:]
		}
		if out != nil {
			fmt.Fprintln(out, line)
		}
	})
	if err != nil {
		return c.wrap(err, strings.Join(tail, "\n"))
	}
	if _, statErr := os.Stat(job.Path); statErr != nil {
		c.logger.Debug("mp4box output missing", logging.String("path", job.Path), logging.Error(statErr))
	}
	return nil
}

func (c *Client) wrap(err error, output string) error {
	code, ok := mkvtoolnix.ExitCodeOf(err)
	if !ok {
		return fmt.Errorf("run MP4Box: %w", err)
	}
	return &mkvtoolnix.ExitError{Tool: "MP4Box", Code: code, Output: output, Err: err}
}

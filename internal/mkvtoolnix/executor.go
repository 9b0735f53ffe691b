package mkvtoolnix

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// maxLineBytes caps a single progress or diagnostic line.
const maxLineBytes = 1 << 20

// Executor runs external tools. Client and the MP4Box wrapper share it so
// tests can swap in fakes.
type Executor interface {
	// Output returns stdout. Stdout captured before a non-zero exit is
	// returned with the error.
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
	// Run delivers stdout and stderr, interleaved as written, one line at a
	// time.
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// CommandExecutor is the os/exec backed Executor.
type CommandExecutor struct{}

func (CommandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
	}
	return out, err
}

// Run points both output streams at one pipe so the line order matches what
// the tool wrote. A nil onLine echoes lines to stderr.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	if onLine == nil {
		onLine = func(line string) { fmt.Fprintln(os.Stderr, line) }
	}

	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("output pipe: %w", err)
	}
	defer r.Close()

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout, cmd.Stderr = w, w
	startErr := cmd.Start()
	w.Close()
	if startErr != nil {
		return fmt.Errorf("start command: %w", startErr)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("read output: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

package mkvtoolnix

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedContainer is returned for files mkvmerge does not recognize
// or that mkvsplit cannot extract from.
var ErrUnsupportedContainer = errors.New("unsupported container")

// Exit statuses shared by the MKVToolNix tools.
const (
	ExitStatusOK       = 0
	ExitStatusWarnings = 1
	ExitStatusError    = 2
)

// ExitError reports a tool that finished with a failing exit status.
type ExitError struct {
	Tool   string
	Code   int
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the tool's exit status.
func (e *ExitError) ExitCode() int { return e.Code }

// exitCoder is satisfied by *exec.ExitError and test doubles.
type exitCoder interface {
	ExitCode() int
}

// ExitCodeOf extracts a process exit status from err, reporting false when
// err carries none (for example a binary that failed to start).
func ExitCodeOf(err error) (int, bool) {
	var coder exitCoder
	if errors.As(err, &coder) {
		code := coder.ExitCode()
		if code >= 0 {
			return code, true
		}
	}
	return 0, false
}

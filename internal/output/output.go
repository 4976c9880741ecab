// Package output handles console output for batchren: plain messages,
// styled headings, the apply progress indicator and the run report.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal; enables styling and progress
}

// Output handles formatted output with verbose and progress support.
type Output struct {
	config          Config
	styles          Styles
	progressActive  bool
	progressTotal   int
	progressCurrent int
	progressMu      sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
		styles: NewStyles(config.IsTTY),
	}
}

// DefaultConfig returns a Config writing to stdout/stderr with TTY detection.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Writer returns the standard output destination.
func (o *Output) Writer() io.Writer {
	return o.config.Writer
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.clearProgressLine()
	fmt.Fprintln(o.config.Writer, o.styles.Paint(o.styles.Muted, message(format, args...)))
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprintln(o.config.Writer, message(format, args...))
}

// Warn prints a warning to stderr with a "Warning: " prefix.
func (o *Output) Warn(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprintln(o.config.ErrWriter, o.styles.Paint(o.styles.Warning, message("Warning: "+format, args...)))
}

// Error prints an error message to stderr with an "Error: " prefix.
func (o *Output) Error(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprintln(o.config.ErrWriter, o.styles.Paint(o.styles.Error, message("Error: "+format, args...)))
}

// Line prints s as is, without format processing.
func (o *Output) Line(s string) {
	o.clearProgressLine()
	fmt.Fprintln(o.config.Writer, strings.TrimSuffix(s, "\n"))
}

// message formats a line without its trailing newline; callers add exactly one.
func message(format string, args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}

// clearProgressLine clears the current progress line if active.
func (o *Output) clearProgressLine() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

// StartProgress begins a progress indicator session.
// Progress is suppressed when not on a TTY or in verbose mode.
func (o *Output) StartProgress(total int) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.progressActive = true
	o.progressTotal = total
	o.progressCurrent = 0
}

// UpdateProgress redraws the progress indicator in place.
func (o *Output) UpdateProgress(current int, message string) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressCurrent = current
	if message == "" {
		message = "Renaming file"
	}
	fmt.Fprintf(o.config.Writer, "\r%s %d/%d...", message, current, o.progressTotal)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressActive = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

// Package renamer applies scanned renames and records them for batchren.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"batchren/internal/renamelog"
	"batchren/internal/scanner"
	"batchren/internal/transform"
)

// renameFunc is swapped in tests to simulate OS failures.
var renameFunc = os.Rename

// RenameErrorType represents the type of rename error.
type RenameErrorType string

const (
	// DestinationExists indicates a file already exists at the destination.
	DestinationExists RenameErrorType = "DESTINATION_EXISTS"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied RenameErrorType = "PERMISSION_DENIED"
	// SourceNotFound indicates the source file disappeared after the scan.
	SourceNotFound RenameErrorType = "SOURCE_NOT_FOUND"
	// OSError covers every other failure reported by the operating system.
	OSError RenameErrorType = "OS_ERROR"
)

// RenameError represents an error that occurred while renaming one entry.
type RenameError struct {
	Type RenameErrorType
	Path string
	Err  error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Reason is the short text used in logs and console lines.
func (e *RenameError) Reason() string {
	switch e.Type {
	case DestinationExists:
		return renamelog.ReasonDestinationExists
	case PermissionDenied:
		return "Permission denied"
	}
	var linkErr *os.LinkError
	if errors.As(e.Err, &linkErr) {
		return linkErr.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Type)
}

// Outcome is the result of one attempted rename.
type Outcome struct {
	Entry  scanner.ScanEntry
	Status renamelog.Status
	Err    *RenameError // nil when renamed
}

// Record converts the outcome into a log record.
func (o Outcome) Record() renamelog.Record {
	r := renamelog.Record{
		Status:          o.Status,
		SourcePath:      o.Entry.OriginalPath,
		DestinationPath: o.Entry.NewPath,
	}
	if o.Err != nil {
		r.Reason = o.Err.Reason()
	}
	return r
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Context, if set, is checked before each entry; once it is done the
	// remaining entries are left untouched and the log is still written.
	Context context.Context

	Directory string          // Where the log is written
	Rules     transform.Rules // Recorded in the log header
	Now       func() time.Time

	// OnOutcome, if set, is called after each entry, in order.
	OnOutcome func(index, total int, outcome Outcome)
}

// ApplyResult summarizes an apply run.
type ApplyResult struct {
	RunID        string // Identifies the run in the rename log
	SuccessCount int
	ErrorCount   int
	LogPath      string // Empty when no log was written
	LogErr       error  // Set when the log could not be written
	Outcomes     []Outcome
	Interrupted  bool // Context ended before every entry was processed
}

// Apply renames entries in order.
//
// An entry whose destination already exists is skipped without touching the
// filesystem and counted as an error. A failed rename is recorded and the
// batch continues. Afterwards a single log is written to opts.Directory; a
// log failure is reported in LogErr and does not change the counts.
//
// An empty entry list does nothing and writes no log. A cancelled
// opts.Context stops the batch between entries.
func Apply(entries []scanner.ScanEntry, opts ApplyOptions) *ApplyResult {
	result := &ApplyResult{Outcomes: make([]Outcome, 0, len(entries))}
	if len(entries) == 0 {
		return result
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	log := renamelog.New(opts.Directory, opts.Rules, now())
	result.RunID = log.Header.RunID.String()

	for i, entry := range entries {
		if opts.Context != nil && opts.Context.Err() != nil {
			result.Interrupted = true
			break
		}
		outcome := renameEntry(entry)
		result.Outcomes = append(result.Outcomes, outcome)
		log.Add(outcome.Record())

		if opts.OnOutcome != nil {
			opts.OnOutcome(i+1, len(entries), outcome)
		}
	}

	result.SuccessCount = log.SuccessCount
	result.ErrorCount = log.ErrorCount

	logPath, err := log.Write()
	if err != nil {
		result.LogErr = fmt.Errorf("Could not write log file to %s: %w", log.Path(), err)
		return result
	}
	result.LogPath = logPath

	return result
}

// renameEntry performs a single rename without overwriting.
// The existence check and the rename are not atomic; a destination created
// in between surfaces as an OS error or is overwritten, depending on the
// platform's rename semantics.
func renameEntry(entry scanner.ScanEntry) Outcome {
	if FileExists(entry.NewPath) {
		return Outcome{
			Entry:  entry,
			Status: renamelog.StatusSkipped,
			Err:    &RenameError{Type: DestinationExists, Path: entry.NewPath},
		}
	}

	if err := renameFunc(entry.OriginalPath, entry.NewPath); err != nil {
		errType := OSError
		switch {
		case os.IsPermission(err):
			errType = PermissionDenied
		case os.IsNotExist(err):
			errType = SourceNotFound
		}
		return Outcome{
			Entry:  entry,
			Status: renamelog.StatusFailed,
			Err:    &RenameError{Type: errType, Path: entry.OriginalPath, Err: err},
		}
	}

	return Outcome{Entry: entry, Status: renamelog.StatusRenamed}
}

// FileExists reports whether anything, including a dangling symlink,
// occupies path.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

package orchestrator

import (
	"fmt"
	"time"

	"batchren/internal/renamer"
	"batchren/internal/scanner"
)

// Summary describes how far a run got and what it did.
type Summary struct {
	State       State
	RunID       string // Matches the rename log header; empty unless applied
	Scan        *scanner.Result
	Apply       *renamer.ApplyResult // nil unless the batch was applied
	Cancelled   bool                 // The user declined the confirmation
	Interrupted bool                 // The context ended during the batch
	Duration    time.Duration
}

// Planned returns the number of files the scan would rename.
func (s *Summary) Planned() int {
	if s == nil || s.Scan == nil {
		return 0
	}
	return len(s.Scan.Entries)
}

// Modified reports whether any file was renamed.
func (s *Summary) Modified() bool {
	return s != nil && s.Apply != nil && s.Apply.SuccessCount > 0
}

// HasErrors reports whether any rename was skipped or failed, or any
// directory could not be read.
func (s *Summary) HasErrors() bool {
	if s == nil {
		return false
	}
	if s.Apply != nil && s.Apply.ErrorCount > 0 {
		return true
	}
	return s.Scan != nil && s.Scan.Stats.ScanErrors > 0
}

// String returns a one-line description of the run.
func (s *Summary) String() string {
	switch {
	case s.Apply != nil:
		return fmt.Sprintf("renamed %d of %d files, %d errors",
			s.Apply.SuccessCount, s.Planned(), s.Apply.ErrorCount)
	case s.Cancelled:
		return fmt.Sprintf("cancelled, %d files left unchanged", s.Planned())
	default:
		return fmt.Sprintf("previewed %d files", s.Planned())
	}
}

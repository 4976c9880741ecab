// Package scanner handles directory scanning for batchren.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"batchren/internal/config"
	"batchren/internal/transform"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// NotADirectory indicates the root path is a file or other non-directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// ReadFailed covers any other failure to list a directory.
	ReadFailed ScanErrorType = "READ_FAILED"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ErrLimitReached is recorded in Result.Warnings when the file cap stops a scan.
var ErrLimitReached = errors.New("file limit reached")

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	Recursive bool // Descend into non-hidden subdirectories
	MaxFiles  int  // Stop after this many files (<= 0 means DefaultMaxFiles)
}

// DefaultMaxFiles is used when ScanOptions.MaxFiles is not set.
const DefaultMaxFiles = config.DefaultMaxFiles

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Recursive: false,
		MaxFiles:  DefaultMaxFiles,
	}
}

// ScanEntry is one file whose name would change.
// NewName always differs from OriginalName.
type ScanEntry struct {
	OriginalPath string
	NewPath      string
	OriginalName string
	NewName      string
}

// Dir returns the directory holding the entry.
func (e ScanEntry) Dir() string {
	return filepath.Dir(e.OriginalPath)
}

// ScanStats holds the counters accumulated during a scan.
type ScanStats struct {
	FilesScanned       int  // Files visited, hidden ones included
	HiddenFilesSkipped int  // Files whose name starts with the hidden marker
	HiddenDirsSkipped  int  // Hidden directories pruned
	FilesUnchanged     int  // Visible files the transform leaves as-is
	FilesToRename      int  // Visible files with a new name
	DirectoriesScanned int  // Directories listed, root included
	ScanErrors         int  // Directories that could not be listed
	LimitReached       bool // True if MaxFiles stopped the scan early
}

// Result is the outcome of a scan. Entries are in traversal order.
type Result struct {
	Entries  []ScanEntry
	Stats    ScanStats
	Warnings []error // Unreadable directories and ErrLimitReached
}

// HasEntries reports whether anything would be renamed.
func (r *Result) HasEntries() bool {
	return r != nil && len(r.Entries) > 0
}

// Scan lists the files under root and computes their new names with rules.
//
// Hidden files are counted but never transformed; hidden directories are
// pruned before descent. Directories are never returned as entries. A
// directory that cannot be listed is recorded as a warning and the rest of
// the walk continues. When MaxFiles is reached the partial result is
// returned with Stats.LimitReached set.
//
// An error is returned only when root itself is missing or not a directory.
func Scan(root string, opts ScanOptions, rules transform.Rules) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: root, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: root, Err: err}
		}
		return nil, &ScanError{Type: ReadFailed, Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{
			Type: NotADirectory,
			Path: root,
			Err:  errors.New("path is not a directory"),
		}
	}

	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}

	s := &walker{
		opts:   opts,
		rules:  rules,
		result: &Result{Entries: make([]ScanEntry, 0)},
	}
	s.scanDirectory(root)

	return s.result, nil
}

type walker struct {
	opts    ScanOptions
	rules   transform.Rules
	result  *Result
	stopped bool
}

// scanDirectory processes the files of directory, then descends into its
// visible subdirectories when recursive.
func (w *walker) scanDirectory(directory string) {
	if w.stopped {
		return
	}

	stats := &w.result.Stats
	stats.DirectoriesScanned++

	entries, err := os.ReadDir(directory)
	if err != nil {
		errType := ReadFailed
		if os.IsPermission(err) {
			errType = PermissionDenied
		}
		stats.ScanErrors++
		w.result.Warnings = append(w.result.Warnings, &ScanError{
			Type: errType,
			Path: directory,
			Err:  err,
		})
		return
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(directory, name)

		isDir, descend := classify(entry, fullPath)
		if isDir {
			if transform.IsHidden(name) {
				stats.HiddenDirsSkipped++
				continue
			}
			if descend {
				subdirs = append(subdirs, fullPath)
			}
			continue
		}

		if stats.FilesScanned >= w.opts.MaxFiles {
			w.stop()
			return
		}
		stats.FilesScanned++

		if transform.IsHidden(name) {
			stats.HiddenFilesSkipped++
			continue
		}

		newName, changed := transform.Apply(name, w.rules)
		if !changed {
			stats.FilesUnchanged++
			continue
		}

		w.result.Entries = append(w.result.Entries, ScanEntry{
			OriginalPath: fullPath,
			NewPath:      filepath.Join(directory, newName),
			OriginalName: name,
			NewName:      newName,
		})
		stats.FilesToRename++
	}

	if !w.opts.Recursive {
		return
	}
	for _, sub := range subdirs {
		w.scanDirectory(sub)
		if w.stopped {
			return
		}
	}
}

func (w *walker) stop() {
	w.stopped = true
	w.result.Stats.LimitReached = true
	w.result.Warnings = append(w.result.Warnings,
		fmt.Errorf("exceeded %d files, stopping scan: %w", w.opts.MaxFiles, ErrLimitReached))
}

// classify reports whether entry is a directory, following symlinks, and
// whether the walk may descend into it. Symlinked directories count as
// directories but are never descended into. Broken symlinks are files.
func classify(entry os.DirEntry, fullPath string) (isDir bool, descend bool) {
	if entry.IsDir() {
		return true, true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false, false
	}
	target, err := os.Stat(fullPath)
	if err != nil {
		return false, false
	}
	return target.IsDir(), false
}

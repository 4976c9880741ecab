// Package renamelog writes the plain-text record of an apply run.
//
// One log file is written per run, into the target directory, named
// rename_log_YYYYMMDD_HHMMSS.txt. The program never reads it back.
package renamelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"batchren/internal/config"
	"batchren/internal/transform"
)

// FilenamePrefix starts every log file name.
const FilenamePrefix = config.LogFilenamePrefix

// TimestampFormat is the YYYYMMDD_HHMMSS layout used in names and headers.
const TimestampFormat = "20060102_150405"

// Divider separates the header from the records.
const Divider = "======================================================================"

// Status represents the outcome recorded for one entry.
type Status string

const (
	StatusRenamed Status = "RENAMED"
	StatusSkipped Status = "SKIPPED"
	StatusFailed  Status = "FAILED"
)

// ReasonDestinationExists is the reason recorded for skipped entries.
const ReasonDestinationExists = "destination exists"

// Record is one attempted rename.
type Record struct {
	Status          Status
	SourcePath      string
	DestinationPath string
	Reason          string // Why the entry was skipped or failed
}

// Line formats the record as it appears in the log.
func (r Record) Line() string {
	switch r.Status {
	case StatusRenamed:
		return fmt.Sprintf("%s: %s -> %s", r.Status, r.SourcePath, r.DestinationPath)
	case StatusSkipped:
		return fmt.Sprintf("%s: %s -> %s (%s)", r.Status, r.SourcePath, r.DestinationPath, r.Reason)
	default:
		return fmt.Sprintf("%s: %s -> %s", r.Status, r.SourcePath, r.Reason)
	}
}

// Header describes the run a log belongs to.
type Header struct {
	RunID     uuid.UUID
	Timestamp time.Time
	Directory string
	Rules     transform.Rules
}

// Log accumulates records in memory until Write is called.
type Log struct {
	Header       Header
	Records      []Record
	SuccessCount int
	ErrorCount   int
}

// New starts a log for a run in directory at time now.
func New(directory string, rules transform.Rules, now time.Time) *Log {
	return &Log{
		Header: Header{
			RunID:     uuid.New(),
			Timestamp: now,
			Directory: directory,
			Rules:     rules,
		},
		Records: make([]Record, 0),
	}
}

// Add appends a record and updates the tally.
// Renamed records count as successes; everything else is an error.
func (l *Log) Add(r Record) {
	l.Records = append(l.Records, r)
	if r.Status == StatusRenamed {
		l.SuccessCount++
	} else {
		l.ErrorCount++
	}
}

// FileName returns the log file name for the log's timestamp.
func (l *Log) FileName() string {
	return FilenamePrefix + l.Header.Timestamp.Format(TimestampFormat) + ".txt"
}

// Path returns where Write puts the log.
func (l *Log) Path() string {
	return filepath.Join(l.Header.Directory, l.FileName())
}

// WriteTo renders the header, every record and the final tally.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	write := func(format string, args ...interface{}) error {
		c, err := fmt.Fprintf(bw, format, args...)
		n += int64(c)
		return err
	}

	header := []string{
		"Rename Operation Log - " + l.Header.Timestamp.Format(TimestampFormat),
		"Run ID: " + l.Header.RunID.String(),
		"Directory: " + l.Header.Directory,
		"Replacement: " + ReplacementDisplay(l.Header.Rules.Replacement),
	}
	if l.Header.Rules.Prefix != "" {
		header = append(header, "Prefix: '"+l.Header.Rules.Prefix+"'")
	}
	if l.Header.Rules.Suffix != "" {
		header = append(header, "Suffix: '"+l.Header.Rules.Suffix+"'")
	}

	for _, line := range header {
		if err := write("%s\n", line); err != nil {
			return n, err
		}
	}
	if err := write("%s\n\n", Divider); err != nil {
		return n, err
	}

	for _, r := range l.Records {
		if err := write("%s\n", r.Line()); err != nil {
			return n, err
		}
	}

	if err := write("\nSummary: %d successful, %d errors\n", l.SuccessCount, l.ErrorCount); err != nil {
		return n, err
	}

	return n, bw.Flush()
}

// Write creates the log file in the header directory and returns its path.
func (l *Log) Write() (string, error) {
	logPath := l.Path()

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open rename log: %w", err)
	}

	if _, err := l.WriteTo(file); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write rename log: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to sync rename log to disk: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close rename log: %w", err)
	}

	return logPath, nil
}

// ReplacementDisplay renders a replacement token for logs: quoted, or
// "(removed)" when empty.
func ReplacementDisplay(replacement string) string {
	if replacement == "" {
		return "(removed)"
	}
	return "'" + replacement + "'"
}

package output

import (
	"strings"

	"batchren/internal/config"
	"batchren/internal/renamer"
	"batchren/internal/scanner"
	"batchren/internal/transform"
)

// BannerWidth is the width of the report's rule lines.
const BannerWidth = 70

var (
	heavyRule = strings.Repeat("=", BannerWidth)
	lightRule = strings.Repeat("-", BannerWidth)
)

// CommandName is used when reconstructing the apply command.
const CommandName = "batchren"

// Reporter renders the run report on top of an Output.
type Reporter struct {
	out *Output
}

// NewReporter creates a Reporter writing through out.
func NewReporter(out *Output) *Reporter {
	return &Reporter{out: out}
}

// Output returns the underlying Output.
func (r *Reporter) Output() *Output {
	return r.out
}

// ReplacementDisplay quotes the replacement, or says "(remove)" when empty.
func ReplacementDisplay(replacement string) string {
	if replacement == "" {
		return "(remove)"
	}
	return "'" + replacement + "'"
}

func (r *Reporter) banner(rule, title string) {
	r.out.Line("\n" + rule)
	r.out.Line(r.out.styles.Paint(r.out.styles.Title, title))
	r.out.Line(rule)
}

// Header prints the run banner and the effective settings.
func (r *Reporter) Header(opts config.Options) {
	r.banner(heavyRule, "BATCH FILE RENAMER")
	r.out.Info("Target Directory: %s", opts.Directory)
	mode := "PREVIEW ONLY (dry run)"
	if opts.Apply {
		mode = "APPLY CHANGES"
	}
	r.out.Info("Mode: %s", mode)
	r.out.Info("Recursive: %s", yesNo(opts.Recursive))
	r.out.Info("Replace dots/spaces with: %s", ReplacementDisplay(opts.Rules.Replacement))
	if opts.Rules.Prefix != "" {
		r.out.Info("Prefix: '%s'", opts.Rules.Prefix)
	}
	if opts.Rules.Suffix != "" {
		r.out.Info("Suffix: '%s'", opts.Rules.Suffix)
	}
}

// ScanSummary prints the scan counters.
func (r *Reporter) ScanSummary(stats scanner.ScanStats) {
	r.banner(lightRule, "SCAN SUMMARY")
	r.out.Info("  Directories scanned:    %d", stats.DirectoriesScanned)
	r.out.Info("  Total files scanned:    %d", stats.FilesScanned)
	r.out.Info("  Hidden files skipped:   %d", stats.HiddenFilesSkipped)
	r.out.Info("  Hidden folders skipped: %d", stats.HiddenDirsSkipped)
	r.out.Info("  Files already clean:    %d", stats.FilesUnchanged)
	r.out.Info("  Files to rename:        %d", stats.FilesToRename)
	if stats.ScanErrors > 0 {
		r.out.Info("  Unreadable directories: %d", stats.ScanErrors)
	}
	r.out.Line(lightRule)
}

// Preview prints the scan summary followed by the planned renames.
// Nothing is listed when there is nothing to rename.
func (r *Reporter) Preview(result *scanner.Result, rules transform.Rules) {
	r.ScanSummary(result.Stats)

	if !result.HasEntries() {
		r.out.Info("\nNo files need renaming in this directory.")
		return
	}

	r.banner(heavyRule, "PREVIEW OF CHANGES (No files have been modified yet)")
	r.out.Info("\nSettings:")
	r.out.Info("  Replace dots/spaces with: %s", ReplacementDisplay(rules.Replacement))
	if rules.Prefix != "" {
		r.out.Info("  Add prefix: '%s'", rules.Prefix)
	}
	if rules.Suffix != "" {
		r.out.Info("  Add suffix: '%s'", rules.Suffix)
	}

	r.out.Info("\nFiles to rename:")
	for i, entry := range result.Entries {
		r.out.Info("\n[%d] Directory: %s", i+1, entry.Dir())
		r.out.Info("    BEFORE: %s", r.out.styles.Paint(r.out.styles.Before, entry.OriginalName))
		r.out.Info("    AFTER:  %s", r.out.styles.Paint(r.out.styles.After, entry.NewName))
	}

	r.out.Line("\n" + heavyRule)
	r.out.Info("Total files to rename: %d", len(result.Entries))
	r.out.Line(heavyRule)
}

// ApplyHint prints the command that would apply the previewed changes.
func (r *Reporter) ApplyHint(opts config.Options) {
	r.out.Info("\nTo apply these changes, run the command again with --apply flag:")
	r.out.Info("  %s", ApplyCommand(opts))
}

// ApplyCommand reconstructs the command line that applies opts.
// Settings at their defaults are left out.
func ApplyCommand(opts config.Options) string {
	parts := []string{CommandName, shellQuote(opts.Directory)}
	if opts.Rules.Replacement != transform.DefaultReplacement {
		parts = append(parts, "--replace="+shellQuote(opts.Rules.Replacement))
	}
	if opts.Rules.Prefix != "" {
		parts = append(parts, "--prefix="+shellQuote(opts.Rules.Prefix))
	}
	if opts.Rules.Suffix != "" {
		parts = append(parts, "--suffix="+shellQuote(opts.Rules.Suffix))
	}
	if opts.Recursive {
		parts = append(parts, "--recursive")
	}
	parts = append(parts, "--apply")
	return strings.Join(parts, " ")
}

// shellQuote wraps s in single quotes for a POSIX shell. Nothing inside
// single quotes is expanded, so only the quote itself needs escaping.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ApplyStart prints the banner shown before renaming begins.
func (r *Reporter) ApplyStart(total int) {
	r.banner(heavyRule, "APPLYING CHANGES")
	r.out.StartProgress(total)
}

// Outcome prints the console line for one attempted rename.
func (r *Reporter) Outcome(index, total int, o renamer.Outcome) {
	switch {
	case o.Err == nil:
		r.out.Info("  %s %s -> %s", r.out.styles.Paint(r.out.styles.Success, "[OK]"), o.Entry.OriginalName, o.Entry.NewName)
	case o.Err.Type == renamer.DestinationExists:
		r.out.Info("  %s SKIPPED (%s): %s", r.out.styles.Paint(r.out.styles.Warning, "[!]"), o.Err.Reason(), o.Entry.OriginalName)
	default:
		r.out.Info("  %s FAILED (%s): %s", r.out.styles.Paint(r.out.styles.Error, "[X]"), failureReason(o.Err), o.Entry.OriginalName)
	}
	r.out.Verbose("    %s", o.Entry.OriginalPath)
	r.out.UpdateProgress(index, "")
}

// failureReason lower-cases the permission message for the console line,
// which reads "FAILED (permission denied)" while the log keeps the
// capitalized form.
func failureReason(err *renamer.RenameError) string {
	if err.Type == renamer.PermissionDenied {
		return "permission denied"
	}
	return err.Reason()
}

// FinalSummary prints the totals after an apply run.
func (r *Reporter) FinalSummary(result *renamer.ApplyResult) {
	r.out.EndProgress()
	if result.LogErr != nil {
		r.out.Warn("%v", result.LogErr)
	}
	r.banner(heavyRule, "SUMMARY")
	r.out.Info("Successfully renamed: %d files", result.SuccessCount)
	r.out.Info("Errors/Skipped: %d files", result.ErrorCount)
	if result.LogPath != "" {
		r.out.Info("Log file saved to: %s", result.LogPath)
	}
	r.out.Line(heavyRule)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

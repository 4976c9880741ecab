// Package orchestrator coordinates a batchren run: validate, scan, preview,
// and, when asked to apply, confirm and rename.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"batchren/internal/config"
	"batchren/internal/confirm"
	"batchren/internal/output"
	"batchren/internal/renamer"
	"batchren/internal/scanner"
)

// CancelledMessage is printed when the user declines the confirmation.
const CancelledMessage = "Operation cancelled. No files were modified."

// Deps are the collaborators of a run.
type Deps struct {
	Reporter  *output.Reporter
	Confirmer confirm.Confirmer
	Now       func() time.Time // Defaults to time.Now
}

type run struct {
	ctx     context.Context
	opts    config.Options
	deps    Deps
	out     *output.Output
	summary *Summary
}

// Run executes one batch rename.
//
// Options are validated first; an invalid option returns an error wrapping
// config.ErrValidation before anything is scanned. Without opts.Apply the
// run ends after the preview. With opts.Apply the Confirmer is asked, and
// files are renamed only if it approves.
//
// The returned Summary is never nil and its State is the last state reached.
func Run(ctx context.Context, opts config.Options, deps Deps) (*Summary, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := &run{
		ctx:     ctx,
		opts:    opts,
		deps:    deps,
		out:     deps.Reporter.Output(),
		summary: &Summary{State: Idle},
	}

	start := deps.Now()
	err := r.execute()
	r.summary.Duration = deps.Now().Sub(start)
	return r.summary, err
}

// advance moves the run to next, rejecting transitions not in the table.
func (r *run) advance(next State) error {
	if !CanTransition(r.summary.State, next) {
		return &TransitionError{From: r.summary.State, To: next}
	}
	r.out.Verbose("state: %s -> %s", r.summary.State, next)
	r.summary.State = next
	return nil
}

func (r *run) execute() error {
	if err := config.ValidateOptions(r.opts); err != nil {
		return err
	}
	if err := r.advance(Validated); err != nil {
		return err
	}

	reporter := r.deps.Reporter
	reporter.Header(r.opts)

	if err := r.ctx.Err(); err != nil {
		return err
	}
	result, err := scanner.Scan(r.opts.Directory, scanner.ScanOptions{
		Recursive: r.opts.Recursive,
		MaxFiles:  r.opts.MaxFiles,
	}, r.opts.Rules)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	r.summary.Scan = result
	r.reportWarnings(result.Warnings)
	if err := r.advance(Scanned); err != nil {
		return err
	}

	reporter.Preview(result, r.opts.Rules)
	if err := r.advance(Previewed); err != nil {
		return err
	}

	if !result.HasEntries() {
		return r.advance(Done)
	}
	if !r.opts.Apply {
		reporter.ApplyHint(r.opts)
		return r.advance(Done)
	}

	if r.deps.Confirmer == nil {
		return errors.New("no confirmer configured")
	}
	ok, err := r.deps.Confirmer.Confirm(r.ctx, len(result.Entries))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		r.out.Info(CancelledMessage)
		r.summary.Cancelled = true
		return r.advance(Done)
	}
	if err := r.advance(Confirmed); err != nil {
		return err
	}
	if err := r.ctx.Err(); err != nil {
		if advErr := r.advance(Done); advErr != nil {
			return advErr
		}
		return err
	}

	reporter.ApplyStart(len(result.Entries))
	applied := renamer.Apply(result.Entries, renamer.ApplyOptions{
		Context:   r.ctx,
		Directory: r.opts.Directory,
		Rules:     r.opts.Rules,
		Now:       r.deps.Now,
		OnOutcome: reporter.Outcome,
	})
	r.summary.Apply = applied
	r.summary.RunID = applied.RunID
	r.summary.Interrupted = applied.Interrupted
	if err := r.advance(Applied); err != nil {
		return err
	}

	reporter.FinalSummary(applied)
	if err := r.advance(Done); err != nil {
		return err
	}
	if applied.Interrupted {
		r.out.Warn("interrupted after %d of %d files", len(applied.Outcomes), len(result.Entries))
		return r.ctx.Err()
	}
	return nil
}

func (r *run) reportWarnings(warnings []error) {
	for _, w := range warnings {
		var scanErr *scanner.ScanError
		switch {
		case errors.Is(w, scanner.ErrLimitReached):
			limit := r.opts.MaxFiles
			if limit <= 0 {
				limit = scanner.DefaultMaxFiles
			}
			r.out.Warn("Exceeded %d files. Stopping scan.", limit)
		case errors.As(w, &scanErr) && scanErr.Type == scanner.PermissionDenied:
			r.out.Warn("Permission denied to read directory: %s", scanErr.Path)
		default:
			r.out.Warn("%v", w)
		}
	}
}

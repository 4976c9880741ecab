// Package confirm asks the user to approve a batch before it is applied.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Answer is the only response that approves a batch.
const Answer = "yes"

// Confirmer decides whether count planned renames may be applied.
type Confirmer interface {
	Confirm(ctx context.Context, count int) (bool, error)
}

// Func adapts a plain function to Confirmer.
type Func func(ctx context.Context, count int) (bool, error)

// Confirm calls f.
func (f Func) Confirm(ctx context.Context, count int) (bool, error) {
	return f(ctx, count)
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// InteractiveConfirmer prompts on writer and reads one line from reader.
type InteractiveConfirmer struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewInteractiveConfirmer creates an InteractiveConfirmer.
// Use os.Stdin and os.Stdout for normal operation, or buffers for testing.
func NewInteractiveConfirmer(reader io.Reader, writer io.Writer) *InteractiveConfirmer {
	return &InteractiveConfirmer{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Confirm asks for approval. Only "yes", ignoring case and surrounding
// whitespace, approves. End of input declines. If ctx is cancelled while
// waiting, ctx.Err() is returned.
func (c *InteractiveConfirmer) Confirm(ctx context.Context, count int) (bool, error) {
	fmt.Fprintln(c.writer, "\nAre you sure you want to rename these files?")
	fmt.Fprint(c.writer, "Type 'yes' to confirm: ")

	type reply struct {
		line string
		err  error
	}
	replies := make(chan reply, 1)

	go func() {
		line, err := c.reader.ReadString('\n')
		replies <- reply{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.writer)
		return false, ctx.Err()
	case r := <-replies:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return false, fmt.Errorf("failed to read confirmation: %w", r.err)
		}
		if r.err != nil {
			// Keep the next output off the prompt line.
			fmt.Fprintln(c.writer)
		}
		return IsApproval(r.line), nil
	}
}

// IsApproval reports whether input approves the batch.
func IsApproval(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == Answer
}

var _ Confirmer = (*InteractiveConfirmer)(nil)
var _ Confirmer = Func(nil)

// Package prompt defines the operator-interaction port used at the two
// interactive suspension points: style selection and patch confirmation.
// The pipeline depends only on the Prompter interface so it can be tested
// without a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"actorscan/naming"
)

// ErrCancelled is returned when the operator cancels an interactive
// prompt. It is an expected terminal condition, not a failure: callers
// abort the run with exit status 1 and no error message.
var ErrCancelled = errors.New("cancelled by operator")

// Prompter asks the operator a question and suspends until answered or
// cancelled.
type Prompter interface {
	// SelectStyle asks for an explicit naming style when classification
	// is undetermined.
	SelectStyle(ctx context.Context) (naming.Style, error)

	// Confirm asks whether the summarized patch should be applied.
	Confirm(ctx context.Context, summary string) (bool, error)
}

// Terminal is the production Prompter reading from an input stream and
// writing to an output stream, normally stdin and stdout.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// SelectStyle presents the four styles as a numbered menu. An empty line,
// "q", or end of input cancels.
func (t *Terminal) SelectStyle(ctx context.Context) (naming.Style, error) {
	fmt.Fprintln(t.out, "Unable to infer a binding name style from existing bindings.")
	for i, s := range naming.Styles {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, s)
	}
	fmt.Fprintf(t.out, "Select a style [1-%d, q to cancel]: ", len(naming.Styles))

	line, err := t.readLine(ctx)
	if err != nil {
		return naming.StyleUndetermined, err
	}
	if line == "" || strings.EqualFold(line, "q") {
		return naming.StyleUndetermined, ErrCancelled
	}

	choice, err := strconv.Atoi(line)
	if err != nil || choice < 1 || choice > len(naming.Styles) {
		return naming.StyleUndetermined, fmt.Errorf("invalid style selection %q", line)
	}
	return naming.Styles[choice-1], nil
}

// Confirm prints the summary and asks for a y/N answer. Anything other
// than an explicit yes cancels.
func (t *Terminal) Confirm(ctx context.Context, summary string) (bool, error) {
	fmt.Fprintln(t.out, summary)
	fmt.Fprint(t.out, "Apply these changes? [y/N]: ")

	line, err := t.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, ErrCancelled
}

// readLine reads one trimmed line, honoring context cancellation and
// mapping end of input to ErrCancelled.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := t.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && r.line == "" {
			if errors.Is(r.err, io.EOF) {
				return "", ErrCancelled
			}
			return "", r.err
		}
		return strings.TrimSpace(r.line), nil
	}
}

// Package cli provides a line-oriented executor for parrot: one word per
// line in, popup region changes out. It suits terminals where the full TUI
// is unavailable and scripted runs.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/entrhq/parrot/pkg/popup"
)

// Submitter handles one submitted word.
type Submitter interface {
	Submit(ctx context.Context, word string) error
}

// Executor reads words from its input and prints popup changes.
type Executor struct {
	submitter Submitter
	panels    *popup.Panels
	reader    *bufio.Reader
	writer    io.Writer

	mu   sync.Mutex
	last popup.View
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.writer = w
	}
}

// WithReader sets a custom input reader (default is os.Stdin).
func WithReader(r io.Reader) ExecutorOption {
	return func(e *Executor) {
		e.reader = bufio.NewReader(r)
	}
}

// NewExecutor creates a new line executor.
func NewExecutor(submitter Submitter, panels *popup.Panels, opts ...ExecutorOption) *Executor {
	e := &Executor{
		submitter: submitter,
		panels:    panels,
		reader:    bufio.NewReader(os.Stdin),
		writer:    os.Stdout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run reads words until EOF, "exit" or "quit", or until ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	e.mu.Lock()
	e.last = e.panels.Snapshot()
	if !e.last.Message.Hidden {
		fmt.Fprintf(e.writer, "! %s\n", e.last.Message.Text)
	}
	e.mu.Unlock()

	e.panels.OnChange(e.render)
	defer e.panels.OnChange(nil)

	fmt.Fprintln(e.writer, "parrot")
	fmt.Fprintln(e.writer, "Type a word and press Enter. Type 'exit' or 'quit' to leave.")
	fmt.Fprintln(e.writer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e.print("> ")
		input, err := e.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		input = strings.TrimSpace(input)
		if input == "exit" || input == "quit" {
			return nil
		}

		// A final unterminated line is still submitted
		if !eof || input != "" {
			// Submission errors are already shown in the message region
			_ = e.submitter.Submit(ctx, input)
		}

		if eof {
			e.print("\n")
			return nil
		}
	}
}

// render prints the regions that changed since the last snapshot.
func (e *Executor) render(v popup.View) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.last
	e.last = v

	if v.Loading && !prev.Loading {
		fmt.Fprintln(e.writer, "[Loading...]")
	}
	if !v.Message.Hidden && v.Message != prev.Message {
		fmt.Fprintf(e.writer, "! %s\n", v.Message.Text)
	}
	if !v.Answer.Hidden && v.Answer != prev.Answer {
		fmt.Fprintf(e.writer, "Answer:\n%s\n", v.Answer.Text)
	}
}

func (e *Executor) print(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprint(e.writer, s)
}

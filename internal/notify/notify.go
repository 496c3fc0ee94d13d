// Package notify shows user-facing success and error notices and asks
// yes/no confirmations on a terminal.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/quebra-tigela/internal/logging"
)

// Console writes notices to out and reads confirmations from in.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	in        *bufio.Reader
	assumeYes bool
	logger    *slog.Logger
}

// Option configures a Console.
type Option func(*Console)

// WithInput sets the reader used for confirmations.
func WithInput(in io.Reader) Option {
	return func(c *Console) {
		if in != nil {
			c.in = bufio.NewReader(in)
		}
	}
}

// AssumeYes answers every confirmation positively without reading input.
func AssumeYes(enabled bool) Option {
	return func(c *Console) {
		c.assumeYes = enabled
	}
}

// WithLogger records every notice on logger as well.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, opts ...Option) *Console {
	c := &Console{out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Success shows a positive notice.
func (c *Console) Success(ctx context.Context, message string) {
	c.print("✓ " + message)
	logging.Component(ctx, c.logger, "notify", "success").Debug(message)
}

// Error shows a failure notice.
func (c *Console) Error(ctx context.Context, message string) {
	c.print("✗ " + message)
	logging.Component(ctx, c.logger, "notify", "error").Debug(message)
}

// Confirm asks prompt and reports whether the answer was affirmative.
// Without an input source the answer is negative.
func (c *Console) Confirm(ctx context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}
	if c.in == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s [s/N] ", prompt)

	answer := make(chan string, 1)
	go func() {
		line, _ := c.in.ReadString('\n')
		answer <- line
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return false
	case line := <-answer:
		return Affirmative(line)
	}
}

func (c *Console) print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// Affirmative reports whether answer means yes, in Portuguese or English.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

// Recorder keeps notices in memory. It is used by tests and by callers that
// render notices later.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	answer    bool
	prompts   []string
}

// NewRecorder returns a Recorder whose confirmations answer answer.
func NewRecorder(answer bool) *Recorder {
	return &Recorder{answer: answer}
}

// Success records a positive notice.
func (r *Recorder) Success(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
}

// Error records a failure notice.
func (r *Recorder) Error(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

// Confirm records prompt and returns the configured answer.
func (r *Recorder) Confirm(_ context.Context, prompt string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
	return r.answer
}

// Successes returns the recorded positive notices.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Errors returns the recorded failure notices.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Prompts returns the confirmation prompts asked so far.
func (r *Recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

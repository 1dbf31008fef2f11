// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool runs external command-line utilities (openssl, pdftotext)
// behind an Executor so that callers can be tested without the binaries.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrUnavailable reports that a required binary is missing or does not run.
var ErrUnavailable = errors.New("tool unavailable")

// Command describes one invocation. Nil streams are left unconnected.
type Command struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for diagnostics. Stdin is never shown.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Executor abstracts command execution for testing.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, cmd Command) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// OS returns the executor backed by os/exec.
func OS() Executor {
	return defaultExec
}

// Probe checks that name is on PATH and that running it with args succeeds.
// The returned error wraps ErrUnavailable.
func Probe(ctx context.Context, e Executor, name string, args ...string) error {
	if _, err := e.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s not found on PATH: %v", ErrUnavailable, name, err)
	}
	if err := e.Run(ctx, Command{Name: name, Args: args}); err != nil {
		return fmt.Errorf("%w: %s %s failed: %v", ErrUnavailable, name, strings.Join(args, " "), err)
	}
	return nil
}

// RunCaptured runs c, collecting stderr. On failure the error includes the
// trimmed stderr output, which is where openssl and poppler report problems.
func RunCaptured(ctx context.Context, e Executor, c Command) error {
	var stderr bytes.Buffer
	c.Stderr = &stderr
	if err := e.Run(ctx, c); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", c.Name, err, msg)
		}
		return fmt.Errorf("running %s: %w", c.Name, err)
	}
	return nil
}

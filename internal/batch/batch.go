// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch converts every PKCS#12 bundle in a directory to PEM files,
// reading each bundle's PIN from the PDF that shares its name.
//
// Pairs are processed one at a time. A pair that is skipped or fails never
// stops the batch; only an unusable conversion backend does.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/p12pem/internal/bundle"
	"github.com/pdiddy/p12pem/internal/pdftext"
	"github.com/pdiddy/p12pem/internal/pin"
	"github.com/pdiddy/p12pem/pkg/types"
)

var (
	// ErrMissingDocument means a bundle has no PDF with the same stem.
	ErrMissingDocument = errors.New("companion document not found")

	// ErrNoPIN means no PIN pattern matched the document text.
	ErrNoPIN = errors.New("no PIN found")
)

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Succeeded       int
	MissingDocument int
	NoMatch         int
	Failed          int

	// EncodingFailures counts base64 files that could not be written. Their
	// pairs still count as succeeded.
	EncodingFailures int

	Outcomes []types.Outcome
}

// Total returns the number of pairs processed.
func (r BatchResult) Total() int {
	return r.Succeeded + r.MissingDocument + r.NoMatch + r.Failed
}

// Skipped returns the number of pairs that never reached conversion.
func (r BatchResult) Skipped() int {
	return r.MissingDocument + r.NoMatch
}

// HasFailures reports whether any pair did not fully convert.
func (r BatchResult) HasFailures() bool {
	return r.Total() != r.Succeeded || r.EncodingFailures > 0
}

func (r *BatchResult) add(o types.Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.EncodingFailures += o.EncodingFailures
	switch o.Status {
	case types.StatusSucceeded:
		r.Succeeded++
	case types.StatusMissingDocument:
		r.MissingDocument++
	case types.StatusNoMatch:
		r.NoMatch++
	case types.StatusFailed:
		r.Failed++
	}
}

// Runner drives the conversion of a directory.
type Runner struct {
	extractor pdftext.Extractor
	converter bundle.Converter
	chain     pin.Chain
	timeout   time.Duration
	w         io.Writer
}

// NewRunner returns a Runner that prints progress to w. Each external call
// (text extraction, key and certificate export) is bounded by timeout; zero
// means no limit.
func NewRunner(e pdftext.Extractor, c bundle.Converter, chain pin.Chain, timeout time.Duration, w io.Writer) *Runner {
	return &Runner{
		extractor: e,
		converter: c,
		chain:     chain,
		timeout:   timeout,
		w:         w,
	}
}

// Run checks the conversion backend, then processes every pair found in dir.
// It returns an error only when the backend is unusable, dir cannot be read,
// or ctx is cancelled; per-pair problems are reported in the result.
func (r *Runner) Run(ctx context.Context, dir string) (BatchResult, error) {
	var result BatchResult

	checkCtx, cancel := r.bounded(ctx)
	err := r.converter.Check(checkCtx)
	cancel()
	if err != nil {
		return result, fmt.Errorf("%s backend: %w", r.converter.Name(), err)
	}

	pairs, err := Discover(dir)
	if err != nil {
		return result, err
	}
	if len(pairs) == 0 {
		fmt.Fprintf(r.w, "no .p12 files found in %s\n", dir)
		return result, nil
	}
	fmt.Fprintf(r.w, "found %d bundle(s)\n", len(pairs))

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.add(r.ProcessPair(ctx, p))
	}

	fmt.Fprintf(r.w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Succeeded, result.Skipped(), result.Failed, result.Total())
	if result.EncodingFailures > 0 {
		fmt.Fprintf(r.w, "warning: %d base64 file(s) could not be written\n", result.EncodingFailures)
	}
	return result, nil
}

// ProcessPair converts one pair and reports how it ended. Files written
// before a failure are left in place.
func (r *Runner) ProcessPair(ctx context.Context, p types.Pair) types.Outcome {
	fmt.Fprintf(r.w, "\nprocessing: %s\n", filepath.Base(p.BundlePath))
	out := types.Outcome{Stem: p.Stem}

	if err := checkDocument(p); err != nil {
		fmt.Fprintf(r.w, "skipped: %s (%v)\n", p.Stem, err)
		out.Status, out.Detail = types.StatusMissingDocument, err.Error()
		return out
	}

	secret, err := r.findPIN(ctx, p)
	if err != nil {
		fmt.Fprintf(r.w, "skipped: %s (%v)\n", p.Stem, err)
		out.Status, out.Detail = types.StatusNoMatch, err.Error()
		return out
	}

	art := p.Artifacts()
	steps := []struct {
		label  string
		export func(ctx context.Context, bundlePath, secret, out string) error
		path   string
	}{
		{"key", r.converter.ExportKey, art.Key},
		{"cert", r.converter.ExportCert, art.Cert},
	}
	for _, s := range steps {
		stepCtx, cancel := r.bounded(ctx)
		err := s.export(stepCtx, p.BundlePath, secret, s.path)
		cancel()
		if err != nil {
			fmt.Fprintf(r.w, "failed:  %s (%v)\n", p.Stem, err)
			out.Status, out.Detail = types.StatusFailed, err.Error()
			return out
		}
		fmt.Fprintf(r.w, "%s: %s\n", s.label, filepath.Base(s.path))
	}

	for _, e := range [][2]string{{art.Key, art.KeyBase64}, {art.Cert, art.CertBase64}} {
		if err := EncodeFile(e[0], e[1]); err != nil {
			fmt.Fprintf(r.w, "warning: %s: %v\n", p.Stem, err)
			out.EncodingFailures++
			continue
		}
		fmt.Fprintf(r.w, "encoded: %s\n", filepath.Base(e[1]))
	}

	fmt.Fprintf(r.w, "converted: %s\n", p.Stem)
	out.Status = types.StatusSucceeded
	return out
}

// findPIN extracts the document text and runs the PIN chain over it. The
// PIN itself is never printed; the console shows which pattern matched.
func (r *Runner) findPIN(ctx context.Context, p types.Pair) (string, error) {
	extractCtx, cancel := r.bounded(ctx)
	text, err := r.extractor.Extract(extractCtx, p.DocumentPath)
	cancel()
	if err != nil {
		return "", fmt.Errorf("%w in %s: %v", ErrNoPIN, filepath.Base(p.DocumentPath), err)
	}

	secret, matcher, ok := r.chain.Match(text)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoPIN, filepath.Base(p.DocumentPath))
	}
	fmt.Fprintf(r.w, "pin: %s (matched %s, %d chars)\n", p.Stem, matcher, len(secret))
	return secret, nil
}

func (r *Runner) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func checkDocument(p types.Pair) error {
	info, err := os.Stat(p.DocumentPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingDocument, filepath.Base(p.DocumentPath))
	}
	return nil
}

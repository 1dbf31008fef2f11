// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/p12pem/internal/batch"
	"github.com/pdiddy/p12pem/internal/bundle"
	"github.com/pdiddy/p12pem/internal/history"
	"github.com/pdiddy/p12pem/internal/pdftext"
	"github.com/pdiddy/p12pem/internal/pin"
	"github.com/pdiddy/p12pem/internal/tool"
	"github.com/pdiddy/p12pem/pkg/types"
)

// runConvert wires the backends from cfg and converts dir. Outside strict
// mode only configuration errors produce a non-nil error: an unusable
// backend and per-pair failures are reported on the console.
func runConvert(ctx context.Context, cfg types.Config, e tool.Executor, dir string, stdout, stderr io.Writer) error {
	runner, err := newRunner(ctx, cfg, e, stdout)
	if err != nil {
		if errors.Is(err, tool.ErrUnavailable) && !cfg.Strict {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return nil
		}
		return err
	}

	started := time.Now()
	result, err := runner.Run(ctx, dir)
	if err != nil {
		if cfg.Strict {
			return err
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return nil
	}
	finished := time.Now()

	if cfg.Report != "" {
		if err := batch.WriteReport(cfg.Report, batch.NewReport(dir, started, finished, result)); err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
	}
	if cfg.History != "" {
		if err := recordHistory(ctx, cfg.History, dir, started, finished, result); err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
	}

	if cfg.Strict && result.HasFailures() {
		return fmt.Errorf("%d of %d bundle(s) did not fully convert", incomplete(result), result.Total())
	}
	return nil
}

func newRunner(ctx context.Context, cfg types.Config, e tool.Executor, w io.Writer) (*batch.Runner, error) {
	extra, err := pin.Compile(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	extractor, err := newExtractor(ctx, cfg, e)
	if err != nil {
		return nil, err
	}
	converter, err := bundle.New(cfg.Backend, e, cfg.OpenSSLLegacy)
	if err != nil {
		return nil, err
	}
	return batch.NewRunner(extractor, converter, pin.Default().With(extra...), cfg.ToolTimeout, w), nil
}

// newExtractor bounds the text backend's availability check by the tool
// timeout, like every other external call.
func newExtractor(ctx context.Context, cfg types.Config, e tool.Executor) (pdftext.Extractor, error) {
	if cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ToolTimeout)
		defer cancel()
	}
	return pdftext.New(ctx, cfg.TextBackend, e)
}

// incomplete counts pairs that were skipped, failed, or lost a base64 output.
func incomplete(r batch.BatchResult) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status != types.StatusSucceeded || o.EncodingFailures > 0 {
			n++
		}
	}
	return n
}

func recordHistory(ctx context.Context, path, dir string, started, finished time.Time, r batch.BatchResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, history.Run{
		Directory:  dir,
		StartedAt:  started,
		FinishedAt: finished,
		Outcomes:   r.Outcomes,
	})
	return err
}

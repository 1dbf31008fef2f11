// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/p12pem/internal/tool"
)

const binPdftotext = "pdftotext"

// Pdftotext runs poppler's pdftotext and reads the text from its stdout.
type Pdftotext struct {
	exec tool.Executor
}

// NewPdftotext verifies that pdftotext is installed and returns an
// extractor using it.
func NewPdftotext(ctx context.Context, e tool.Executor) (*Pdftotext, error) {
	if err := tool.Probe(ctx, e, binPdftotext, "-v"); err != nil {
		return nil, err
	}
	return &Pdftotext{exec: e}, nil
}

// Extract implements Extractor.
func (p *Pdftotext) Extract(ctx context.Context, pdfPath string) (string, error) {
	var out bytes.Buffer
	cmd := tool.Command{
		Name:   binPdftotext,
		Args:   []string{"-layout", pdfPath, "-"},
		Stdout: &out,
	}
	if err := tool.RunCaptured(ctx, p.exec, cmd); err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", pdfPath, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("pdftotext produced empty output for %s", pdfPath)
	}
	return out.String(), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF documents with pluggable
// backends: a pure-Go reader and poppler's pdftotext.
package pdftext

import (
	"context"
	"fmt"

	"github.com/pdiddy/p12pem/internal/tool"
	"github.com/pdiddy/p12pem/pkg/types"
)

// Extractor returns the concatenated text of every page in a PDF.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) (string, error)
}

// New returns the extractor for backend. The pdftotext backend is probed
// once here so a missing binary is reported before any document is read.
func New(ctx context.Context, backend types.TextBackend, e tool.Executor) (Extractor, error) {
	switch backend {
	case types.TextNative, "":
		return &Native{}, nil
	case types.TextPdftotext:
		return NewPdftotext(ctx, e)
	default:
		return nil, fmt.Errorf("unknown text backend %q (want %s or %s)", backend, types.TextNative, types.TextPdftotext)
	}
}

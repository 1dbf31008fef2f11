// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rsc.io/pdf"
)

// spaceRatio is the horizontal gap, as a fraction of font size, above which
// two glyphs on the same line are treated as separate words. The reader
// drops literal spaces, so word breaks are rebuilt from glyph positions.
const spaceRatio = 0.2

// Native reads PDFs with rsc.io/pdf. It handles simple text-based documents
// (standard and WinAnsi fonts); scanned or CID-encoded documents need the
// pdftotext backend.
type Native struct{}

// Extract implements Extractor. Pages are joined with a newline.
func (n *Native) Extract(ctx context.Context, pdfPath string) (text string, err error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat PDF %s: %w", pdfPath, err)
	}

	// rsc.io/pdf panics on malformed objects instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading PDF %s: malformed document: %v", pdfPath, r)
		}
	}()

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("reading PDF %s: %w", pdfPath, err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		writePage(&b, p.Content().Text)
	}
	return b.String(), nil
}

// writePage lays glyphs out in drawing order, breaking lines when the
// baseline moves and inserting spaces across horizontal gaps.
func writePage(b *strings.Builder, glyphs []pdf.Text) {
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			switch {
			case g.Y != prev.Y:
				b.WriteByte('\n')
			case g.X-(prev.X+prev.W) > g.FontSize*spaceRatio:
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftexttest writes minimal text PDFs for tests.
package pdftexttest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// lineHeight is the vertical distance between lines, in points.
const lineHeight = 16

// WritePDF writes a PDF at path with one page per element of pages. Each
// page is a list of lines set in 12pt Courier.
func WritePDF(t *testing.T, path string, pages ...[]string) {
	t.Helper()
	if err := os.WriteFile(path, Build(pages...), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Build returns the bytes of a PDF with one page per element of pages.
func Build(pages ...[]string) []byte {
	// Object layout: 1 catalog, 2 page tree, 3 font, then page/content pairs.
	var objs []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding"+
			" /FirstChar 32 /LastChar 126 /Widths ["+strings.TrimSpace(strings.Repeat("600 ", 95))+"] >>",
	)
	for i, lines := range pages {
		content := pageContent(lines)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"+
				" /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
		)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func pageContent(lines []string) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "(%s) Tj\n0 -%d Td\n", escape(line), lineHeight)
	}
	b.WriteString("ET\n")
	return b.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func escape(s string) string {
	return escaper.Replace(s)
}

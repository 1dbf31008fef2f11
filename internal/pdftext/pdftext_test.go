// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/p12pem/internal/pdftext/pdftexttest"
	"github.com/pdiddy/p12pem/internal/tool"
	"github.com/pdiddy/p12pem/pkg/types"
)

// fakeExecutor implements tool.Executor. It writes canned stdout for
// pdftotext and records the arguments it was called with.
type fakeExecutor struct {
	missing bool
	output  string
	err     error
	args    [][]string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.missing {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(ctx context.Context, c tool.Command) error {
	f.args = append(f.args, c.Args)
	if len(c.Args) == 1 && c.Args[0] == "-v" {
		return nil
	}
	if f.err != nil {
		if c.Stderr != nil {
			io.WriteString(c.Stderr, "Syntax Error: Couldn't find trailer dictionary")
		}
		return f.err
	}
	io.WriteString(c.Stdout, f.output)
	return nil
}

func TestNativeExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.pdf")
	pdftexttest.WritePDF(t, path,
		[]string{"Dear customer,", "PIN #1: 7f3Qz9"},
		[]string{"Page two"},
	)

	text, err := (&Native{}).Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "Dear customer,")
	assert.Contains(t, text, "PIN #1: 7f3Qz9")
	assert.Contains(t, text, "Page two")
	assert.Less(t, strings.Index(text, "7f3Qz9"), strings.Index(text, "Page two"), "pages keep their order")
}

func TestNativeExtractErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := (&Native{}).Extract(context.Background(), filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening PDF")

	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte(strings.Repeat("plain text, not a PDF\n", 10)), 0o644))
	_, err = (&Native{}).Extract(context.Background(), notPDF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading PDF")
}

func TestNativeExtractCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.pdf")
	pdftexttest.WritePDF(t, path, []string{"PIN #1: 7f3Qz9"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Native{}).Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPdftotextExtract(t *testing.T) {
	fe := &fakeExecutor{output: "  PIN #1:   ABC123\n\f"}
	p, err := NewPdftotext(context.Background(), fe)
	require.NoError(t, err)

	text, err := p.Extract(context.Background(), "/certs/acme.pdf")
	require.NoError(t, err)
	assert.Equal(t, "  PIN #1:   ABC123\n\f", text)
	assert.Equal(t, []string{"-layout", "/certs/acme.pdf", "-"}, fe.args[len(fe.args)-1])
}

func TestPdftotextExtractErrors(t *testing.T) {
	t.Run("tool failure includes stderr", func(t *testing.T) {
		p := &Pdftotext{exec: &fakeExecutor{err: errors.New("exit status 1")}}
		_, err := p.Extract(context.Background(), "broken.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Couldn't find trailer dictionary")
	})

	t.Run("empty output", func(t *testing.T) {
		p := &Pdftotext{exec: &fakeExecutor{}}
		_, err := p.Extract(context.Background(), "scanned.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty output")
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		backend  types.TextBackend
		exec     *fakeExecutor
		wantType Extractor
		wantErr  error
		errMsg   string
	}{
		{name: "native", backend: types.TextNative, exec: &fakeExecutor{}, wantType: &Native{}},
		{name: "default is native", backend: "", exec: &fakeExecutor{}, wantType: &Native{}},
		{name: "pdftotext", backend: types.TextPdftotext, exec: &fakeExecutor{}, wantType: &Pdftotext{}},
		{name: "pdftotext missing", backend: types.TextPdftotext, exec: &fakeExecutor{missing: true}, wantErr: tool.ErrUnavailable},
		{name: "unknown", backend: "ocr", exec: &fakeExecutor{}, errMsg: "unknown text backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(context.Background(), tt.backend, tt.exec)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.IsType(t, tt.wantType, got)
			}
		})
	}
}

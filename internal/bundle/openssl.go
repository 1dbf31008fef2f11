// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bundle

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/p12pem/internal/tool"
)

const binOpenSSL = "openssl"

// OpenSSL converts bundles with the openssl command-line tool. The PIN is
// written to the child's stdin (-passin stdin) so it never appears in the
// process list.
type OpenSSL struct {
	exec   tool.Executor
	legacy bool
}

// NewOpenSSL returns an OpenSSL converter. Set legacy for bundles protected
// with RC2 or 3DES, which OpenSSL 3.x only reads with -legacy.
func NewOpenSSL(e tool.Executor, legacy bool) *OpenSSL {
	return &OpenSSL{exec: e, legacy: legacy}
}

func (o *OpenSSL) Name() string { return binOpenSSL }

// Check runs `openssl version`.
func (o *OpenSSL) Check(ctx context.Context) error {
	return tool.Probe(ctx, o.exec, binOpenSSL, "version")
}

// ExportKey runs `openssl pkcs12 -nocerts -nodes`.
func (o *OpenSSL) ExportKey(ctx context.Context, bundlePath, pin, out string) error {
	if err := o.pkcs12(ctx, bundlePath, pin, out, "-nocerts", "-nodes"); err != nil {
		return fmt.Errorf("exporting key from %s: %w", bundlePath, err)
	}
	return nil
}

// ExportCert runs `openssl pkcs12 -nokeys`.
func (o *OpenSSL) ExportCert(ctx context.Context, bundlePath, pin, out string) error {
	if err := o.pkcs12(ctx, bundlePath, pin, out, "-nokeys"); err != nil {
		return fmt.Errorf("exporting certificate from %s: %w", bundlePath, err)
	}
	return nil
}

func (o *OpenSSL) pkcs12(ctx context.Context, bundlePath, pin, out string, mode ...string) error {
	args := []string{"pkcs12", "-in", bundlePath}
	args = append(args, mode...)
	args = append(args, "-out", out, "-passin", "stdin")
	if o.legacy {
		args = append(args, "-legacy")
	}
	return tool.RunCaptured(ctx, o.exec, tool.Command{
		Name:  binOpenSSL,
		Args:  args,
		Stdin: strings.NewReader(pin + "\n"),
	})
}

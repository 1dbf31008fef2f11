// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bundle exports the private key and certificates held in a PKCS#12
// bundle as PEM files.
//
// Two backends exist. OpenSSL shells out to `openssl pkcs12` exactly as an
// operator would by hand; Native decodes the bundle in-process and never
// hands the PIN to another process.
package bundle

import (
	"context"
	"fmt"

	"github.com/pdiddy/p12pem/internal/tool"
	"github.com/pdiddy/p12pem/pkg/types"
)

// Converter writes the unencrypted key and the certificates of a bundle.
type Converter interface {
	// Name identifies the backend in console output.
	Name() string

	// Check verifies that the backend can run. It is called once before a
	// batch starts; an error wrapping tool.ErrUnavailable aborts the batch.
	Check(ctx context.Context) error

	// ExportKey decrypts bundlePath with pin and writes the private key to out.
	ExportKey(ctx context.Context, bundlePath, pin, out string) error

	// ExportCert decrypts bundlePath with pin and writes the certificates to out.
	ExportCert(ctx context.Context, bundlePath, pin, out string) error
}

// New returns the converter for backend.
func New(backend types.BundleBackend, e tool.Executor, legacy bool) (Converter, error) {
	switch backend {
	case types.BundleNative, "":
		return &Native{}, nil
	case types.BundleOpenSSL:
		return NewOpenSSL(e, legacy), nil
	default:
		return nil, fmt.Errorf("unknown bundle backend %q (want %s or %s)", backend, types.BundleNative, types.BundleOpenSSL)
	}
}

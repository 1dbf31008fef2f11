// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bundle

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"software.sslmate.com/src/go-pkcs12"
)

// Native decodes bundles in-process with go-pkcs12.
type Native struct{}

func (n *Native) Name() string { return "native" }

// Check always succeeds; there is nothing external to probe.
func (n *Native) Check(ctx context.Context) error { return nil }

// ExportKey writes the private key as an unencrypted PKCS#8 PEM block.
func (n *Native) ExportKey(ctx context.Context, bundlePath, pin, out string) error {
	key, _, _, err := decode(bundlePath, pin)
	if err != nil {
		return fmt.Errorf("exporting key from %s: %w", bundlePath, err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("exporting key from %s: marshaling private key: %w", bundlePath, err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return writeFile(out, block, 0o600)
}

// ExportCert writes the leaf certificate followed by any CA certificates,
// matching the order of `openssl pkcs12 -nokeys`.
func (n *Native) ExportCert(ctx context.Context, bundlePath, pin, out string) error {
	_, leaf, cas, err := decode(bundlePath, pin)
	if err != nil {
		return fmt.Errorf("exporting certificate from %s: %w", bundlePath, err)
	}
	var b bytes.Buffer
	for _, c := range append([]*x509.Certificate{leaf}, cas...) {
		if err := pem.Encode(&b, &pem.Block{Type: "CERTIFICATE", Bytes: c.Raw}); err != nil {
			return fmt.Errorf("encoding certificate: %w", err)
		}
	}
	return writeFile(out, b.Bytes(), 0o644)
}

// writeFile writes data to out and leaves it with exactly perm, including
// when out already existed with wider permissions from an earlier run.
func writeFile(out string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(out, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := os.Chmod(out, perm); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

func decode(bundlePath, pin string) (any, *x509.Certificate, []*x509.Certificate, error) {
	data, err := os.ReadFile(bundlePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading bundle: %w", err)
	}
	key, leaf, cas, err := pkcs12.DecodeChain(data, pin)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decoding bundle: %w", err)
	}
	return key, leaf, cas, nil
}

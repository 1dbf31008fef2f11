// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bundletest generates PKCS#12 bundles for tests.
package bundletest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"testing"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// Bundle is the material encoded into a generated .p12 file.
type Bundle struct {
	Key  *ecdsa.PrivateKey
	Leaf *x509.Certificate
	CA   *x509.Certificate
}

// Write generates a CA, a leaf certificate signed by it, and writes a
// PKCS#12 bundle protected by pin to path. The CA is included in the chain.
func Write(t *testing.T, path, pin string) Bundle {
	t.Helper()

	caKey := newKey(t)
	caTmpl := template(1, "p12pem test CA")
	caTmpl.IsCA = true
	caTmpl.BasicConstraintsValid = true
	caTmpl.KeyUsage = x509.KeyUsageCertSign
	ca := sign(t, caTmpl, caTmpl, &caKey.PublicKey, caKey)

	key := newKey(t)
	leafTmpl := template(2, "acme.example")
	leafTmpl.KeyUsage = x509.KeyUsageDigitalSignature
	leaf := sign(t, leafTmpl, ca, &key.PublicKey, caKey)

	data, err := pkcs12.Modern.Encode(key, leaf, []*x509.Certificate{ca}, pin)
	if err != nil {
		t.Fatalf("encoding bundle: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return Bundle{Key: key, Leaf: leaf, CA: ca}
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return k
}

func template(serial int64, cn string) *x509.Certificate {
	now := time.Now()
	return &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(24 * time.Hour),
	}
}

func sign(t *testing.T, tmpl, parent *x509.Certificate, pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey) *x509.Certificate {
	t.Helper()
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, priv)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	c, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parsing certificate: %v", err)
	}
	return c
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
)

// Status is the terminal state of one pair in a batch run.
type Status string

const (
	StatusSucceeded       Status = "succeeded"
	StatusMissingDocument Status = "skipped-missing-document"
	StatusNoMatch         Status = "skipped-no-match"
	StatusFailed          Status = "failed-conversion"
)

// Skipped reports whether the pair never reached conversion.
func (s Status) Skipped() bool {
	return s == StatusMissingDocument || s == StatusNoMatch
}

// Pair is a PKCS#12 bundle and the PDF sharing its stem.
type Pair struct {
	// Stem is the bundle file name without its extension (e.g. "acme").
	Stem string `json:"stem" yaml:"stem"`

	// BundlePath is the path to the .p12 file.
	BundlePath string `json:"bundle_path" yaml:"bundle_path"`

	// DocumentPath is the expected path of the companion .pdf. It may not exist.
	DocumentPath string `json:"document_path" yaml:"document_path"`
}

// NewPair derives a Pair from a bundle path. The document is expected next
// to the bundle as <stem>.pdf.
func NewPair(bundlePath string) Pair {
	dir := filepath.Dir(bundlePath)
	stem := strings.TrimSuffix(filepath.Base(bundlePath), filepath.Ext(bundlePath))
	return Pair{
		Stem:         stem,
		BundlePath:   bundlePath,
		DocumentPath: filepath.Join(dir, stem+".pdf"),
	}
}

// Artifacts returns the output paths for the pair.
func (p Pair) Artifacts() Artifacts {
	dir := filepath.Dir(p.BundlePath)
	return Artifacts{
		Key:        filepath.Join(dir, p.Stem+"-key.pem"),
		Cert:       filepath.Join(dir, p.Stem+"-cert.pem"),
		KeyBase64:  filepath.Join(dir, p.Stem+"-key-b64.txt"),
		CertBase64: filepath.Join(dir, p.Stem+"-cert-b64.txt"),
	}
}

// Artifacts holds the four files written for a converted pair.
type Artifacts struct {
	Key        string `json:"key" yaml:"key"`
	Cert       string `json:"cert" yaml:"cert"`
	KeyBase64  string `json:"key_b64" yaml:"key_b64"`
	CertBase64 string `json:"cert_b64" yaml:"cert_b64"`
}

// Outcome records how a pair finished. It never carries the PIN.
type Outcome struct {
	Stem   string `json:"stem" yaml:"stem"`
	Status Status `json:"status" yaml:"status"`

	// Detail is a human-readable reason for skipped and failed pairs.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// EncodingFailures counts base64 outputs that could not be written.
	EncodingFailures int `json:"encoding_failures,omitempty" yaml:"encoding_failures,omitempty"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BundleBackend identifies the PKCS#12 conversion implementation.
type BundleBackend string

const (
	BundleNative  BundleBackend = "native"
	BundleOpenSSL BundleBackend = "openssl"
)

// TextBackend identifies the PDF text extraction implementation.
type TextBackend string

const (
	TextNative    TextBackend = "native"
	TextPdftotext TextBackend = "pdftotext"
)

// DefaultToolTimeout bounds each external tool invocation.
const DefaultToolTimeout = 2 * time.Minute

// Config holds the settings for a conversion run. Zero values fall back to
// the defaults applied by WithDefaults.
type Config struct {
	// Backend selects the bundle converter: native or openssl.
	Backend BundleBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// TextBackend selects the PDF text extractor: native or pdftotext.
	TextBackend TextBackend `json:"text_backend" yaml:"text_backend" mapstructure:"text_backend"`

	// OpenSSLLegacy passes -legacy to openssl for bundles using RC2/3DES
	// (OpenSSL 3.x rejects them otherwise).
	OpenSSLLegacy bool `json:"openssl_legacy" yaml:"openssl_legacy" mapstructure:"openssl_legacy"`

	// ToolTimeout bounds each external tool invocation (default 2m).
	ToolTimeout time.Duration `json:"tool_timeout" yaml:"tool_timeout" mapstructure:"tool_timeout"`

	// Patterns are extra PIN regexes tried after the built-in ones. Each
	// must have exactly one capture group.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" mapstructure:"patterns"`

	// Strict makes the CLI exit non-zero when any pair did not succeed.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// Report is an optional path for a YAML run summary.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`

	// History is an optional path to a SQLite database of past runs.
	History string `json:"history,omitempty" yaml:"history,omitempty" mapstructure:"history"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Backend == "" {
		c.Backend = BundleNative
	}
	if c.TextBackend == "" {
		c.TextBackend = TextNative
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}
	return c
}

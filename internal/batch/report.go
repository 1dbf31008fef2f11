// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/p12pem/pkg/types"
)

// Report is the YAML summary of a run. It holds no PINs.
type Report struct {
	Directory  string    `yaml:"directory"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`

	Succeeded        int `yaml:"succeeded"`
	MissingDocument  int `yaml:"skipped_missing_document"`
	NoMatch          int `yaml:"skipped_no_match"`
	Failed           int `yaml:"failed"`
	EncodingFailures int `yaml:"encoding_failures"`

	Outcomes []types.Outcome `yaml:"outcomes"`
}

// NewReport builds a Report from a finished run.
func NewReport(dir string, started, finished time.Time, r BatchResult) Report {
	return Report{
		Directory:        dir,
		StartedAt:        started.UTC(),
		FinishedAt:       finished.UTC(),
		Succeeded:        r.Succeeded,
		MissingDocument:  r.MissingDocument,
		NoMatch:          r.NoMatch,
		Failed:           r.Failed,
		EncodingFailures: r.EncodingFailures,
		Outcomes:         r.Outcomes,
	}
}

// WriteReport marshals rep to YAML at path.
func WriteReport(path string, rep Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

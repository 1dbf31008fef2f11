// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/p12pem/pkg/types"
)

func TestWriteReport(t *testing.T) {
	var result BatchResult
	result.add(types.Outcome{Stem: "a", Status: types.StatusSucceeded, EncodingFailures: 1})
	result.add(types.Outcome{Stem: "b", Status: types.StatusMissingDocument, Detail: "companion document not found: b.pdf"})
	result.add(types.Outcome{Stem: "c", Status: types.StatusFailed, Detail: "exit status 1"})

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteReport(path, NewReport("/certs", started, started.Add(time.Minute), result)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "/certs", got.Directory)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 1, got.MissingDocument)
	assert.Equal(t, 0, got.NoMatch)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1, got.EncodingFailures)
	require.Len(t, got.Outcomes, 3)
	assert.Equal(t, types.StatusMissingDocument, got.Outcomes[1].Status)
	assert.Contains(t, string(data), "skipped_missing_document: 1")
}

func TestWriteReportBadPath(t *testing.T) {
	err := WriteReport(filepath.Join(t.TempDir(), "missing", "report.yaml"), Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing report")
}

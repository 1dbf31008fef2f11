// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether Run succeeds
	stderr        string
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, c Command) error {
	key := c.String()
	m.calls = append(m.calls, key)
	if m.runnableCmds[key] {
		return nil
	}
	if c.Stderr != nil && m.stderr != "" {
		io.WriteString(c.Stderr, m.stderr)
	}
	return errors.New("exit status 1")
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		exec    *mockExecutor
		wantErr string
	}{
		{
			name: "available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"openssl": true},
				runnableCmds:  map[string]bool{"openssl version": true},
			},
		},
		{
			name:    "not on path",
			exec:    &mockExecutor{},
			wantErr: "openssl not found on PATH",
		},
		{
			name: "on path but fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"openssl": true},
			},
			wantErr: "openssl version failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Probe(context.Background(), tt.exec, "openssl", "version")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunCaptured(t *testing.T) {
	e := &mockExecutor{stderr: "Mac verify error: invalid password?\n"}
	err := RunCaptured(context.Background(), e, Command{Name: "openssl", Args: []string{"pkcs12"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running openssl")
	assert.Contains(t, err.Error(), "invalid password?")
	assert.False(t, strings.HasSuffix(err.Error(), "\n"))

	ok := &mockExecutor{runnableCmds: map[string]bool{"openssl pkcs12": true}}
	require.NoError(t, RunCaptured(context.Background(), ok, Command{Name: "openssl", Args: []string{"pkcs12"}}))
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "pdftotext", Args: []string{"-layout", "a.pdf", "-"}, Stdin: strings.NewReader("secret")}
	assert.Equal(t, "pdftotext -layout a.pdf -", c.String())
	assert.NotContains(t, fmt.Sprint(c.String()), "secret")
}

func TestOSExecutor(t *testing.T) {
	e := OS()
	_, err := e.LookPath("definitely-not-a-real-binary-p12pem")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = e.Run(ctx, Command{Name: "definitely-not-a-real-binary-p12pem"})
	assert.Error(t, err)
}

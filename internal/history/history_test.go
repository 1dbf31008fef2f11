// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/p12pem/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	first, err := s.Record(ctx, Run{
		Directory:  "/certs",
		StartedAt:  t0,
		FinishedAt: t0.Add(time.Second),
		Outcomes: []types.Outcome{
			{Stem: "acme", Status: types.StatusNoMatch, Detail: "no PIN found in acme.pdf"},
			{Stem: "beta", Status: types.StatusSucceeded},
		},
	})
	require.NoError(t, err)

	second, err := s.Record(ctx, Run{
		Directory:  "/certs",
		StartedAt:  t0.Add(time.Hour),
		FinishedAt: t0.Add(time.Hour + time.Second),
		Outcomes: []types.Outcome{
			{Stem: "acme", Status: types.StatusSucceeded, EncodingFailures: 1},
		},
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	acme, err := s.Recent(ctx, "acme", 0)
	require.NoError(t, err)
	require.Len(t, acme, 2)
	assert.Equal(t, second, acme[0].RunID, "newest first")
	assert.Equal(t, types.StatusSucceeded, acme[0].Status)
	assert.Equal(t, 1, acme[0].EncodingFailures)
	assert.True(t, t0.Add(time.Hour).Equal(acme[0].StartedAt))
	assert.Equal(t, types.StatusNoMatch, acme[1].Status)
	assert.Equal(t, "no PIN found in acme.pdf", acme[1].Detail)

	all, err := s.Recent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "/certs", all[0].Directory)
}

func TestRecentUnknownStem(t *testing.T) {
	s := openStore(t)
	got, err := s.Recent(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenReusesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), Run{Directory: ".", StartedAt: time.Now(), FinishedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	var runs int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 1, runs)
}
